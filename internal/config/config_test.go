package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aiwuxian/life-path/internal/models"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Game.MaxAge != 80 || cfg.Game.StartAge != 6 {
		t.Fatalf("expected default ages 6..80, got %d..%d", cfg.Game.StartAge, cfg.Game.MaxAge)
	}
	if cfg.Game.Rates.StudyIntelligence != 0.05 {
		t.Fatalf("expected default study rate 0.05, got %v", cfg.Game.Rates.StudyIntelligence)
	}
}

func TestLoadFileKeepsUnsetDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	data := []byte("server:\n  port: \"9090\"\ngame:\n  max_age: 60\n  strict_balances: true\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Fatalf("expected port 9090, got %q", cfg.Server.Port)
	}
	if cfg.Game.MaxAge != 60 || !cfg.Game.StrictBalances {
		t.Fatalf("expected file values, got max_age=%d strict=%v", cfg.Game.MaxAge, cfg.Game.StrictBalances)
	}
	if cfg.Game.StartAge != 6 || cfg.Server.Host != "0.0.0.0" {
		t.Fatalf("expected defaults for unset keys, got start_age=%d host=%q", cfg.Game.StartAge, cfg.Server.Host)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("game:\n  max_age: 60\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("LIFESIM_MAX_AGE", "70")
	t.Setenv("LIFESIM_SEED", "42")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Game.MaxAge != 70 {
		t.Fatalf("expected env max_age 70, got %d", cfg.Game.MaxAge)
	}
	if cfg.Game.Seed != 42 {
		t.Fatalf("expected env seed 42, got %d", cfg.Game.Seed)
	}
}

func TestValidateRejectsBadAges(t *testing.T) {
	cfg := models.DefaultConfig()
	cfg.Game.MaxAge = cfg.Game.StartAge
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected error when max_age <= start_age")
	}
}
