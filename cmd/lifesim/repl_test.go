package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aiwuxian/life-path/internal/content"
	"github.com/aiwuxian/life-path/internal/models"
	"github.com/aiwuxian/life-path/internal/services"
	"github.com/aiwuxian/life-path/internal/storage"
)

func newTestREPL(t *testing.T) (*repl, *bytes.Buffer) {
	t.Helper()
	store, err := storage.New(filepath.Join(t.TempDir(), "lifesim.db"))
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	catalog, err := content.Default()
	if err != nil {
		t.Fatalf("content.Default: %v", err)
	}
	cfg := models.DefaultGameConfig()
	cfg.StartAge = 17
	cfg.Seed = 42

	game := services.NewGameService(store, catalog, cfg, nil)
	s, err := game.NewGame("小明")
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}

	var out bytes.Buffer
	return newREPL(game, s.ID, &out), &out
}

func run(t *testing.T, r *repl, out *bytes.Buffer, line string) string {
	t.Helper()
	out.Reset()
	if r.handle(line) {
		t.Fatalf("%q should not quit", line)
	}
	return out.String()
}

func TestNextThenChooseExam(t *testing.T) {
	r, out := newTestREPL(t)

	got := run(t, r, out, "next")
	if !strings.Contains(got, "(high_school_exam)") {
		t.Fatalf("expected exam offer after next, got:\n%s", got)
	}
	if !strings.Contains(got, "1. 拼命学习，争取考上名校  (不可选:") {
		t.Fatalf("expected first option disabled with reasons, got:\n%s", got)
	}

	got = run(t, r, out, "choose high_school_exam 3")
	if !strings.Contains(got, "✅ 高考: 一般复习，能上大学就行") {
		t.Fatalf("expected choice result, got:\n%s", got)
	}

	s, err := r.game.GetSession(r.sessionID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if s.IsPending("high_school_exam") || s.Flags.Get("collegeTier") != "normal" {
		t.Fatalf("exam not resolved: pending=%v flags=%v", s.Pending, s.Flags)
	}
}

func TestClarifyPaths(t *testing.T) {
	r, out := newTestREPL(t)

	if got := run(t, r, out, "xyzzy"); !strings.HasPrefix(got, "❓ 无法识别的命令") {
		t.Fatalf("expected unknown command prompt, got:\n%s", got)
	}
	if got := run(t, r, out, "buy"); !strings.Contains(got, "用法: buy <物品>") {
		t.Fatalf("expected usage prompt, got:\n%s", got)
	}

	run(t, r, out, "next")
	if got := run(t, r, out, "choose banana 1"); !strings.HasPrefix(got, "❓ 找不到") {
		t.Fatalf("expected clarify for unknown event, got:\n%s", got)
	}
	if got := run(t, r, out, "choose high_school_exam zero"); !strings.Contains(got, "选项序号必须是正整数") {
		t.Fatalf("expected index error, got:\n%s", got)
	}
}

func TestQuitStopsLoop(t *testing.T) {
	r, _ := newTestREPL(t)
	if !r.handle("退出") {
		t.Fatalf("expected quit to stop the loop")
	}
}
