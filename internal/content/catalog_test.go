package content

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aiwuxian/life-path/internal/models"
)

func TestDefaultCatalogLoads(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if len(c.Skills) != 5 || len(c.Items) != 10 || len(c.NPCs) != 10 || len(c.Scenes) != 11 {
		t.Fatalf("unexpected catalog sizes: skills=%d items=%d npcs=%d scenes=%d",
			len(c.Skills), len(c.Items), len(c.NPCs), len(c.Scenes))
	}
	if w := c.Warnings(); len(w) != 0 {
		t.Fatalf("expected built-in content without warnings, got %v", w)
	}

	exam, ok := c.Event("high_school_exam")
	if !ok || !exam.Mandatory || len(exam.Options) != 4 {
		t.Fatalf("unexpected high_school_exam: %+v", exam)
	}
	if v, ok := exam.Options[3].Effects[1].Value.(bool); !ok || !v {
		t.Fatalf("expected boolean special value, got %#v", exam.Options[3].Effects[1].Value)
	}
	if _, ok := exam.Options[0].Effects[0].Value.(float64); !ok {
		t.Fatalf("expected numeric values normalised to float64, got %T", exam.Options[0].Effects[0].Value)
	}
}

func TestMandatoryEventsMatchExactAge(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if got := c.MandatoryEvents(18, models.StageCompulsory); len(got) != 1 || got[0].ID != "high_school_exam" {
		t.Fatalf("unexpected mandatory events at 18: %+v", got)
	}
	if got := c.MandatoryEvents(19, models.StageCompulsory); len(got) != 0 {
		t.Fatalf("expected none at 19, got %+v", got)
	}
	if got := c.MandatoryEvents(21, models.StageUniversity); len(got) != 1 || got[0].ID != "college_graduation" {
		t.Fatalf("unexpected mandatory events at 21: %+v", got)
	}
}

func TestRandomPoolIncludesUniversalEvents(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	ids := map[string]bool{}
	for _, e := range c.RandomPool(models.StageSociety) {
		ids[e.ID] = true
	}
	for _, want := range []string{"job_promotion", "investment_opportunity", "caught_cold", "found_wallet"} {
		if !ids[want] {
			t.Fatalf("expected %s in society pool, got %v", want, ids)
		}
	}
	if ids["college_club"] || ids["high_school_exam"] {
		t.Fatalf("pool contains events from other stages or mandatory events: %v", ids)
	}
}

func TestRejectsUnknownEffectType(t *testing.T) {
	data := `
events:
  - id: broken
    stage: all
    options:
      - text: 试试
        effects:
          - {type: teleport, target: moon}
`
	_, err := Parse([]byte(data))
	if err == nil || !strings.Contains(err.Error(), "teleport") {
		t.Fatalf("expected unknown effect type error, got %v", err)
	}
}

func TestRejectsConflictingStage(t *testing.T) {
	data := `
events:
  - id: conflict
    stage: compulsory
    requirement: {stages: [university]}
    options:
      - text: 好
        effects: []
`
	if _, err := Parse([]byte(data)); err == nil {
		t.Fatalf("expected stage conflict to be rejected")
	}
}

func TestRejectsUnknownStageAndDuplicates(t *testing.T) {
	unknown := `
scenes:
  - id: moon
    stage: space
`
	if _, err := Parse([]byte(unknown)); err == nil {
		t.Fatalf("expected unknown stage to be rejected")
	}

	dup := `
items:
  - {id: textbook, name: a, price: 1}
  - {id: textbook, name: b, price: 2}
`
	if _, err := Parse([]byte(dup)); err == nil {
		t.Fatalf("expected duplicate id to be rejected")
	}
}

func TestWarningsForUnknownReferences(t *testing.T) {
	data := `
skills:
  - id: academicBasics
items:
  - id: charm_potion
    price: 10
    effects:
      - {type: attribute, target: luck, value: 5}
      - {type: skill, target: cooking, value: 5}
npcs:
  - id: father
    stage: all
    interactions:
      - id: call
        requirement: {npc: ghost, min_relationship: 10}
        effects:
          - {type: relationship, target: ghost, value: 1}
`
	c, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	warnings := c.Warnings()
	if len(warnings) != 4 {
		t.Fatalf("expected 4 warnings, got %v", warnings)
	}
	joined := strings.Join(warnings, "\n")
	for _, want := range []string{"未知属性 luck", "未知技能 cooking", "未知NPC ghost", "条件引用未知NPC ghost"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("missing warning %q in %v", want, warnings)
		}
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.yml")
	data := `
events:
  - id: only
    stage: all
    options:
      - text: 好
        effects: [{type: money, value: 1}]
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(c.Events) != 1 {
		t.Fatalf("expected one event, got %d", len(c.Events))
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
