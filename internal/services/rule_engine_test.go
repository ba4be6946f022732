package services

import (
	"testing"

	"github.com/aiwuxian/life-path/internal/models"
)

func TestPickOutcomeUsesOneSample(t *testing.T) {
	outcomes := []models.Outcome{{Probability: 0.3}, {Probability: 0.7}}
	src := &sequenceSource{Floats: []float64{0.29, 0.3}}
	re := newRuleEngineWithSource(src)

	if idx, ok := re.PickOutcome(outcomes); !ok || idx != 0 {
		t.Fatalf("sample 0.29: got %d %v", idx, ok)
	}
	if idx, ok := re.PickOutcome(outcomes); !ok || idx != 1 {
		t.Fatalf("sample 0.3: got %d %v", idx, ok)
	}
}

func TestPickOutcomeCanMiss(t *testing.T) {
	re := newRuleEngineWithSource(&sequenceSource{Floats: []float64{0.5}})
	if _, ok := re.PickOutcome([]models.Outcome{{Probability: 0.01}}); ok {
		t.Fatalf("expected no outcome above cumulative probability")
	}
	if _, ok := re.PickOutcome(nil); ok {
		t.Fatalf("expected no outcome for empty list")
	}
}

func TestChanceIsStrict(t *testing.T) {
	re := newRuleEngineWithSource(&sequenceSource{Floats: []float64{0.5}})
	if re.Chance(0.5) {
		t.Fatalf("expected sample equal to probability to fail")
	}
	if !re.Chance(0.51) {
		t.Fatalf("expected sample below probability to pass")
	}
	if re.Chance(0) {
		t.Fatalf("expected zero probability to fail")
	}
}

func TestSessionRuleEngineIsDeterministic(t *testing.T) {
	a := NewSessionRuleEngine(42, 3)
	b := NewSessionRuleEngine(42, 3)
	for i := 0; i < 10; i++ {
		if a.rng.Float64() != b.rng.Float64() {
			t.Fatalf("expected identical sequences for same seed and op")
		}
	}

	c := NewSessionRuleEngine(42, 4)
	d := NewSessionRuleEngine(42, 3)
	same := true
	for i := 0; i < 10; i++ {
		if c.rng.Float64() != d.rng.Float64() {
			same = false
		}
	}
	if same {
		t.Fatalf("expected different ops to diverge")
	}
}

func TestPickStaysInRange(t *testing.T) {
	re := NewSessionRuleEngine(7, 0)
	for i := 0; i < 100; i++ {
		if n := re.Pick(3); n < 0 || n >= 3 {
			t.Fatalf("Pick out of range: %d", n)
		}
	}
	if re.Pick(0) != 0 || re.Pick(1) != 0 {
		t.Fatalf("expected 0 for n <= 1")
	}
}
