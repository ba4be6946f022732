package models

import (
	"errors"
	"testing"
)

func TestSnapshotRestore(t *testing.T) {
	s := &Session{Character: NewCharacter("测试", 10), Flags: SpecialFlags{}, Status: SessionActive}
	s.AddLog("system", "开始")

	if err := s.Restore(); !errors.Is(err, ErrNothingToUndo) {
		t.Fatalf("expected ErrNothingToUndo, got %v", err)
	}

	s.TakeSnapshot()
	s.Character.Age = 11
	s.Character.Money = 500
	s.Flags.Set("hasJob", true)
	s.Pending = []string{"caught_cold"}
	s.Turn = 1
	s.Ops = 3
	s.AddLog("system", "年龄增长到 11 岁")

	if err := s.Restore(); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if s.Character.Age != 10 || s.Character.Money != 0 || s.Turn != 0 || s.Ops != 0 {
		t.Fatalf("unexpected restored state: age=%d money=%v turn=%d ops=%d", s.Character.Age, s.Character.Money, s.Turn, s.Ops)
	}
	if s.Flags.Get("hasJob") != false || len(s.Pending) != 0 || len(s.Log) != 1 {
		t.Fatalf("expected flags, pending and log restored")
	}
	if len(s.Snapshots) != 0 {
		t.Fatalf("expected snapshot consumed")
	}
}

func TestPendingHelpers(t *testing.T) {
	s := &Session{Pending: []string{"a", "b"}}
	if !s.IsPending("b") || s.IsPending("c") {
		t.Fatalf("unexpected IsPending results")
	}
	s.Resolve("a")
	if len(s.Pending) != 1 || s.Pending[0] != "b" {
		t.Fatalf("unexpected pending after resolve: %v", s.Pending)
	}
}
