package models

import "testing"

func TestSpecialFlags(t *testing.T) {
	f := SpecialFlags{}
	if f.Get("missing") != false {
		t.Fatalf("expected missing flag to read false")
	}

	f.Set("tier", 3)
	if _, ok := f["tier"].(float64); !ok {
		t.Fatalf("expected numbers stored as float64, got %T", f["tier"])
	}
	if !f.Matches("tier", 3) || !f.Matches("tier", 3.0) {
		t.Fatalf("expected numeric match regardless of type")
	}
	if f.Matches("tier", "3") {
		t.Fatalf("did not expect string to match number")
	}

	cp := f.Clone()
	cp.Set("tier", 4)
	if !f.Matches("tier", 3) {
		t.Fatalf("clone shares storage")
	}
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		v    any
		want bool
	}{
		{v: nil, want: false},
		{v: false, want: false},
		{v: true, want: true},
		{v: "", want: false},
		{v: "normal", want: true},
		{v: 0, want: false},
		{v: 2.5, want: true},
	}
	for _, tc := range tests {
		if got := Truthy(tc.v); got != tc.want {
			t.Fatalf("Truthy(%v)=%v want=%v", tc.v, got, tc.want)
		}
	}
}

func TestRequirementStageHelpers(t *testing.T) {
	r := Requirement{MinAge: 5}
	if !r.AllowsStage(StageSociety) {
		t.Fatalf("expected unrestricted requirement to allow any stage")
	}

	scoped := r.WithStage(StageUniversity)
	if scoped.AllowsStage(StageCompulsory) || !scoped.AllowsStage(StageUniversity) {
		t.Fatalf("unexpected stage scoping: %+v", scoped.Stages)
	}
	if len(r.Stages) != 0 {
		t.Fatalf("WithStage modified the original requirement")
	}
	if all := r.WithStage(StageAll); len(all.Stages) != 0 {
		t.Fatalf("expected all to leave stages open")
	}

	aged := Requirement{MinAge: 10, MaxAge: 30}.WithAges(12, 20)
	if aged.MinAge != 12 || aged.MaxAge != 20 {
		t.Fatalf("expected narrowed ages 12..20, got %d..%d", aged.MinAge, aged.MaxAge)
	}
	if r.ForNPC("father").NPC != "father" || (Requirement{NPC: "mother"}).ForNPC("father").NPC != "mother" {
		t.Fatalf("ForNPC should only fill an empty npc")
	}
}

func TestEffectValidate(t *testing.T) {
	bad := []EffectSpec{
		{Kind: "teleport"},
		{Kind: EffectAttribute, Value: 1.0},
		{Kind: EffectMoney, Value: "lots"},
		{Kind: EffectRandom},
		{Kind: EffectRandom, Outcomes: []Outcome{{Probability: 0.8}, {Probability: 0.5}}},
	}
	for _, e := range bad {
		if err := e.Validate(); err == nil {
			t.Fatalf("expected %+v to be rejected", e)
		}
	}
	if err := (EffectSpec{Kind: EffectSpecial, Target: "hasJob", Value: true}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFormatNumber(t *testing.T) {
	tests := map[float64]string{5: "5", -50: "-50", 2.2000000000000002: "2.2", 0.125: "0.13"}
	for v, want := range tests {
		if got := FormatNumber(v); got != want {
			t.Fatalf("FormatNumber(%v)=%q want=%q", v, got, want)
		}
	}
	if FormatSigned(3) != "+3" || FormatSigned(-3) != "-3" {
		t.Fatalf("unexpected signed formatting")
	}
}
