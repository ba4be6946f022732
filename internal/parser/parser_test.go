package parser

import "testing"

func TestNormalisationTable(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "  NEXT  ", want: "next"},
		{in: "choose   high_school_exam 2!!", want: "choose high_school_exam 2"},
		{in: "互动  father\tchat", want: "互动 father chat"},
		{in: "go-to library", want: "go to library"},
	}
	for _, tc := range tests {
		got := normaliseInput(tc.in)
		if got != tc.want {
			t.Fatalf("normaliseInput(%q)=%q want=%q", tc.in, got, tc.want)
		}
	}
}

func TestAliasMapsToCanonical(t *testing.T) {
	p := New()
	tests := []struct {
		in   string
		want string
	}{
		{in: "inv", want: "inventory"},
		{in: "下一年", want: "next"},
		{in: "advance", want: "next"},
		{in: "q", want: "quit"},
		{in: "状态", want: "status"},
	}
	for _, tc := range tests {
		intent := p.Parse(tc.in)
		if intent.Verb != tc.want {
			t.Fatalf("Parse(%q) verb=%q want=%q", tc.in, intent.Verb, tc.want)
		}
		if intent.Clarify != nil {
			t.Fatalf("Parse(%q) did not expect clarify: %+v", tc.in, intent.Clarify)
		}
	}
}

func TestTypoMapsToCommand(t *testing.T) {
	p := New()
	intent := p.Parse("inventry")
	if intent.Verb != "inventory" {
		t.Fatalf("expected inventory verb, got %q", intent.Verb)
	}
	if intent.Confidence < 0.6 {
		t.Fatalf("expected decent confidence for typo correction, got %.2f", intent.Confidence)
	}
}

func TestSaveAndSavesAreDistinct(t *testing.T) {
	p := New()
	if got := p.Parse("save").Verb; got != "save" {
		t.Fatalf("expected save, got %q", got)
	}
	if got := p.Parse("saves").Verb; got != "saves" {
		t.Fatalf("expected saves, got %q", got)
	}
}

func TestArgsAfterCommand(t *testing.T) {
	p := New()
	intent := p.Parse("talk father chat")
	if intent.Verb != "talk" {
		t.Fatalf("expected talk verb, got %q", intent.Verb)
	}
	if len(intent.Args) != 2 || intent.Args[0] != "father" || intent.Args[1] != "chat" {
		t.Fatalf("unexpected args: %+v", intent.Args)
	}
}

func TestMissingArgsAsksForUsage(t *testing.T) {
	p := New()
	intent := p.Parse("buy")
	if intent.Clarify == nil {
		t.Fatalf("expected clarify for missing argument")
	}
}

func TestExtraArgsJoinIntoLast(t *testing.T) {
	p := New()
	intent := p.Parse("save my first life")
	if len(intent.Args) != 1 || intent.Args[0] != "my first life" {
		t.Fatalf("expected joined save name, got %+v", intent.Args)
	}
}

func TestUnknownCommandClarifies(t *testing.T) {
	p := New()
	intent := p.Parse("xyzzy")
	if intent.Kind != Unknown || intent.Clarify == nil {
		t.Fatalf("expected unknown with clarify, got %+v", intent)
	}
}

func TestResolveExactPrefixAndTypo(t *testing.T) {
	ids := []string{"textbook", "computer", "smartphone"}
	names := []string{"教科书", "电脑", "智能手机"}

	tests := []struct {
		arg  string
		want string
	}{
		{arg: "computer", want: "computer"},
		{arg: "comp", want: "computer"},
		{arg: "smartphon", want: "smartphone"},
		{arg: "电脑", want: "computer"},
		{arg: "TEXTBOOK", want: "textbook"},
	}
	for _, tc := range tests {
		got, clarify := Resolve(tc.arg, ids, names)
		if clarify != nil {
			t.Fatalf("Resolve(%q) unexpected clarify: %s", tc.arg, clarify.Prompt)
		}
		if got != tc.want {
			t.Fatalf("Resolve(%q)=%q want=%q", tc.arg, got, tc.want)
		}
	}
}

func TestResolveAmbiguousPrefix(t *testing.T) {
	ids := []string{"elementary_teacher", "elementary_classmate"}
	_, clarify := Resolve("elementary", ids, nil)
	if clarify == nil || len(clarify.Options) != 2 {
		t.Fatalf("expected two options, got %+v", clarify)
	}
}

func TestResolveNoMatch(t *testing.T) {
	_, clarify := Resolve("banana", []string{"father", "mother"}, nil)
	if clarify == nil {
		t.Fatalf("expected clarify for unknown target")
	}
}

func TestGluedChineseCommandSplitsArgs(t *testing.T) {
	p := New()
	tests := []struct {
		in   string
		verb string
		args []string
	}{
		{in: "选择2", verb: "choose", args: []string{"2"}},
		{in: "购买电脑", verb: "buy", args: []string{"电脑"}},
		{in: "互动father chat", verb: "talk", args: []string{"father", "chat"}},
		{in: "存档列表", verb: "saves"},
	}
	for _, tc := range tests {
		intent := p.Parse(tc.in)
		if intent.Verb != tc.verb || intent.Clarify != nil {
			t.Fatalf("Parse(%q) verb=%q clarify=%+v want=%q", tc.in, intent.Verb, intent.Clarify, tc.verb)
		}
		if len(intent.Args) != len(tc.args) {
			t.Fatalf("Parse(%q) args=%+v want=%+v", tc.in, intent.Args, tc.args)
		}
		for i := range tc.args {
			if intent.Args[i] != tc.args[i] {
				t.Fatalf("Parse(%q) args=%+v want=%+v", tc.in, intent.Args, tc.args)
			}
		}
	}
}

func TestChineseAliasIsNotFuzzyMatched(t *testing.T) {
	p := New()
	intent := p.Parse("下一天")
	if intent.Kind != Unknown || intent.Clarify == nil {
		t.Fatalf("expected unknown for a different chinese word, got verb=%q", intent.Verb)
	}

	if _, clarify := Resolve("电视", []string{"computer"}, []string{"电脑"}); clarify == nil {
		t.Fatalf("expected no match between 电视 and 电脑")
	}
}
