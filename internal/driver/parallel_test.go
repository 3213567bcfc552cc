package driver

import (
	"context"
	"testing"

	"openmatch/internal/diag"
	"openmatch/internal/lint"
	"openmatch/internal/observ"
	"openmatch/internal/pattern"
	"openmatch/internal/source"
	"openmatch/internal/types"
)

func buildMatches(t *testing.T, n int) (*lint.Checker, []lint.Match) {
	t.Helper()
	reg := types.NewInterner()
	strs := source.NewInterner()

	color := reg.RegisterEnum(strs.Intern("Color"), source.Span{}, true)
	red := strs.Intern("Red")
	green := strs.Intern("Green")
	reg.SetEnumVariants(color, []types.EnumVariantInfo{{Name: red}, {Name: green}})

	matches := make([]lint.Match, n)
	for i := range matches {
		start := uint32(i * 100)
		arms := []pattern.Arm{
			{Pat: &pattern.Variant{Enum: color, Name: red}},
			{Pat: &pattern.Wildcard{}},
		}
		if i%2 == 1 {
			// odd matches list every variant: clean
			arms = []pattern.Arm{
				{Pat: &pattern.Variant{Enum: color, Name: red}},
				{Pat: &pattern.Variant{Enum: color, Name: green}},
				{Pat: &pattern.Wildcard{}},
			}
		}
		matches[i] = lint.Match{
			Span:    source.Span{Start: start, End: start + 10},
			Subject: []types.TypeID{color},
			Arms:    arms,
		}
	}
	return lint.NewChecker(reg, strs), matches
}

func TestCheckAllVerdictsLandAtTheirIndex(t *testing.T) {
	checker, matches := buildMatches(t, 9)

	results, err := CheckAll(context.Background(), checker, matches, 16, 4)
	if err != nil {
		t.Fatalf("CheckAll: %v", err)
	}
	if len(results) != len(matches) {
		t.Fatalf("got %d results for %d matches", len(results), len(matches))
	}
	for i, r := range results {
		want := lint.LintTriggered
		if i%2 == 1 {
			want = lint.NoLintNeeded
		}
		if r.Result.Verdict != want {
			t.Fatalf("match %d: verdict = %v, want %v", i, r.Result.Verdict, want)
		}
		if r.Match.Span != matches[i].Span {
			t.Fatalf("match %d landed at the wrong index", i)
		}
	}
}

func TestMergeBagsIsDeterministic(t *testing.T) {
	checker, matches := buildMatches(t, 8)

	render := func() string {
		results, err := CheckAll(context.Background(), checker, matches, 16, 8)
		if err != nil {
			t.Fatalf("CheckAll: %v", err)
		}
		total := MergeBags(results, 64)
		out := ""
		for _, d := range total.Items() {
			out += d.Primary.String() + ";"
		}
		return out
	}

	first := render()
	for range 5 {
		if got := render(); got != first {
			t.Fatalf("merged order changed between runs:\n%s\nvs\n%s", first, got)
		}
	}
}

func TestSummarizeCountsVerdicts(t *testing.T) {
	checker, matches := buildMatches(t, 6)
	// one aborted match on top
	matches = append(matches, lint.Match{
		Subject: []types.TypeID{types.TypeID(4096)},
		Arms:    []pattern.Arm{{Pat: &pattern.Wildcard{}}},
	})

	results, err := CheckAll(context.Background(), checker, matches, 16, 0)
	if err != nil {
		t.Fatalf("CheckAll: %v", err)
	}
	s := Summarize(results)
	if s.Checked != 7 || s.Triggered != 3 || s.Clean != 3 || s.Aborted != 1 {
		t.Fatalf("unexpected summary: %+v", s)
	}
}

func TestCheckAllHonorsCancellation(t *testing.T) {
	checker, matches := buildMatches(t, 64)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := CheckAll(ctx, checker, matches, 16, 1)
	if err == nil {
		t.Fatalf("expected a cancellation error")
	}
}

func TestAppendTimingDiagnosticOverflowsCap(t *testing.T) {
	report := observ.Report{
		TotalMS: 1.5,
		Phases:  []observ.PhaseReport{{Name: "check", DurationMS: 1.5}},
	}
	bag := diag.NewBag(0)
	AppendTimingDiagnostic(bag, "matches.mp", report)
	if bag.Len() != 1 || bag.Items()[0].Code != diag.ObsTimings {
		t.Fatalf("timing record must bypass a full bag, got %d items", bag.Len())
	}
	if len(bag.Items()[0].Notes) != 1 {
		t.Fatalf("expected the JSON payload note")
	}
}
