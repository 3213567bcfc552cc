package lint

import (
	"testing"

	"openmatch/internal/diag"
	"openmatch/internal/pattern"
	"openmatch/internal/source"
	"openmatch/internal/types"
)

type world struct {
	reg  *types.Interner
	strs *source.Interner
}

func newWorld() *world {
	return &world{reg: types.NewInterner(), strs: source.NewInterner()}
}

func (w *world) enum(name string, open bool, variants ...string) types.TypeID {
	id := w.reg.RegisterEnum(w.strs.Intern(name), source.Span{}, open)
	infos := make([]types.EnumVariantInfo, len(variants))
	for i, v := range variants {
		infos[i] = types.EnumVariantInfo{Name: w.strs.Intern(v)}
	}
	w.reg.SetEnumVariants(id, infos)
	return id
}

func (w *world) variant(enum types.TypeID, name string) *pattern.Variant {
	return &pattern.Variant{Enum: enum, Name: w.strs.Intern(name)}
}

func (w *world) checker() *Checker {
	return NewChecker(w.reg, w.strs)
}

func arms(pats ...pattern.Pat) []pattern.Arm {
	out := make([]pattern.Arm, len(pats))
	for i, p := range pats {
		out[i] = pattern.Arm{Pat: p}
	}
	return out
}

func TestClosedOnlySubjectNeverLints(t *testing.T) {
	w := newWorld()
	color := w.enum("Color", false, "Red", "Green")

	// an over-broad wildcard is fine when nothing is open
	m := Match{
		Subject: []types.TypeID{color},
		Arms:    arms(w.variant(color, "Red"), &pattern.Wildcard{}),
	}
	res := w.checker().Evaluate(m)
	if res.Verdict != NoLintNeeded {
		t.Fatalf("verdict = %v, want NoLintNeeded", res.Verdict)
	}
}

func TestOpenEnumAllVariantsListed(t *testing.T) {
	w := newWorld()
	color := w.enum("Color", true, "Red", "Green")

	m := Match{
		Subject: []types.TypeID{color},
		Arms: arms(
			w.variant(color, "Red"),
			w.variant(color, "Green"),
			&pattern.Wildcard{},
		),
	}
	res := w.checker().Evaluate(m)
	if res.Verdict != NoLintNeeded {
		t.Fatalf("every known variant is explicit; verdict = %v, missing %d", res.Verdict, len(res.Missing))
	}
}

func TestOpenEnumWildcardHidesVariant(t *testing.T) {
	w := newWorld()
	color := w.enum("Color", true, "Red", "Green", "Blue")

	m := Match{
		Subject: []types.TypeID{color},
		Arms:    arms(w.variant(color, "Red"), &pattern.Wildcard{}),
	}
	res := w.checker().Evaluate(m)
	if res.Verdict != LintTriggered {
		t.Fatalf("verdict = %v, want LintTriggered", res.Verdict)
	}
	if len(res.Missing) == 0 {
		t.Fatalf("expected witnesses for the hidden variants")
	}
}

func TestEvaluateIsIdempotent(t *testing.T) {
	w := newWorld()
	color := w.enum("Color", true, "Red", "Green")
	m := Match{
		Subject: []types.TypeID{color},
		Arms:    arms(w.variant(color, "Red"), &pattern.Wildcard{}),
	}
	c := w.checker()
	first := c.Evaluate(m)
	second := c.Evaluate(m)
	if first.Verdict != second.Verdict || len(first.Missing) != len(second.Missing) {
		t.Fatalf("verdict changed between runs: %v vs %v", first.Verdict, second.Verdict)
	}
}

func TestVerdictFlipsWhenUpstreamAddsVariant(t *testing.T) {
	build := func(variants ...string) (*Checker, Match) {
		w := newWorld()
		color := w.enum("Color", true, variants...)
		m := Match{
			Subject: []types.TypeID{color},
			Arms: arms(
				w.variant(color, "Red"),
				w.variant(color, "Green"),
				&pattern.Wildcard{},
			),
		}
		return w.checker(), m
	}

	before, m1 := build("Red", "Green")
	if res := before.Evaluate(m1); res.Verdict != NoLintNeeded {
		t.Fatalf("before extension: verdict = %v, want NoLintNeeded", res.Verdict)
	}

	after, m2 := build("Red", "Green", "Teal")
	res := after.Evaluate(m2)
	if res.Verdict != LintTriggered {
		t.Fatalf("after extension: verdict = %v, want LintTriggered", res.Verdict)
	}
}

func TestJointMatchTriggersAsWhole(t *testing.T) {
	w := newWorld()
	enumA := w.enum("EnumA", true, "X", "Y")
	enumB := w.enum("EnumB", true, "P", "Q")

	m := Match{
		Subject: []types.TypeID{enumA, enumB},
		Arms: arms(
			&pattern.Tuple{Elems: []pattern.Pat{w.variant(enumA, "X"), w.variant(enumB, "P")}},
			&pattern.Tuple{Elems: []pattern.Pat{w.variant(enumA, "Y"), &pattern.Wildcard{}}},
			&pattern.Wildcard{},
		),
	}
	res := w.checker().Evaluate(m)
	if res.Verdict != LintTriggered {
		t.Fatalf("verdict = %v, want LintTriggered", res.Verdict)
	}
	found := false
	for _, wit := range res.Missing {
		if wit.Format(w.reg, w.strs) == "(X, Q)" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected the uncovered (X, Q) region among witnesses")
	}
}

func TestStructAllFieldsNamedWithRest(t *testing.T) {
	w := newWorld()
	width := w.strs.Intern("width")
	height := w.strs.Intern("height")
	cfg := w.reg.RegisterStruct(w.strs.Intern("Config"), source.Span{}, true)
	w.reg.SetStructFields(cfg, []types.StructField{
		{Name: width, Type: w.reg.Builtins().Int},
		{Name: height, Type: w.reg.Builtins().Int},
	})

	m := Match{
		Subject: []types.TypeID{cfg},
		Arms: arms(&pattern.Struct{
			Type: cfg,
			Fields: []pattern.FieldPat{
				{Name: width, Pat: &pattern.Wildcard{}},
				{Name: height, Pat: &pattern.Wildcard{}},
			},
			Rest: true,
		}),
	}
	res := w.checker().Evaluate(m)
	if res.Verdict != NoLintNeeded {
		t.Fatalf("all known fields named; verdict = %v", res.Verdict)
	}
}

func TestStructHiddenFieldTriggers(t *testing.T) {
	w := newWorld()
	width := w.strs.Intern("width")
	height := w.strs.Intern("height")
	title := w.strs.Intern("title")
	cfg := w.reg.RegisterStruct(w.strs.Intern("Config"), source.Span{}, true)
	w.reg.SetStructFields(cfg, []types.StructField{
		{Name: width, Type: w.reg.Builtins().Int},
		{Name: height, Type: w.reg.Builtins().Int},
		{Name: title, Type: w.reg.Builtins().String},
	})

	// the pattern still only names width and height; `..` sweeps title
	m := Match{
		Subject: []types.TypeID{cfg},
		Arms: arms(&pattern.Struct{
			Type: cfg,
			Fields: []pattern.FieldPat{
				{Name: width, Pat: &pattern.Wildcard{}},
				{Name: height, Pat: &pattern.Wildcard{}},
			},
			Rest: true,
		}),
	}
	res := w.checker().Evaluate(m)
	if res.Verdict != LintTriggered {
		t.Fatalf("verdict = %v, want LintTriggered", res.Verdict)
	}
}

func TestUnknownTypeAbortsWithoutTriggering(t *testing.T) {
	w := newWorld()
	m := Match{
		Subject: []types.TypeID{types.TypeID(4096)},
		Arms:    arms(&pattern.Wildcard{}),
	}
	res := w.checker().Evaluate(m)
	if res.Verdict != InternalError {
		t.Fatalf("verdict = %v, want InternalError", res.Verdict)
	}
	if res.Err == nil {
		t.Fatalf("aborted check must carry its fault")
	}
	if len(res.Missing) != 0 {
		t.Fatalf("aborted check must not claim missing regions")
	}
}

func TestMalformedArmAborts(t *testing.T) {
	w := newWorld()
	color := w.enum("Color", true, "Red")
	m := Match{
		Subject: []types.TypeID{color, color},
		Arms:    arms(w.variant(color, "Red")), // not a tuple over a joint subject
	}
	res := w.checker().Evaluate(m)
	if res.Verdict != InternalError {
		t.Fatalf("verdict = %v, want InternalError", res.Verdict)
	}
}

func TestReportEmitsWarningWithWitnessNotes(t *testing.T) {
	w := newWorld()
	color := w.enum("Color", true, "Red", "Green")
	m := Match{
		Span:    source.Span{Start: 5, End: 25},
		Subject: []types.TypeID{color},
		Arms:    arms(w.variant(color, "Red"), &pattern.Wildcard{}),
	}
	c := w.checker()
	res := c.Evaluate(m)

	bag := diag.NewBag(8)
	c.Report(diag.BagReporter{Bag: bag}, m, res)

	if bag.Len() != 1 {
		t.Fatalf("expected one diagnostic, got %d", bag.Len())
	}
	d := bag.Items()[0]
	if d.Severity != diag.SevWarning || d.Code != diag.LintOmittedPatterns {
		t.Fatalf("unexpected diagnostic: %v %v", d.Severity, d.Code)
	}
	if d.Primary != m.Span {
		t.Fatalf("diagnostic span = %v, want %v", d.Primary, m.Span)
	}
	if len(d.Notes) != 1 || d.Notes[0].Msg != "not covered explicitly: Green" {
		t.Fatalf("unexpected notes: %v", d.Notes)
	}
}

func TestReportInternalErrorIsInfoOnly(t *testing.T) {
	w := newWorld()
	m := Match{Subject: []types.TypeID{types.TypeID(4096)}, Arms: arms(&pattern.Wildcard{})}
	c := w.checker()
	res := c.Evaluate(m)

	bag := diag.NewBag(8)
	c.Report(diag.BagReporter{Bag: bag}, m, res)

	if bag.HasWarnings() {
		t.Fatalf("an aborted check must never warn")
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.IntCheckAborted {
		t.Fatalf("expected a single aborted-check info record, got %v", bag.Items())
	}
}

func TestReportNoLintNeededEmitsNothing(t *testing.T) {
	w := newWorld()
	color := w.enum("Color", false, "Red")
	m := Match{Subject: []types.TypeID{color}, Arms: arms(&pattern.Wildcard{})}
	c := w.checker()

	bag := diag.NewBag(8)
	c.Report(diag.BagReporter{Bag: bag}, m, c.Evaluate(m))
	if bag.Len() != 0 {
		t.Fatalf("clean verdicts must stay silent, got %d diagnostics", bag.Len())
	}
}
