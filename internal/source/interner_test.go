package source

import "testing"

func TestInternerDeduplicates(t *testing.T) {
	in := NewInterner()
	a := in.Intern("Color")
	b := in.Intern("Color")
	if a != b {
		t.Fatalf("same string must intern to the same ID: %d vs %d", a, b)
	}
	if c := in.Intern("Shape"); c == a {
		t.Fatalf("distinct strings must not share an ID")
	}
}

func TestInternerLookup(t *testing.T) {
	in := NewInterner()
	id := in.Intern("width")
	got, ok := in.Lookup(id)
	if !ok || got != "width" {
		t.Fatalf("Lookup(%d) = %q, %v", id, got, ok)
	}
	if s, ok := in.Lookup(NoStringID); !ok || s != "" {
		t.Fatalf("NoStringID must resolve to empty string")
	}
	if _, ok := in.Lookup(StringID(999)); ok {
		t.Fatalf("out-of-range ID must not resolve")
	}
	if got := in.MustLookup(id); got != "width" {
		t.Fatalf("MustLookup(%d) = %q, want %q", id, got, "width")
	}
}

func TestInternerMustLookupPanics(t *testing.T) {
	in := NewInterner()
	defer func() {
		if recover() == nil {
			t.Fatalf("MustLookup must panic on an out-of-range ID")
		}
	}()
	in.MustLookup(StringID(999))
}

func TestInternerLenAndSnapshot(t *testing.T) {
	in := NewInterner()
	if in.Len() != 1 {
		t.Fatalf("fresh interner must hold the empty string only, got %d", in.Len())
	}
	in.Intern("x")
	in.Intern("y")
	snap := in.Snapshot()
	if len(snap) != 3 || snap[1] != "x" || snap[2] != "y" {
		t.Fatalf("unexpected snapshot: %v", snap)
	}
}
