package types

import (
	"errors"
	"testing"

	"openmatch/internal/source"
)

func TestInternerBuiltins(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	if b.Bool == NoTypeID || b.Int == NoTypeID || b.String == NoTypeID {
		t.Fatalf("builtins not initialized: %+v", b)
	}
	tt, _ := in.Lookup(b.Bool)
	if tt.Kind != KindBool {
		t.Fatalf("expected bool kind, got %v", tt.Kind)
	}
}

func TestTupleDeduplicates(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	t1 := in.RegisterTuple([]TypeID{b.Bool, b.Int})
	t2 := in.RegisterTuple([]TypeID{b.Bool, b.Int})
	if t1 != t2 {
		t.Fatalf("identical tuples must share a TypeID")
	}
	t3 := in.RegisterTuple([]TypeID{b.Int, b.Bool})
	if t3 == t1 {
		t.Fatalf("element order must affect tuple identity")
	}
}

func TestIsOpen(t *testing.T) {
	in := NewInterner()
	strs := source.NewInterner()
	openEnum := in.RegisterEnum(strs.Intern("Signal"), source.Span{}, true)
	closedEnum := in.RegisterEnum(strs.Intern("Bit"), source.Span{}, false)
	openStruct := in.RegisterStruct(strs.Intern("Config"), source.Span{}, true)

	for _, tc := range []struct {
		id   TypeID
		want bool
	}{
		{openEnum, true},
		{closedEnum, false},
		{openStruct, true},
		{in.Builtins().Bool, false},
	} {
		got, err := in.IsOpen(tc.id)
		if err != nil {
			t.Fatalf("IsOpen(%d): %v", tc.id, err)
		}
		if got != tc.want {
			t.Fatalf("IsOpen(%d) = %v, want %v", tc.id, got, tc.want)
		}
	}
}

func TestUnknownTypeIsFault(t *testing.T) {
	in := NewInterner()
	if _, err := in.IsOpen(TypeID(4096)); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
	if _, err := in.KnownVariants(in.Builtins().Bool); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("KnownVariants on a non-enum must fault, got %v", err)
	}
	if _, err := in.KnownFields(TypeID(4096)); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("KnownFields on unknown id must fault, got %v", err)
	}
}

func TestContainsOpenWalksNestedTypes(t *testing.T) {
	in := NewInterner()
	strs := source.NewInterner()

	openCfg := in.RegisterStruct(strs.Intern("Config"), source.Span{}, true)
	closedEnum := in.RegisterEnum(strs.Intern("Msg"), source.Span{}, false)
	in.SetEnumVariants(closedEnum, []EnumVariantInfo{
		{Name: strs.Intern("Ping")},
		{Name: strs.Intern("Configure"), Params: []TypeID{openCfg}},
	})

	open, err := in.ContainsOpen([]TypeID{closedEnum})
	if err != nil {
		t.Fatalf("ContainsOpen: %v", err)
	}
	if !open {
		t.Fatalf("open struct nested in a closed enum payload must count")
	}

	open, err = in.ContainsOpen([]TypeID{in.Builtins().Bool, in.Builtins().Int})
	if err != nil || open {
		t.Fatalf("primitives are closed, got open=%v err=%v", open, err)
	}
}

func TestVariantsAreCopied(t *testing.T) {
	in := NewInterner()
	strs := source.NewInterner()
	enum := in.RegisterEnum(strs.Intern("E"), source.Span{}, true)
	in.SetEnumVariants(enum, []EnumVariantInfo{{Name: strs.Intern("A")}})

	got, err := in.KnownVariants(enum)
	if err != nil {
		t.Fatalf("KnownVariants: %v", err)
	}
	got[0].Name = strs.Intern("mutated")

	again, _ := in.KnownVariants(enum)
	if again[0].Name != strs.Intern("A") {
		t.Fatalf("KnownVariants must return a defensive copy")
	}
}
