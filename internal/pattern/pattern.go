package pattern

import (
	"openmatch/internal/source"
	"openmatch/internal/types"
)

// Pat is one node of a resolved match-arm pattern tree. Trees arrive
// from upstream resolution already type-checked; this package only
// normalizes and projects them.
type Pat interface {
	isPat()
	GetSpan() source.Span
}

// Base carries the source span shared by every pattern node.
type Base struct {
	Span source.Span
}

func (b Base) isPat() {}

func (b Base) GetSpan() source.Span {
	return b.Span
}

// Wildcard matches any value. Name bindings normalize to wildcards
// before reaching this package: coverage does not care about names.
type Wildcard struct {
	Base
}

// Absent matches nothing. It never appears in input trees; the closing
// projection inserts it where an open struct's `..` was silently
// sweeping a known field, so the closed oracle run withholds credit.
type Absent struct {
	Base
}

// Literal matches one concrete primitive value. Type selects which of
// the value fields is meaningful.
type Literal struct {
	Base
	Type    types.TypeID
	BoolVal bool
	IntVal  int64
	StrVal  source.StringID
}

// Variant destructures one enum variant with positional sub-patterns.
// Missing trailing Args are implicit wildcards.
type Variant struct {
	Base
	Enum types.TypeID
	Name source.StringID
	Args []Pat
}

// FieldPat binds a sub-pattern to a named struct field.
type FieldPat struct {
	Name source.StringID
	Pat  Pat
}

// Struct destructures a struct value. Rest records a trailing `..`;
// fields it sweeps are implicit wildcards under ordinary semantics.
type Struct struct {
	Base
	Type   types.TypeID
	Fields []FieldPat
	Rest   bool
}

// Tuple destructures a joint subject or a tuple-typed value.
type Tuple struct {
	Base
	Elems []Pat
}

// Or matches when any alternative matches.
type Or struct {
	Base
	Alts []Pat
}

// Arm is a single match arm: one pattern plus its source span.
type Arm struct {
	Pat  Pat
	Span source.Span
}
