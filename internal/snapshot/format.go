// Package snapshot defines the on-disk match snapshot: the resolved
// type metadata and match-arm pattern trees a producing compiler
// exports for out-of-process checking. The format is msgpack with a
// schema version for safe invalidation.
package snapshot

// SchemaVersion - increment when the snapshot format changes.
const SchemaVersion uint16 = 1

// Producer-side type references: the first four IDs are the builtins,
// user records follow in table order. A record may only reference
// builtins and records that precede it.
const (
	RefInvalid uint32 = 0
	RefBool    uint32 = 1
	RefInt     uint32 = 2
	RefString  uint32 = 3

	FirstUserType uint32 = 4
)

// Type record kinds.
const (
	TypeEnum uint8 = iota
	TypeStruct
	TypeTuple
)

// Pattern record kinds.
const (
	PatWildcard uint8 = iota
	PatLitBool
	PatLitInt
	PatLitString
	PatVariant
	PatStruct
	PatTuple
	PatOr
)

// Snapshot is the root record.
type Snapshot struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	// Shared string table; names reference it by index
	Strings []string

	// Source files, for span resolution in diagnostics
	Files []FileRec

	// Type table in dependency order
	Types []TypeRec

	// Match expressions to check
	Matches []MatchRec
}

type FileRec struct {
	Path    string
	Content []byte
}

type SpanRec struct {
	File  uint32
	Start uint32
	End   uint32
}

type TypeRec struct {
	Kind uint8
	Name uint32 // string index; unused for tuples
	Open bool
	Decl SpanRec

	Variants []VariantRec // enums
	Fields   []FieldRec   // structs
	Elems    []uint32     // tuples
}

type VariantRec struct {
	Name   uint32
	Params []uint32
	Decl   SpanRec
}

type FieldRec struct {
	Name uint32
	Type uint32
}

type MatchRec struct {
	Span    SpanRec
	Subject []uint32
	Arms    []ArmRec
}

type ArmRec struct {
	Span SpanRec
	Pat  PatRec
}

type FieldPatRec struct {
	Name uint32
	Pat  PatRec
}

type PatRec struct {
	Kind uint8
	Span SpanRec

	Type   uint32        // literals, struct patterns
	Enum   uint32        // variant patterns
	Name   uint32        // variant name, string index
	Args   []PatRec      // variant args, tuple elems, or alternatives
	Fields []FieldPatRec // struct patterns
	Rest   bool          // struct `..`

	Bool bool
	Int  int64
	Str  uint32 // string index
}
