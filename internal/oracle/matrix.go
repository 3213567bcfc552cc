package oracle

import (
	"fmt"
	"strconv"
	"strings"

	"openmatch/internal/pattern"
	"openmatch/internal/source"
	"openmatch/internal/types"
)

type checker struct {
	reg    *types.Interner
	mode   Mode
	budget int
}

// missing computes uncovered value vectors for the matrix over the
// given column types. Empty result means the matrix is exhaustive.
// Classic usefulness recursion: specialize on a complete head
// constructor set, or fall back to the default matrix.
func (c *checker) missing(matrix []pattern.Row, cols []types.TypeID) ([][]pattern.Pat, error) {
	if len(cols) == 0 {
		if len(matrix) == 0 {
			return [][]pattern.Pat{{}}, nil
		}
		return nil, nil
	}

	mat, err := expandHeadOrs(matrix)
	if err != nil {
		return nil, err
	}

	headType := cols[0]
	ctors, enumerable, err := c.constructors(headType)
	if err != nil {
		return nil, err
	}

	headKeys, err := c.headKeys(mat, headType)
	if err != nil {
		return nil, err
	}

	// Sealing an open enum removes the extension space its wildcards
	// stood for: under TreatAllClosed a wildcard in this column earns
	// no credit, and every known variant must be covered explicitly.
	noCredit := c.wildcardNoCredit(headType)

	if enumerable && allPresent(ctors, headKeys) {
		return c.missingSpecialized(mat, cols, ctors, noCredit)
	}
	return c.missingDefault(mat, cols, ctors, enumerable, headKeys, noCredit)
}

func (c *checker) wildcardNoCredit(id types.TypeID) bool {
	if c.mode != TreatAllClosed {
		return false
	}
	info, ok := c.reg.EnumInfo(id)
	return ok && info.Open
}

func (c *checker) missingSpecialized(mat []pattern.Row, cols []types.TypeID, ctors []ctor, noCredit bool) ([][]pattern.Pat, error) {
	var acc [][]pattern.Pat
	for i := range ctors {
		ct := &ctors[i]
		spec, err := c.specialize(mat, ct, noCredit)
		if err != nil {
			return nil, err
		}
		subCols := append(append([]types.TypeID{}, ct.args...), cols[1:]...)
		sub, err := c.missing(spec, subCols)
		if err != nil {
			return nil, err
		}
		for _, w := range sub {
			head := ct.rebuild(w[:len(ct.args)])
			acc = append(acc, append([]pattern.Pat{head}, w[len(ct.args):]...))
			if len(acc) >= c.budget {
				return acc, nil
			}
		}
	}
	return acc, nil
}

func (c *checker) missingDefault(mat []pattern.Row, cols []types.TypeID, ctors []ctor, enumerable bool, headKeys map[string]bool, noCredit bool) ([][]pattern.Pat, error) {
	def := defaultMatrix(mat, noCredit)
	sub, err := c.missing(def, cols[1:])
	if err != nil {
		return nil, err
	}
	if len(sub) == 0 {
		return nil, nil
	}

	// prefer concretely missing constructors as witness heads; when the
	// set is not enumerable (open enum, int, string) a wildcard stands
	// for everything the arms never name
	var heads []pattern.Pat
	if enumerable {
		for i := range ctors {
			if !headKeys[ctors[i].key()] {
				heads = append(heads, ctors[i].rebuild(wildcards(len(ctors[i].args))))
			}
		}
	}
	if len(heads) == 0 {
		heads = []pattern.Pat{&pattern.Wildcard{}}
	}

	var acc [][]pattern.Pat
	for _, head := range heads {
		for _, w := range sub {
			acc = append(acc, append([]pattern.Pat{head}, w...))
			if len(acc) >= c.budget {
				return acc, nil
			}
		}
	}
	return acc, nil
}

// ctorKind discriminates head constructors.
type ctorKind uint8

const (
	ctorVariant ctorKind = iota
	ctorLiteral
	ctorStruct
	ctorTuple
)

// ctor is one head constructor of a column type: an enum variant, a
// literal value, or the single constructor of a struct/tuple.
type ctor struct {
	kind   ctorKind
	typ    types.TypeID
	name   source.StringID // variant name
	litKey string
	proto  *pattern.Literal
	args   []types.TypeID
	fields []types.StructField // struct ctor, declaration order
}

func (ct *ctor) key() string {
	switch ct.kind {
	case ctorVariant:
		return "v:" + strconv.FormatUint(uint64(ct.name), 10)
	case ctorLiteral:
		return "l:" + ct.litKey
	case ctorStruct:
		return "s"
	case ctorTuple:
		return "t"
	}
	return "?"
}

// rebuild materializes a witness pattern for the constructor with the
// given sub-patterns.
func (ct *ctor) rebuild(args []pattern.Pat) pattern.Pat {
	switch ct.kind {
	case ctorVariant:
		return &pattern.Variant{Enum: ct.typ, Name: ct.name, Args: args}
	case ctorLiteral:
		lit := *ct.proto
		return &lit
	case ctorStruct:
		fields := make([]pattern.FieldPat, len(ct.fields))
		for i := range ct.fields {
			fields[i] = pattern.FieldPat{Name: ct.fields[i].Name, Pat: args[i]}
		}
		return &pattern.Struct{Type: ct.typ, Fields: fields}
	case ctorTuple:
		return &pattern.Tuple{Elems: args}
	}
	return &pattern.Wildcard{}
}

// constructors returns the full constructor set of a column type and
// whether that set is complete (enumerable) under the current mode.
func (c *checker) constructors(id types.TypeID) ([]ctor, bool, error) {
	tt, ok := c.reg.Lookup(id)
	if !ok {
		return nil, false, fmt.Errorf("%w: unknown column type %d", ErrMalformed, id)
	}
	switch tt.Kind {
	case types.KindBool:
		return []ctor{
			{kind: ctorLiteral, typ: id, litKey: "false", proto: &pattern.Literal{Type: id, BoolVal: false}},
			{kind: ctorLiteral, typ: id, litKey: "true", proto: &pattern.Literal{Type: id, BoolVal: true}},
		}, true, nil

	case types.KindInt, types.KindString:
		// infinitely many literals; never complete
		return nil, false, nil

	case types.KindEnum:
		info, ok := c.reg.EnumInfo(id)
		if !ok {
			return nil, false, fmt.Errorf("%w: enum %d has no metadata", ErrMalformed, id)
		}
		ctors := make([]ctor, len(info.Variants))
		for i := range info.Variants {
			v := &info.Variants[i]
			ctors[i] = ctor{kind: ctorVariant, typ: id, name: v.Name, args: v.Params}
		}
		enumerable := !(info.Open && c.mode == RespectOpenness)
		return ctors, enumerable, nil

	case types.KindStruct:
		info, ok := c.reg.StructInfo(id)
		if !ok {
			return nil, false, fmt.Errorf("%w: struct %d has no metadata", ErrMalformed, id)
		}
		args := make([]types.TypeID, len(info.Fields))
		for i := range info.Fields {
			args[i] = info.Fields[i].Type
		}
		return []ctor{{kind: ctorStruct, typ: id, args: args, fields: info.Fields}}, true, nil

	case types.KindTuple:
		elems := c.reg.TupleElems(id)
		return []ctor{{kind: ctorTuple, typ: id, args: elems}}, true, nil

	default:
		return nil, false, fmt.Errorf("%w: cannot match over %s column", ErrMalformed, tt.Kind)
	}
}

// headKeys collects the constructor keys present in the matrix head
// column, validating each head against the column type.
func (c *checker) headKeys(mat []pattern.Row, headType types.TypeID) (map[string]bool, error) {
	keys := make(map[string]bool)
	for _, row := range mat {
		ct, ok, err := c.headCtor(row[0], headType)
		if err != nil {
			return nil, err
		}
		if ok {
			keys[ct.key()] = true
		}
	}
	return keys, nil
}

// headCtor interprets one head pattern as a constructor of the column
// type. Wildcards and Absent carry no constructor.
func (c *checker) headCtor(p pattern.Pat, headType types.TypeID) (ctor, bool, error) {
	switch node := p.(type) {
	case *pattern.Wildcard, *pattern.Absent:
		return ctor{}, false, nil
	case *pattern.Literal:
		if node.Type != headType {
			return ctor{}, false, fmt.Errorf("%w: literal of type %d against column %d", ErrMalformed, node.Type, headType)
		}
		return ctor{kind: ctorLiteral, typ: headType, litKey: literalKey(c.reg, node), proto: node}, true, nil
	case *pattern.Variant:
		if node.Enum != headType {
			return ctor{}, false, fmt.Errorf("%w: variant of enum %d against column %d", ErrMalformed, node.Enum, headType)
		}
		params, err := c.variantParams(headType, node.Name)
		if err != nil {
			return ctor{}, false, err
		}
		if len(node.Args) > len(params) {
			return ctor{}, false, fmt.Errorf("%w: variant pattern has %d args, variant takes %d", ErrMalformed, len(node.Args), len(params))
		}
		return ctor{kind: ctorVariant, typ: headType, name: node.Name, args: params}, true, nil
	case *pattern.Struct:
		if node.Type != headType {
			return ctor{}, false, fmt.Errorf("%w: struct pattern of type %d against column %d", ErrMalformed, node.Type, headType)
		}
		info, ok := c.reg.StructInfo(headType)
		if !ok {
			return ctor{}, false, fmt.Errorf("%w: struct %d has no metadata", ErrMalformed, headType)
		}
		args := make([]types.TypeID, len(info.Fields))
		for i := range info.Fields {
			args[i] = info.Fields[i].Type
		}
		return ctor{kind: ctorStruct, typ: headType, args: args, fields: info.Fields}, true, nil
	case *pattern.Tuple:
		elems := c.reg.TupleElems(headType)
		if elems == nil {
			return ctor{}, false, fmt.Errorf("%w: tuple pattern against non-tuple column %d", ErrMalformed, headType)
		}
		if len(node.Elems) != len(elems) {
			return ctor{}, false, fmt.Errorf("%w: tuple pattern arity %d, type has %d", ErrMalformed, len(node.Elems), len(elems))
		}
		return ctor{kind: ctorTuple, typ: headType, args: elems}, true, nil
	default:
		return ctor{}, false, fmt.Errorf("%w: unexpected head pattern %T", ErrMalformed, p)
	}
}

func (c *checker) variantParams(enum types.TypeID, name source.StringID) ([]types.TypeID, error) {
	info, ok := c.reg.EnumInfo(enum)
	if !ok {
		return nil, fmt.Errorf("%w: enum %d has no metadata", ErrMalformed, enum)
	}
	for i := range info.Variants {
		if info.Variants[i].Name == name {
			return info.Variants[i].Params, nil
		}
	}
	return nil, fmt.Errorf("%w: variant %d not known for enum %d", ErrMalformed, name, enum)
}

// specialize filters and unpacks the matrix for one head constructor.
func (c *checker) specialize(mat []pattern.Row, ct *ctor, noCredit bool) ([]pattern.Row, error) {
	arity := len(ct.args)
	var out []pattern.Row
	for _, row := range mat {
		switch node := row[0].(type) {
		case *pattern.Wildcard:
			if noCredit {
				continue
			}
			out = append(out, append(wildcards(arity), row[1:]...))
		case *pattern.Absent:
			// covers nothing, drop
		case *pattern.Literal:
			if ct.kind == ctorLiteral && literalKey(c.reg, node) == ct.litKey {
				out = append(out, row[1:])
			}
		case *pattern.Variant:
			if ct.kind != ctorVariant || node.Name != ct.name {
				continue
			}
			args := make(pattern.Row, 0, arity)
			args = append(args, node.Args...)
			for len(args) < arity {
				args = append(args, &pattern.Wildcard{})
			}
			out = append(out, append(args, row[1:]...))
		case *pattern.Struct:
			if ct.kind != ctorStruct {
				continue
			}
			args, err := c.structArgs(node, ct)
			if err != nil {
				return nil, err
			}
			out = append(out, append(args, row[1:]...))
		case *pattern.Tuple:
			if ct.kind != ctorTuple {
				continue
			}
			elems := make(pattern.Row, 0, len(node.Elems)+len(row)-1)
			elems = append(elems, node.Elems...)
			out = append(out, append(elems, row[1:]...))
		default:
			return nil, fmt.Errorf("%w: unexpected head pattern %T", ErrMalformed, row[0])
		}
	}
	return out, nil
}

// structArgs lines the pattern's field sub-patterns up with the known
// field order. Unnamed fields are wildcards: ordinary semantics give
// `..` (and omission) full credit, and the closing projection has
// already replaced swept fields with Absent where credit is withheld.
func (c *checker) structArgs(node *pattern.Struct, ct *ctor) (pattern.Row, error) {
	byName := make(map[source.StringID]pattern.Pat, len(node.Fields))
	for _, fp := range node.Fields {
		byName[fp.Name] = fp.Pat
	}
	args := make(pattern.Row, len(ct.fields))
	matched := 0
	for i := range ct.fields {
		if p, ok := byName[ct.fields[i].Name]; ok {
			args[i] = p
			matched++
		} else {
			args[i] = &pattern.Wildcard{}
		}
	}
	if matched != len(byName) {
		return nil, fmt.Errorf("%w: struct pattern names a field unknown to type %d", ErrMalformed, ct.typ)
	}
	return args, nil
}

// defaultMatrix keeps only rows whose head covers every constructor.
func defaultMatrix(mat []pattern.Row, noCredit bool) []pattern.Row {
	if noCredit {
		return nil
	}
	var out []pattern.Row
	for _, row := range mat {
		if _, ok := row[0].(*pattern.Wildcard); ok {
			out = append(out, row[1:])
		}
	}
	return out
}

// expandHeadOrs flattens or-patterns in the head column into one row
// per alternative. Deeper or-patterns surface as heads after later
// specializations.
func expandHeadOrs(matrix []pattern.Row) ([]pattern.Row, error) {
	out := make([]pattern.Row, 0, len(matrix))
	for _, row := range matrix {
		if or, ok := row[0].(*pattern.Or); ok {
			for _, alt := range or.Alts {
				expanded, err := expandHeadOrs([]pattern.Row{append(pattern.Row{alt}, row[1:]...)})
				if err != nil {
					return nil, err
				}
				out = append(out, expanded...)
			}
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func allPresent(ctors []ctor, headKeys map[string]bool) bool {
	for i := range ctors {
		if !headKeys[ctors[i].key()] {
			return false
		}
	}
	return true
}

func wildcards(n int) pattern.Row {
	row := make(pattern.Row, n)
	for i := range row {
		row[i] = &pattern.Wildcard{}
	}
	return row
}

func literalKey(reg *types.Interner, lit *pattern.Literal) string {
	tt, _ := reg.Lookup(lit.Type)
	switch tt.Kind {
	case types.KindBool:
		return strconv.FormatBool(lit.BoolVal)
	case types.KindInt:
		return strconv.FormatInt(lit.IntVal, 10)
	case types.KindString:
		var b strings.Builder
		b.WriteString("str:")
		b.WriteString(strconv.FormatUint(uint64(lit.StrVal), 10))
		return b.String()
	default:
		return "?"
	}
}
