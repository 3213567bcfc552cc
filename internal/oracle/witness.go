package oracle

import (
	"strconv"
	"strings"

	"openmatch/internal/pattern"
	"openmatch/internal/source"
	"openmatch/internal/types"
)

// Format renders a witness for diagnostics, one pattern per subject
// position, e.g. `(Teal, _)` or `Config { title: _, .. }`.
func (w Witness) Format(reg *types.Interner, strs *source.Interner) string {
	if len(w.Cols) == 1 {
		return renderPat(w.Cols[0], reg, strs)
	}
	parts := make([]string, len(w.Cols))
	for i, p := range w.Cols {
		parts[i] = renderPat(p, reg, strs)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func renderPat(p pattern.Pat, reg *types.Interner, strs *source.Interner) string {
	switch node := p.(type) {
	case *pattern.Wildcard, *pattern.Absent:
		return "_"

	case *pattern.Literal:
		// witness literals carry column types the check already validated
		tt := reg.MustLookup(node.Type)
		switch tt.Kind {
		case types.KindBool:
			return strconv.FormatBool(node.BoolVal)
		case types.KindInt:
			return strconv.FormatInt(node.IntVal, 10)
		case types.KindString:
			s, _ := strs.Lookup(node.StrVal)
			return strconv.Quote(s)
		default:
			return "?"
		}

	case *pattern.Variant:
		name := lookupName(strs, node.Name)
		if len(node.Args) == 0 {
			return name
		}
		args := make([]string, len(node.Args))
		for i, a := range node.Args {
			args[i] = renderPat(a, reg, strs)
		}
		return name + "(" + strings.Join(args, ", ") + ")"

	case *pattern.Struct:
		name := "_"
		if info, ok := reg.StructInfo(node.Type); ok {
			name = lookupName(strs, info.Name)
		}
		if len(node.Fields) == 0 {
			return name + " { .. }"
		}
		parts := make([]string, 0, len(node.Fields))
		for _, fp := range node.Fields {
			parts = append(parts, lookupName(strs, fp.Name)+": "+renderPat(fp.Pat, reg, strs))
		}
		return name + " { " + strings.Join(parts, ", ") + " }"

	case *pattern.Tuple:
		parts := make([]string, len(node.Elems))
		for i, e := range node.Elems {
			parts[i] = renderPat(e, reg, strs)
		}
		return "(" + strings.Join(parts, ", ") + ")"

	case *pattern.Or:
		parts := make([]string, len(node.Alts))
		for i, a := range node.Alts {
			parts[i] = renderPat(a, reg, strs)
		}
		return strings.Join(parts, " | ")

	default:
		return "_"
	}
}

func lookupName(strs *source.Interner, id source.StringID) string {
	if s, ok := strs.Lookup(id); ok && s != "" {
		return s
	}
	return "_"
}
