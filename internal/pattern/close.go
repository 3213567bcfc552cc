package pattern

import (
	"openmatch/internal/source"
	"openmatch/internal/types"
)

// CloseArms applies the closing projection to every arm. All open
// positions lose their implicit coverage in the same projected set;
// there is no partial projection.
func CloseArms(reg *types.Interner, arms []Arm) ([]Arm, error) {
	out := make([]Arm, len(arms))
	for i := range arms {
		closed, err := CloseOpen(reg, arms[i].Pat)
		if err != nil {
			return nil, err
		}
		out[i] = Arm{Pat: closed, Span: arms[i].Span}
	}
	return out, nil
}

// CloseOpen rewrites the pattern for the hypothetical-closed oracle
// run. For a struct pattern whose type is open and whose `..` sweeps
// known fields, each swept field becomes Absent so the pattern no
// longer covers it. Patterns over closed types pass through unchanged;
// enum openness needs no tree rewrite (the oracle mode governs it).
func CloseOpen(reg *types.Interner, p Pat) (Pat, error) {
	switch node := p.(type) {
	case *Wildcard, *Absent, *Literal:
		return p, nil

	case *Variant:
		args, changed, err := closeAll(reg, node.Args)
		if err != nil {
			return nil, err
		}
		if !changed {
			return p, nil
		}
		return &Variant{Base: node.Base, Enum: node.Enum, Name: node.Name, Args: args}, nil

	case *Tuple:
		elems, changed, err := closeAll(reg, node.Elems)
		if err != nil {
			return nil, err
		}
		if !changed {
			return p, nil
		}
		return &Tuple{Base: node.Base, Elems: elems}, nil

	case *Or:
		alts, changed, err := closeAll(reg, node.Alts)
		if err != nil {
			return nil, err
		}
		if !changed {
			return p, nil
		}
		return &Or{Base: node.Base, Alts: alts}, nil

	case *Struct:
		return closeStruct(reg, node)

	default:
		return p, nil
	}
}

func closeStruct(reg *types.Interner, node *Struct) (Pat, error) {
	fields := make([]FieldPat, 0, len(node.Fields))
	changed := false
	for _, fp := range node.Fields {
		sub, err := CloseOpen(reg, fp.Pat)
		if err != nil {
			return nil, err
		}
		if sub != fp.Pat {
			changed = true
		}
		fields = append(fields, FieldPat{Name: fp.Name, Pat: sub})
	}

	open, err := reg.IsOpen(node.Type)
	if err != nil {
		return nil, err
	}
	if open && node.Rest {
		known, err := reg.KnownFields(node.Type)
		if err != nil {
			return nil, err
		}
		named := make(map[source.StringID]bool, len(node.Fields))
		for _, fp := range node.Fields {
			named[fp.Name] = true
		}
		for _, field := range known {
			if named[field.Name] {
				continue
			}
			// `..` was the only thing covering this field
			fields = append(fields, FieldPat{
				Name: field.Name,
				Pat:  &Absent{Base: Base{Span: node.Span}},
			})
			changed = true
		}
	}

	if !changed {
		return node, nil
	}
	return &Struct{Base: node.Base, Type: node.Type, Fields: fields, Rest: node.Rest}, nil
}

func closeAll(reg *types.Interner, pats []Pat) ([]Pat, bool, error) {
	out := make([]Pat, len(pats))
	changed := false
	for i, p := range pats {
		closed, err := CloseOpen(reg, p)
		if err != nil {
			return nil, false, err
		}
		if closed != p {
			changed = true
		}
		out[i] = closed
	}
	return out, changed, nil
}
