package snapshot

import (
	"errors"
	"fmt"

	"openmatch/internal/lint"
	"openmatch/internal/pattern"
	"openmatch/internal/source"
	"openmatch/internal/types"
)

// ErrDangling signals a record referencing a string, file or type that
// the snapshot does not define (or defines later than allowed).
var ErrDangling = errors.New("snapshot: dangling reference")

// Decoded holds the in-process view of a snapshot: fresh registries
// plus the matches to check, all IDs remapped to local ones.
type Decoded struct {
	Types   *types.Interner
	Strings *source.Interner
	Files   *source.FileSet
	Matches []lint.Match
}

type decoder struct {
	snap *Snapshot

	reg   *types.Interner
	strs  *source.Interner
	fs    *source.FileSet
	files []source.FileID
	types []types.TypeID // producer index -> local ID, builtins first
}

// Decode rebuilds registries from the snapshot. Type records must be in
// dependency order; any forward or out-of-range reference fails the
// whole decode rather than producing a partial view.
func Decode(snap *Snapshot) (*Decoded, error) {
	if snap.Schema != SchemaVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrSchema, snap.Schema, SchemaVersion)
	}

	d := &decoder{
		snap: snap,
		reg:  types.NewInterner(),
		strs: source.NewInterner(),
		fs:   source.NewFileSet(),
	}

	for _, f := range snap.Files {
		d.files = append(d.files, d.fs.AddVirtual(f.Path, f.Content))
	}

	if err := d.decodeTypes(); err != nil {
		return nil, err
	}

	matches := make([]lint.Match, 0, len(snap.Matches))
	for i := range snap.Matches {
		m, err := d.decodeMatch(&snap.Matches[i])
		if err != nil {
			return nil, fmt.Errorf("match %d: %w", i, err)
		}
		matches = append(matches, m)
	}

	return &Decoded{
		Types:   d.reg,
		Strings: d.strs,
		Files:   d.fs,
		Matches: matches,
	}, nil
}

// decodeTypes runs two passes: nominal slots first so later records can
// reference them, then variant/field payloads and tuples in table order.
func (d *decoder) decodeTypes() error {
	b := d.reg.Builtins()
	d.types = append(d.types, b.Invalid, b.Bool, b.Int, b.String)

	for i := range d.snap.Types {
		rec := &d.snap.Types[i]
		switch rec.Kind {
		case TypeEnum:
			name, err := d.stringAt(rec.Name)
			if err != nil {
				return fmt.Errorf("type %d: %w", i, err)
			}
			decl, err := d.spanAt(rec.Decl)
			if err != nil {
				return fmt.Errorf("type %d: %w", i, err)
			}
			d.types = append(d.types, d.reg.RegisterEnum(name, decl, rec.Open))

		case TypeStruct:
			name, err := d.stringAt(rec.Name)
			if err != nil {
				return fmt.Errorf("type %d: %w", i, err)
			}
			decl, err := d.spanAt(rec.Decl)
			if err != nil {
				return fmt.Errorf("type %d: %w", i, err)
			}
			d.types = append(d.types, d.reg.RegisterStruct(name, decl, rec.Open))

		case TypeTuple:
			// placeholder, registered in the second pass
			d.types = append(d.types, types.NoTypeID)

		default:
			return fmt.Errorf("%w: type %d has unknown kind %d", ErrDangling, i, rec.Kind)
		}
	}

	for i := range d.snap.Types {
		rec := &d.snap.Types[i]
		localID := d.types[FirstUserType+uint32(i)]

		switch rec.Kind {
		case TypeEnum:
			variants := make([]types.EnumVariantInfo, 0, len(rec.Variants))
			for _, v := range rec.Variants {
				name, err := d.stringAt(v.Name)
				if err != nil {
					return fmt.Errorf("type %d: %w", i, err)
				}
				decl, err := d.spanAt(v.Decl)
				if err != nil {
					return fmt.Errorf("type %d: %w", i, err)
				}
				params, err := d.typeRefs(v.Params)
				if err != nil {
					return fmt.Errorf("type %d variant: %w", i, err)
				}
				variants = append(variants, types.EnumVariantInfo{Name: name, Params: params, Span: decl})
			}
			d.reg.SetEnumVariants(localID, variants)

		case TypeStruct:
			fields := make([]types.StructField, 0, len(rec.Fields))
			for _, f := range rec.Fields {
				name, err := d.stringAt(f.Name)
				if err != nil {
					return fmt.Errorf("type %d: %w", i, err)
				}
				ft, err := d.typeAt(f.Type)
				if err != nil {
					return fmt.Errorf("type %d field: %w", i, err)
				}
				fields = append(fields, types.StructField{Name: name, Type: ft})
			}
			d.reg.SetStructFields(localID, fields)

		case TypeTuple:
			elems := make([]types.TypeID, 0, len(rec.Elems))
			for _, ref := range rec.Elems {
				// dependency order: a tuple may not reference itself or
				// anything after it
				if ref >= FirstUserType+uint32(i) {
					return fmt.Errorf("%w: tuple %d references type %d", ErrDangling, i, ref)
				}
				et, err := d.typeAt(ref)
				if err != nil {
					return fmt.Errorf("type %d elem: %w", i, err)
				}
				elems = append(elems, et)
			}
			d.types[FirstUserType+uint32(i)] = d.reg.RegisterTuple(elems)
		}
	}

	return nil
}

func (d *decoder) decodeMatch(rec *MatchRec) (lint.Match, error) {
	span, err := d.spanAt(rec.Span)
	if err != nil {
		return lint.Match{}, err
	}
	subject, err := d.typeRefs(rec.Subject)
	if err != nil {
		return lint.Match{}, err
	}
	arms := make([]pattern.Arm, 0, len(rec.Arms))
	for i := range rec.Arms {
		armSpan, err := d.spanAt(rec.Arms[i].Span)
		if err != nil {
			return lint.Match{}, err
		}
		p, err := d.decodePat(&rec.Arms[i].Pat)
		if err != nil {
			return lint.Match{}, fmt.Errorf("arm %d: %w", i, err)
		}
		arms = append(arms, pattern.Arm{Pat: p, Span: armSpan})
	}
	return lint.Match{Span: span, Subject: subject, Arms: arms}, nil
}

func (d *decoder) decodePat(rec *PatRec) (pattern.Pat, error) {
	span, err := d.spanAt(rec.Span)
	if err != nil {
		return nil, err
	}
	base := pattern.Base{Span: span}

	switch rec.Kind {
	case PatWildcard:
		return &pattern.Wildcard{Base: base}, nil

	case PatLitBool:
		return &pattern.Literal{Base: base, Type: d.reg.Builtins().Bool, BoolVal: rec.Bool}, nil

	case PatLitInt:
		return &pattern.Literal{Base: base, Type: d.reg.Builtins().Int, IntVal: rec.Int}, nil

	case PatLitString:
		s, err := d.stringAt(rec.Str)
		if err != nil {
			return nil, err
		}
		return &pattern.Literal{Base: base, Type: d.reg.Builtins().String, StrVal: s}, nil

	case PatVariant:
		enum, err := d.typeAt(rec.Enum)
		if err != nil {
			return nil, err
		}
		name, err := d.stringAt(rec.Name)
		if err != nil {
			return nil, err
		}
		args, err := d.decodePats(rec.Args)
		if err != nil {
			return nil, err
		}
		return &pattern.Variant{Base: base, Enum: enum, Name: name, Args: args}, nil

	case PatStruct:
		st, err := d.typeAt(rec.Type)
		if err != nil {
			return nil, err
		}
		fields := make([]pattern.FieldPat, 0, len(rec.Fields))
		for i := range rec.Fields {
			name, err := d.stringAt(rec.Fields[i].Name)
			if err != nil {
				return nil, err
			}
			sub, err := d.decodePat(&rec.Fields[i].Pat)
			if err != nil {
				return nil, err
			}
			fields = append(fields, pattern.FieldPat{Name: name, Pat: sub})
		}
		return &pattern.Struct{Base: base, Type: st, Fields: fields, Rest: rec.Rest}, nil

	case PatTuple:
		elems, err := d.decodePats(rec.Args)
		if err != nil {
			return nil, err
		}
		return &pattern.Tuple{Base: base, Elems: elems}, nil

	case PatOr:
		alts, err := d.decodePats(rec.Args)
		if err != nil {
			return nil, err
		}
		return &pattern.Or{Base: base, Alts: alts}, nil

	default:
		return nil, fmt.Errorf("%w: unknown pattern kind %d", ErrDangling, rec.Kind)
	}
}

func (d *decoder) decodePats(recs []PatRec) ([]pattern.Pat, error) {
	if len(recs) == 0 {
		return nil, nil
	}
	out := make([]pattern.Pat, 0, len(recs))
	for i := range recs {
		p, err := d.decodePat(&recs[i])
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (d *decoder) stringAt(idx uint32) (source.StringID, error) {
	if int(idx) >= len(d.snap.Strings) {
		return source.NoStringID, fmt.Errorf("%w: string %d of %d", ErrDangling, idx, len(d.snap.Strings))
	}
	return d.strs.Intern(d.snap.Strings[idx]), nil
}

func (d *decoder) typeAt(ref uint32) (types.TypeID, error) {
	if int(ref) >= len(d.types) {
		return types.NoTypeID, fmt.Errorf("%w: type %d of %d", ErrDangling, ref, len(d.types))
	}
	id := d.types[ref]
	if id == types.NoTypeID && ref != RefInvalid {
		return types.NoTypeID, fmt.Errorf("%w: type %d not yet defined", ErrDangling, ref)
	}
	return id, nil
}

func (d *decoder) typeRefs(refs []uint32) ([]types.TypeID, error) {
	if len(refs) == 0 {
		return nil, nil
	}
	out := make([]types.TypeID, 0, len(refs))
	for _, ref := range refs {
		id, err := d.typeAt(ref)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func (d *decoder) spanAt(rec SpanRec) (source.Span, error) {
	// the zero span is the conventional "no location"
	if rec == (SpanRec{}) {
		return source.Span{}, nil
	}
	if int(rec.File) >= len(d.files) {
		return source.Span{}, fmt.Errorf("%w: file %d of %d", ErrDangling, rec.File, len(d.files))
	}
	return source.Span{File: d.files[rec.File], Start: rec.Start, End: rec.End}, nil
}
