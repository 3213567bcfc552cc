package types

import (
	"errors"
	"fmt"
)

// ErrUnknownType signals a registry lookup for a TypeID the current
// compilation never registered. It indicates inconsistent upstream
// state: callers must abort the affected check rather than guess.
var ErrUnknownType = errors.New("types: unknown type")

// IsOpen reports whether the type carries the open-for-extension
// marker. Primitives and tuples are always closed.
func (in *Interner) IsOpen(id TypeID) (bool, error) {
	tt, ok := in.Lookup(id)
	if !ok {
		return false, fmt.Errorf("%w: id %d", ErrUnknownType, id)
	}
	switch tt.Kind {
	case KindEnum:
		info := in.enumInfo(id)
		if info == nil {
			return false, fmt.Errorf("%w: enum id %d has no metadata", ErrUnknownType, id)
		}
		return info.Open, nil
	case KindStruct:
		info := in.structInfo(id)
		if info == nil {
			return false, fmt.Errorf("%w: struct id %d has no metadata", ErrUnknownType, id)
		}
		return info.Open, nil
	default:
		return false, nil
	}
}

// KnownVariants returns the variant set visible to the current
// compilation for an enum type.
func (in *Interner) KnownVariants(id TypeID) ([]EnumVariantInfo, error) {
	info := in.enumInfo(id)
	if info == nil {
		return nil, fmt.Errorf("%w: enum id %d", ErrUnknownType, id)
	}
	return cloneEnumVariants(info.Variants), nil
}

// KnownFields returns the field set visible to the current compilation
// for a struct type.
func (in *Interner) KnownFields(id TypeID) ([]StructField, error) {
	info := in.structInfo(id)
	if info == nil {
		return nil, fmt.Errorf("%w: struct id %d", ErrUnknownType, id)
	}
	return cloneStructFields(info.Fields), nil
}

// ContainsOpen reports whether any type reachable from the subject
// carries the open marker. Nested enum payloads, struct fields and
// tuple elements all count: a wildcard can hide openness at any depth.
func (in *Interner) ContainsOpen(subject []TypeID) (bool, error) {
	visited := make(map[TypeID]bool)
	for _, id := range subject {
		open, err := in.containsOpen(id, visited)
		if err != nil {
			return false, err
		}
		if open {
			return true, nil
		}
	}
	return false, nil
}

func (in *Interner) containsOpen(id TypeID, visited map[TypeID]bool) (bool, error) {
	if visited[id] {
		return false, nil
	}
	visited[id] = true

	tt, ok := in.Lookup(id)
	if !ok {
		return false, fmt.Errorf("%w: id %d", ErrUnknownType, id)
	}
	switch tt.Kind {
	case KindEnum:
		info := in.enumInfo(id)
		if info == nil {
			return false, fmt.Errorf("%w: enum id %d has no metadata", ErrUnknownType, id)
		}
		if info.Open {
			return true, nil
		}
		for vi := range info.Variants {
			for _, param := range info.Variants[vi].Params {
				open, err := in.containsOpen(param, visited)
				if err != nil || open {
					return open, err
				}
			}
		}
		return false, nil
	case KindStruct:
		info := in.structInfo(id)
		if info == nil {
			return false, fmt.Errorf("%w: struct id %d has no metadata", ErrUnknownType, id)
		}
		if info.Open {
			return true, nil
		}
		for _, field := range info.Fields {
			open, err := in.containsOpen(field.Type, visited)
			if err != nil || open {
				return open, err
			}
		}
		return false, nil
	case KindTuple:
		for _, elem := range in.TupleElems(id) {
			open, err := in.containsOpen(elem, visited)
			if err != nil || open {
				return open, err
			}
		}
		return false, nil
	default:
		return false, nil
	}
}
