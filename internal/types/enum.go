package types

import (
	"fmt"

	"fortio.org/safecast"

	"openmatch/internal/source"
)

// EnumVariantInfo stores metadata for a single enum variant. Payload
// types are positional; a field-bearing variant is declared with a
// struct payload carrying its own open marker.
type EnumVariantInfo struct {
	Name   source.StringID
	Params []TypeID
	Span   source.Span
}

// EnumInfo stores metadata for an enum type. Open records the
// open-for-extension marker from the declaration; Variants reflects
// only the variants visible to the current compilation.
type EnumInfo struct {
	Name     source.StringID
	Decl     source.Span
	Open     bool
	Variants []EnumVariantInfo
}

// RegisterEnum allocates a nominal enum type slot and returns its TypeID.
func (in *Interner) RegisterEnum(name source.StringID, decl source.Span, open bool) TypeID {
	slot := in.appendEnumInfo(EnumInfo{Name: name, Decl: decl, Open: open})
	return in.internRaw(Type{Kind: KindEnum, Payload: slot})
}

// SetEnumVariants stores the resolved variants for the enum type.
func (in *Interner) SetEnumVariants(typeID TypeID, variants []EnumVariantInfo) {
	info := in.enumInfo(typeID)
	if info == nil {
		return
	}
	info.Variants = cloneEnumVariants(variants)
}

// EnumInfo returns metadata for the provided enum TypeID.
func (in *Interner) EnumInfo(typeID TypeID) (*EnumInfo, bool) {
	info := in.enumInfo(typeID)
	if info == nil {
		return nil, false
	}
	return info, true
}

func (in *Interner) enumInfo(typeID TypeID) *EnumInfo {
	if typeID == NoTypeID {
		return nil
	}
	tt, ok := in.Lookup(typeID)
	if !ok || tt.Kind != KindEnum {
		return nil
	}
	if tt.Payload == 0 || int(tt.Payload) >= len(in.enums) {
		return nil
	}
	return &in.enums[tt.Payload]
}

func (in *Interner) appendEnumInfo(info EnumInfo) uint32 {
	in.enums = append(in.enums, EnumInfo{
		Name:     info.Name,
		Decl:     info.Decl,
		Open:     info.Open,
		Variants: cloneEnumVariants(info.Variants),
	})
	slot, err := safecast.Conv[uint32](len(in.enums) - 1)
	if err != nil {
		panic(fmt.Errorf("enum info overflow: %w", err))
	}
	return slot
}

func cloneEnumVariants(variants []EnumVariantInfo) []EnumVariantInfo {
	if len(variants) == 0 {
		return nil
	}
	result := make([]EnumVariantInfo, len(variants))
	copy(result, variants)
	for i := range result {
		result[i].Params = cloneTypeIDs(result[i].Params)
	}
	return result
}

func cloneTypeIDs(ids []TypeID) []TypeID {
	if len(ids) == 0 {
		return nil
	}
	out := make([]TypeID, len(ids))
	copy(out, ids)
	return out
}
