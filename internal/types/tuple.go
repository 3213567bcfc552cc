package types

import (
	"fmt"
	"strings"

	"fortio.org/safecast"
)

type tupleInfo struct {
	Elems []TypeID
}

// RegisterTuple interns a tuple type over the element types. Tuples
// are structural: the same element list yields the same TypeID.
func (in *Interner) RegisterTuple(elems []TypeID) TypeID {
	key := tupleKey(elems)
	if id, ok := in.tupleIdx[key]; ok {
		return id
	}
	in.tuples = append(in.tuples, tupleInfo{Elems: cloneTypeIDs(elems)})
	slot, err := safecast.Conv[uint32](len(in.tuples) - 1)
	if err != nil {
		panic(fmt.Errorf("tuple info overflow: %w", err))
	}
	id := in.internRaw(Type{Kind: KindTuple, Payload: slot})
	in.tupleIdx[key] = id
	return id
}

// TupleElems returns a copy of the element types for a tuple TypeID.
func (in *Interner) TupleElems(typeID TypeID) []TypeID {
	info := in.tupleInfo(typeID)
	if info == nil || len(info.Elems) == 0 {
		return nil
	}
	return cloneTypeIDs(info.Elems)
}

func (in *Interner) tupleInfo(typeID TypeID) *tupleInfo {
	if typeID == NoTypeID {
		return nil
	}
	tt, ok := in.Lookup(typeID)
	if !ok || tt.Kind != KindTuple {
		return nil
	}
	if tt.Payload == 0 || int(tt.Payload) >= len(in.tuples) {
		return nil
	}
	return &in.tuples[tt.Payload]
}

func tupleKey(elems []TypeID) string {
	var b strings.Builder
	for i, e := range elems {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%d", e)
	}
	return b.String()
}
