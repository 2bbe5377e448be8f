package ir

import (
	"github.com/Natalie359738/sway/internal/irtype"
)

// ConstKind distinguishes constant kinds.
type ConstKind uint8

const (
	// ConstUndef marks a leaf position that has no concrete value yet.
	ConstUndef ConstKind = iota
	// ConstUnit is the unit constant.
	ConstUnit
	// ConstBool is a boolean constant.
	ConstBool
	// ConstUint is an unsigned integer constant.
	ConstUint
	// ConstB256 is a 32-byte constant.
	ConstB256
	// ConstStr is a fixed-length string constant.
	ConstStr
	// ConstArray is an array constant.
	ConstArray
	// ConstStruct is a struct constant.
	ConstStruct
)

// Constant is a typed compile-time constant. For aggregate kinds the
// Fields list always matches the type's field/element count, and each
// entry may itself be Undef, a scalar, or a nested aggregate.
type Constant struct {
	Kind ConstKind
	Type irtype.TypeID

	Bool   bool
	Uint   uint64
	B256   [32]byte
	Str    []byte
	Fields []Constant
}

// NewUnit builds the unit constant.
func NewUnit(tys *irtype.Interner) Constant {
	return Constant{Kind: ConstUnit, Type: tys.Builtins().Unit}
}

// NewBool builds a boolean constant.
func NewBool(tys *irtype.Interner, b bool) Constant {
	return Constant{Kind: ConstBool, Type: tys.Builtins().Bool, Bool: b}
}

// NewUint builds an unsigned integer constant of the given width.
func NewUint(tys *irtype.Interner, width irtype.Width, n uint64) Constant {
	return Constant{Kind: ConstUint, Type: tys.UintType(width), Uint: n}
}

// NewB256 builds a 32-byte constant.
func NewB256(tys *irtype.Interner, bytes [32]byte) Constant {
	return Constant{Kind: ConstB256, Type: tys.Builtins().B256, B256: bytes}
}

// NewString builds a fixed-length string constant.
func NewString(tys *irtype.Interner, s []byte) Constant {
	return Constant{Kind: ConstStr, Type: tys.StringType(uint64(len(s))), Str: s}
}

// NewArray builds an array constant from its elements.
func NewArray(tys *irtype.Interner, elem irtype.TypeID, elems []Constant) Constant {
	return Constant{
		Kind:   ConstArray,
		Type:   tys.ArrayType(elem, uint64(len(elems))),
		Fields: elems,
	}
}

// NewStruct builds a struct constant from its ordered fields.
func NewStruct(tys *irtype.Interner, fields []Constant) Constant {
	ids := make([]irtype.TypeID, len(fields))
	for i, f := range fields {
		ids[i] = f.Type
	}
	return Constant{
		Kind:   ConstStruct,
		Type:   tys.StructType(ids...),
		Fields: fields,
	}
}

// UndefOf builds the canonical "empty" constant of a type: aggregates get
// the full recursive shape with every leaf Undef, scalars get a bare
// Undef of that type.
func UndefOf(tys *irtype.Interner, ty irtype.TypeID) Constant {
	tt, ok := tys.Lookup(ty)
	if !ok {
		return Constant{Kind: ConstUndef, Type: ty}
	}
	switch tt.Kind {
	case irtype.KindStruct:
		fieldTys := tys.FieldTypes(ty)
		fields := make([]Constant, len(fieldTys))
		for i, fty := range fieldTys {
			fields[i] = UndefOf(tys, fty)
		}
		return Constant{Kind: ConstStruct, Type: ty, Fields: fields}
	case irtype.KindArray:
		elems := make([]Constant, tt.Count)
		for i := range elems {
			elems[i] = UndefOf(tys, tt.Elem)
		}
		return Constant{Kind: ConstArray, Type: ty, Fields: elems}
	default:
		return Constant{Kind: ConstUndef, Type: ty}
	}
}

// IsAggregate reports whether the constant is a struct or array.
func (c Constant) IsAggregate() bool {
	return c.Kind == ConstStruct || c.Kind == ConstArray
}

// AllUndef reports whether every leaf of the constant is Undef. This is
// the shape a fresh aggregate has before any field is written.
func (c Constant) AllUndef() bool {
	switch c.Kind {
	case ConstUndef:
		return true
	case ConstStruct, ConstArray:
		for i := range c.Fields {
			if !c.Fields[i].AllUndef() {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// FullyConcrete reports whether no Undef appears anywhere in the
// constant's recursive structure.
func (c Constant) FullyConcrete() bool {
	switch c.Kind {
	case ConstUndef:
		return false
	case ConstStruct, ConstArray:
		for i := range c.Fields {
			if !c.Fields[i].FullyConcrete() {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// Equal compares two constants structurally. Identity plays no role: two
// constants are equal iff their types and recursive values match. Undef
// compares equal to Undef of the same type.
func (c Constant) Equal(o Constant) bool {
	if c.Kind != o.Kind || c.Type != o.Type {
		return false
	}
	switch c.Kind {
	case ConstUndef, ConstUnit:
		return true
	case ConstBool:
		return c.Bool == o.Bool
	case ConstUint:
		return c.Uint == o.Uint
	case ConstB256:
		return c.B256 == o.B256
	case ConstStr:
		return string(c.Str) == string(o.Str)
	case ConstArray, ConstStruct:
		if len(c.Fields) != len(o.Fields) {
			return false
		}
		for i := range c.Fields {
			if !c.Fields[i].Equal(o.Fields[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Clone deep-copies the constant.
func (c Constant) Clone() Constant {
	out := c
	if c.Str != nil {
		out.Str = append([]byte(nil), c.Str...)
	}
	if c.Fields != nil {
		out.Fields = make([]Constant, len(c.Fields))
		for i := range c.Fields {
			out.Fields[i] = c.Fields[i].Clone()
		}
	}
	return out
}

// Indexed reads the sub-constant addressed by an index path. Returns
// false when the path does not match the constant's shape.
func (c Constant) Indexed(indices []uint32) (Constant, bool) {
	cur := c
	for _, idx := range indices {
		if !cur.IsAggregate() || int(idx) >= len(cur.Fields) {
			return Constant{}, false
		}
		cur = cur.Fields[idx]
	}
	return cur, true
}

// ReplaceIndexed returns a copy of the constant with the position
// addressed by the index path overwritten by elem (last-write-wins).
// Returns false when the path does not match the constant's shape.
func (c Constant) ReplaceIndexed(indices []uint32, elem Constant) (Constant, bool) {
	if len(indices) == 0 {
		return elem.Clone(), true
	}
	idx := indices[0]
	if !c.IsAggregate() || int(idx) >= len(c.Fields) {
		return Constant{}, false
	}
	out := c
	out.Fields = append([]Constant(nil), c.Fields...)
	sub, ok := out.Fields[idx].ReplaceIndexed(indices[1:], elem)
	if !ok {
		return Constant{}, false
	}
	out.Fields[idx] = sub
	return out, true
}
