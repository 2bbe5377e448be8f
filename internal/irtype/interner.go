package irtype

import (
	"fmt"
	"strings"

	"fortio.org/safecast"
)

// Builtins stores TypeIDs for common primitive types.
type Builtins struct {
	Invalid TypeID
	Unit    TypeID
	Bool    TypeID
	U8      TypeID
	U16     TypeID
	U32     TypeID
	U64     TypeID
	B256    TypeID
}

// typeKey is the comparable map key for structural lookups. Type holds
// only scalar fields (aggregate field lists live behind the interned
// Fields id), so the descriptor itself is usable as a key.
type typeKey Type

// Interner provides stable TypeIDs by hashing structural descriptors.
// Two aggregates get the same TypeID iff their field/element lists match
// recursively, so TypeID equality is structural type equality.
type Interner struct {
	types      []Type
	index      map[typeKey]TypeID
	fieldLists [][]TypeID
	fieldIndex map[string]uint32
	builtins   Builtins
}

// NewInterner constructs an interner seeded with built-in primitives.
func NewInterner() *Interner {
	in := &Interner{
		index:      make(map[typeKey]TypeID, 64),
		fieldIndex: make(map[string]uint32, 16),
	}
	in.fieldLists = append(in.fieldLists, nil) // reserve 0 as invalid sentinel
	in.builtins.Invalid = in.internRaw(Type{Kind: KindInvalid})
	in.builtins.Unit = in.Intern(Type{Kind: KindUnit})
	in.builtins.Bool = in.Intern(Type{Kind: KindBool})
	in.builtins.U8 = in.Intern(MakeUint(Width8))
	in.builtins.U16 = in.Intern(MakeUint(Width16))
	in.builtins.U32 = in.Intern(MakeUint(Width32))
	in.builtins.U64 = in.Intern(MakeUint(Width64))
	in.builtins.B256 = in.Intern(Type{Kind: KindB256})
	return in
}

// Builtins returns TypeIDs for primitive types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Intern ensures the provided descriptor has a stable TypeID.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	key := typeKey(t)
	if id, ok := in.index[key]; ok {
		return id
	}
	return in.internRaw(t)
}

// internRaw adds the descriptor to the storage without consulting the map.
func (in *Interner) internRaw(t Type) TypeID {
	lenTypes, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(lenTypes)
	in.types = append(in.types, t)
	key := typeKey(t)
	in.index[key] = id
	return id
}

// StructType interns a struct type with the given ordered field types.
func (in *Interner) StructType(fields ...TypeID) TypeID {
	return in.Intern(Type{Kind: KindStruct, Fields: in.internFields(fields)})
}

// ArrayType interns an array type of count elements.
func (in *Interner) ArrayType(elem TypeID, count uint64) TypeID {
	return in.Intern(MakeArray(elem, count))
}

// StringType interns a fixed-length string type of n bytes.
func (in *Interner) StringType(n uint64) TypeID {
	return in.Intern(MakeString(n))
}

// UintType interns an unsigned integer type of the given width.
func (in *Interner) UintType(width Width) TypeID {
	return in.Intern(MakeUint(width))
}

// internFields deduplicates a field-type list and returns its list id.
func (in *Interner) internFields(fields []TypeID) uint32 {
	var sb strings.Builder
	for _, f := range fields {
		fmt.Fprintf(&sb, "%d,", f)
	}
	key := sb.String()
	if id, ok := in.fieldIndex[key]; ok {
		return id
	}
	id, err := safecast.Conv[uint32](len(in.fieldLists))
	if err != nil {
		panic(fmt.Errorf("len(fieldLists) overflow: %w", err))
	}
	in.fieldLists = append(in.fieldLists, append([]TypeID(nil), fields...))
	in.fieldIndex[key] = id
	return id
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic("irtype: invalid TypeID")
	}
	return tt
}

// FieldTypes returns the ordered field types of a struct type.
func (in *Interner) FieldTypes(id TypeID) []TypeID {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindStruct || int(tt.Fields) >= len(in.fieldLists) {
		return nil
	}
	return in.fieldLists[tt.Fields]
}

// FieldCount returns the number of fields/elements of an aggregate type,
// or -1 for non-aggregates.
func (in *Interner) FieldCount(id TypeID) int {
	tt, ok := in.Lookup(id)
	if !ok {
		return -1
	}
	switch tt.Kind {
	case KindStruct:
		return len(in.FieldTypes(id))
	case KindArray:
		return int(tt.Count)
	default:
		return -1
	}
}

// IsAggregate reports whether id names a struct or array type.
func (in *Interner) IsAggregate(id TypeID) bool {
	tt, ok := in.Lookup(id)
	return ok && (tt.Kind == KindStruct || tt.Kind == KindArray)
}

// FieldType returns the type of field/element idx of an aggregate.
func (in *Interner) FieldType(id TypeID, idx uint32) (TypeID, bool) {
	tt, ok := in.Lookup(id)
	if !ok {
		return NoTypeID, false
	}
	switch tt.Kind {
	case KindStruct:
		fields := in.FieldTypes(id)
		if int(idx) >= len(fields) {
			return NoTypeID, false
		}
		return fields[idx], true
	case KindArray:
		if uint64(idx) >= tt.Count {
			return NoTypeID, false
		}
		return tt.Elem, true
	default:
		return NoTypeID, false
	}
}

// IndexedType walks an index path into nested aggregates and returns the
// addressed type. Returns false when the path length or any index does not
// match the type's shape.
func (in *Interner) IndexedType(id TypeID, indices []uint32) (TypeID, bool) {
	cur := id
	for _, idx := range indices {
		next, ok := in.FieldType(cur, idx)
		if !ok {
			return NoTypeID, false
		}
		cur = next
	}
	return cur, true
}

// String renders a type for dumps and diagnostics.
func (in *Interner) String(id TypeID) string {
	tt, ok := in.Lookup(id)
	if !ok {
		return "<invalid>"
	}
	switch tt.Kind {
	case KindUnit:
		return "()"
	case KindBool:
		return "bool"
	case KindUint:
		return fmt.Sprintf("u%d", tt.Width)
	case KindB256:
		return "b256"
	case KindString:
		return fmt.Sprintf("string<%d>", tt.Count)
	case KindStruct:
		fields := in.FieldTypes(id)
		parts := make([]string, len(fields))
		for i, f := range fields {
			parts[i] = in.String(f)
		}
		return "{ " + strings.Join(parts, ", ") + " }"
	case KindArray:
		return fmt.Sprintf("[%s; %d]", in.String(tt.Elem), tt.Count)
	default:
		return "<invalid>"
	}
}
