package irtype

import "fmt"

// Record is a self-contained, serializable type descriptor. Struct field
// lists are embedded so a table of Records can rebuild an equivalent
// interner with identical TypeIDs.
type Record struct {
	Kind   uint8
	Elem   uint32
	Count  uint64
	Width  uint8
	Fields []uint32
}

// Export returns the full type table in TypeID order, builtins included.
func (in *Interner) Export() []Record {
	recs := make([]Record, len(in.types))
	for i, tt := range in.types {
		rec := Record{
			Kind:  uint8(tt.Kind),
			Elem:  uint32(tt.Elem),
			Count: tt.Count,
			Width: uint8(tt.Width),
		}
		if tt.Kind == KindStruct {
			fields := in.fieldLists[tt.Fields]
			rec.Fields = make([]uint32, len(fields))
			for j, f := range fields {
				rec.Fields[j] = uint32(f)
			}
		}
		recs[i] = rec
	}
	return recs
}

// Restore rebuilds an interner from an exported table. TypeIDs in the
// rebuilt interner match the table's positions exactly; a table that
// cannot reproduce its own ids (duplicates, bad references) is rejected.
func Restore(recs []Record) (*Interner, error) {
	in := NewInterner()
	for i, rec := range recs {
		if i < len(in.types) {
			// Builtin slots must agree with what NewInterner seeded.
			got := in.types[i]
			if uint8(got.Kind) != rec.Kind || uint8(got.Width) != rec.Width {
				return nil, fmt.Errorf("irtype: record %d does not match builtin table", i)
			}
			continue
		}
		var id TypeID
		switch Kind(rec.Kind) {
		case KindStruct:
			fields := make([]TypeID, len(rec.Fields))
			for j, f := range rec.Fields {
				if f >= uint32(i) {
					return nil, fmt.Errorf("irtype: record %d references later type %d", i, f)
				}
				fields[j] = TypeID(f)
			}
			id = in.StructType(fields...)
		case KindArray:
			if rec.Elem >= uint32(i) {
				return nil, fmt.Errorf("irtype: record %d references later type %d", i, rec.Elem)
			}
			id = in.ArrayType(TypeID(rec.Elem), rec.Count)
		case KindString:
			id = in.StringType(rec.Count)
		case KindUint:
			id = in.UintType(Width(rec.Width))
		case KindUnit, KindBool, KindB256:
			id = in.Intern(Type{Kind: Kind(rec.Kind)})
		default:
			return nil, fmt.Errorf("irtype: record %d has unknown kind %d", i, rec.Kind)
		}
		if int(id) != i {
			return nil, fmt.Errorf("irtype: record %d deduplicated to id %d", i, id)
		}
	}
	return in, nil
}
