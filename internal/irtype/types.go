package irtype

import "fmt"

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates all supported kinds of IR types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindUnit
	KindBool
	KindUint
	KindB256
	KindString
	KindStruct
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindUnit:
		return "unit"
	case KindBool:
		return "bool"
	case KindUint:
		return "uint"
	case KindB256:
		return "b256"
	case KindString:
		return "string"
	case KindStruct:
		return "struct"
	case KindArray:
		return "array"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Width captures the precision of unsigned integers.
type Width uint8

const (
	Width8  Width = 8
	Width16 Width = 16
	Width32 Width = 32
	Width64 Width = 64
)

// Type is a compact descriptor for any supported type. Aggregate field
// lists live in the interner's side table, referenced by Fields.
type Type struct {
	Kind   Kind
	Elem   TypeID // array element
	Count  uint64 // array element count / string byte length
	Width  Width  // uint bit width
	Fields uint32 // struct field-list id in the interner (0 = none)
}

// MakeUint describes an unsigned integer type of the given width.
func MakeUint(width Width) Type {
	return Type{Kind: KindUint, Width: width}
}

// MakeString describes a fixed-length string of n bytes.
func MakeString(n uint64) Type {
	return Type{Kind: KindString, Count: n}
}

// MakeArray describes an array of count elements of type elem.
func MakeArray(elem TypeID, count uint64) Type {
	return Type{Kind: KindArray, Elem: elem, Count: count}
}
