package ir

import "github.com/Natalie359738/sway/internal/irtype"

// InstrKind enumerates instruction kinds.
type InstrKind uint8

const (
	// InstrConst materializes a compile-time constant.
	InstrConst InstrKind = iota
	// InstrInsertValue produces a copy of an aggregate with one
	// field/element replaced.
	InstrInsertValue
	// InstrExtractValue reads one field/element out of an aggregate.
	InstrExtractValue
	// InstrGetPtr materializes a pointer to a value. Opaque to folding.
	InstrGetPtr
	// InstrLoad reads through a pointer. Opaque to folding.
	InstrLoad
	// InstrStore writes a value through a pointer. Opaque to folding.
	InstrStore
	// InstrBitCast reinterprets a value as another type.
	InstrBitCast
	// InstrCall invokes an external function.
	InstrCall
	// InstrRet returns from the function.
	InstrRet
)

func (k InstrKind) String() string {
	switch k {
	case InstrConst:
		return "const"
	case InstrInsertValue:
		return "insert_value"
	case InstrExtractValue:
		return "extract_value"
	case InstrGetPtr:
		return "get_ptr"
	case InstrLoad:
		return "load"
	case InstrStore:
		return "store"
	case InstrBitCast:
		return "bitcast"
	case InstrCall:
		return "call"
	case InstrRet:
		return "ret"
	default:
		return "unknown"
	}
}

// Instr is an IR instruction. Each instruction produces at most one SSA
// value (Result, NoValueID for store/ret) and references its operands by
// ValueID.
type Instr struct {
	Kind   InstrKind
	Result ValueID

	Const   ConstInstr
	Insert  InsertValueInstr
	Extract ExtractValueInstr
	GetPtr  GetPtrInstr
	Load    LoadInstr
	Store   StoreInstr
	BitCast BitCastInstr
	Call    CallInstr
	Ret     RetInstr
}

// ConstInstr materializes a constant.
type ConstInstr struct {
	Value Constant
}

// InsertValueInstr writes one field of a (nested) aggregate, producing a
// new aggregate value.
type InsertValueInstr struct {
	Base    ValueID
	Elem    ValueID
	Indices []uint32
}

// ExtractValueInstr reads one field of a (nested) aggregate.
type ExtractValueInstr struct {
	Base    ValueID
	Indices []uint32
}

// GetPtrInstr materializes a pointer to a value.
type GetPtrInstr struct {
	Target ValueID
}

// LoadInstr reads through a pointer.
type LoadInstr struct {
	Ptr ValueID
}

// StoreInstr writes a value through a pointer.
type StoreInstr struct {
	Ptr ValueID
	Val ValueID
}

// BitCastInstr reinterprets a value as another type.
type BitCastInstr struct {
	Val ValueID
	To  irtype.TypeID
}

// CallInstr invokes an external function by name.
type CallInstr struct {
	Name string
	Args []ValueID
}

// RetInstr returns from the function, optionally with a value.
type RetInstr struct {
	HasValue bool
	Val      ValueID
}

// Operands returns the value operands the instruction references.
func (in *Instr) Operands() []ValueID {
	switch in.Kind {
	case InstrConst:
		return nil
	case InstrInsertValue:
		return []ValueID{in.Insert.Base, in.Insert.Elem}
	case InstrExtractValue:
		return []ValueID{in.Extract.Base}
	case InstrGetPtr:
		return []ValueID{in.GetPtr.Target}
	case InstrLoad:
		return []ValueID{in.Load.Ptr}
	case InstrStore:
		return []ValueID{in.Store.Ptr, in.Store.Val}
	case InstrBitCast:
		return []ValueID{in.BitCast.Val}
	case InstrCall:
		return in.Call.Args
	case InstrRet:
		if in.Ret.HasValue {
			return []ValueID{in.Ret.Val}
		}
		return nil
	default:
		return nil
	}
}

// ReplaceOperands rewrites every operand reference through the map,
// following chains so a->b, b->c resolves a to c.
func (in *Instr) ReplaceOperands(replace map[ValueID]ValueID) {
	if len(replace) == 0 {
		return
	}
	sub := func(v ValueID) ValueID {
		for {
			next, ok := replace[v]
			if !ok {
				return v
			}
			v = next
		}
	}
	switch in.Kind {
	case InstrInsertValue:
		in.Insert.Base = sub(in.Insert.Base)
		in.Insert.Elem = sub(in.Insert.Elem)
	case InstrExtractValue:
		in.Extract.Base = sub(in.Extract.Base)
	case InstrGetPtr:
		in.GetPtr.Target = sub(in.GetPtr.Target)
	case InstrLoad:
		in.Load.Ptr = sub(in.Load.Ptr)
	case InstrStore:
		in.Store.Ptr = sub(in.Store.Ptr)
		in.Store.Val = sub(in.Store.Val)
	case InstrBitCast:
		in.BitCast.Val = sub(in.BitCast.Val)
	case InstrCall:
		for i := range in.Call.Args {
			in.Call.Args[i] = sub(in.Call.Args[i])
		}
	case InstrRet:
		if in.Ret.HasValue {
			in.Ret.Val = sub(in.Ret.Val)
		}
	}
}
