package ir

import "github.com/Natalie359738/sway/internal/irtype"

// Func is one function body: an ordered instruction stream split into
// blocks, plus the table of SSA values the instructions define and use.
type Func struct {
	Name   string
	Result irtype.TypeID
	Entry  BlockID
	Blocks []Block
	Values []Value
}

// NewFunc creates an empty function with a single entry block.
func NewFunc(name string, result irtype.TypeID) *Func {
	return &Func{
		Name:   name,
		Result: result,
		Entry:  0,
		Blocks: []Block{{ID: 0}},
	}
}

// Value returns the value for an id, or nil when out of range.
func (f *Func) Value(id ValueID) *Value {
	if id < 0 || int(id) >= len(f.Values) {
		return nil
	}
	return &f.Values[id]
}

// ValueType returns the type of a value, NoTypeID when unknown.
func (f *Func) ValueType(id ValueID) irtype.TypeID {
	v := f.Value(id)
	if v == nil {
		return irtype.NoTypeID
	}
	return v.Type
}

// AsConst resolves a value to its constant definition. The second result
// is false for instruction-defined values.
func (f *Func) AsConst(id ValueID) (Constant, bool) {
	v := f.Value(id)
	if v == nil || v.Kind != ValueConst {
		return Constant{}, false
	}
	return v.Const, true
}

// NewConstValue registers a value defined by a const instruction.
func (f *Func) NewConstValue(c Constant) ValueID {
	f.Values = append(f.Values, Value{Kind: ValueConst, Type: c.Type, Const: c})
	return ValueID(len(f.Values) - 1)
}

// NewValue registers an instruction-defined value of the given type.
func (f *Func) NewValue(ty irtype.TypeID) ValueID {
	f.Values = append(f.Values, Value{Kind: ValueInstr, Type: ty})
	return ValueID(len(f.Values) - 1)
}

// block returns the block with the given id, or nil.
func (f *Func) block(id BlockID) *Block {
	if id < 0 || int(id) >= len(f.Blocks) {
		return nil
	}
	return &f.Blocks[id]
}

// Emit helpers append instructions to a block and register their result
// values, mirroring how the lowering stage builds streams.

// EmitConst appends a const instruction and returns its value.
func (f *Func) EmitConst(b BlockID, c Constant) ValueID {
	res := f.NewConstValue(c)
	f.block(b).Instrs = append(f.block(b).Instrs, Instr{
		Kind:   InstrConst,
		Result: res,
		Const:  ConstInstr{Value: c},
	})
	return res
}

// EmitInsertValue appends an insert_value instruction.
func (f *Func) EmitInsertValue(b BlockID, base, elem ValueID, indices []uint32) ValueID {
	res := f.NewValue(f.ValueType(base))
	f.block(b).Instrs = append(f.block(b).Instrs, Instr{
		Kind:   InstrInsertValue,
		Result: res,
		Insert: InsertValueInstr{Base: base, Elem: elem, Indices: indices},
	})
	return res
}

// EmitExtractValue appends an extract_value instruction.
func (f *Func) EmitExtractValue(b BlockID, base ValueID, ty irtype.TypeID, indices []uint32) ValueID {
	res := f.NewValue(ty)
	f.block(b).Instrs = append(f.block(b).Instrs, Instr{
		Kind:    InstrExtractValue,
		Result:  res,
		Extract: ExtractValueInstr{Base: base, Indices: indices},
	})
	return res
}

// EmitGetPtr appends a get_ptr instruction.
func (f *Func) EmitGetPtr(b BlockID, target ValueID) ValueID {
	res := f.NewValue(f.ValueType(target))
	f.block(b).Instrs = append(f.block(b).Instrs, Instr{
		Kind:   InstrGetPtr,
		Result: res,
		GetPtr: GetPtrInstr{Target: target},
	})
	return res
}

// EmitLoad appends a load instruction.
func (f *Func) EmitLoad(b BlockID, ptr ValueID, ty irtype.TypeID) ValueID {
	res := f.NewValue(ty)
	f.block(b).Instrs = append(f.block(b).Instrs, Instr{
		Kind:   InstrLoad,
		Result: res,
		Load:   LoadInstr{Ptr: ptr},
	})
	return res
}

// EmitStore appends a store instruction. Stores produce no value.
func (f *Func) EmitStore(b BlockID, ptr, val ValueID) {
	f.block(b).Instrs = append(f.block(b).Instrs, Instr{
		Kind:   InstrStore,
		Result: NoValueID,
		Store:  StoreInstr{Ptr: ptr, Val: val},
	})
}

// EmitBitCast appends a bitcast instruction.
func (f *Func) EmitBitCast(b BlockID, val ValueID, to irtype.TypeID) ValueID {
	res := f.NewValue(to)
	f.block(b).Instrs = append(f.block(b).Instrs, Instr{
		Kind:    InstrBitCast,
		Result:  res,
		BitCast: BitCastInstr{Val: val, To: to},
	})
	return res
}

// EmitCall appends a call instruction.
func (f *Func) EmitCall(b BlockID, name string, ty irtype.TypeID, args ...ValueID) ValueID {
	res := f.NewValue(ty)
	f.block(b).Instrs = append(f.block(b).Instrs, Instr{
		Kind:   InstrCall,
		Result: res,
		Call:   CallInstr{Name: name, Args: args},
	})
	return res
}

// EmitRet appends a ret instruction.
func (f *Func) EmitRet(b BlockID, val ValueID) {
	f.block(b).Instrs = append(f.block(b).Instrs, Instr{
		Kind:   InstrRet,
		Result: NoValueID,
		Ret:    RetInstr{HasValue: val != NoValueID, Val: val},
	})
}

// UseCounts scans every instruction's operands once and returns the
// number of use edges per value. Each operand occurrence counts as one
// use, so a value passed twice to the same call counts twice.
func (f *Func) UseCounts() []int {
	counts := make([]int, len(f.Values))
	for bi := range f.Blocks {
		for ii := range f.Blocks[bi].Instrs {
			for _, op := range f.Blocks[bi].Instrs[ii].Operands() {
				if op >= 0 && int(op) < len(counts) {
					counts[op]++
				}
			}
		}
	}
	return counts
}

// ReplaceUses redirects every operand reference through the map across
// all instructions in the function. Definitions are not touched.
func (f *Func) ReplaceUses(replace map[ValueID]ValueID) {
	if len(replace) == 0 {
		return
	}
	for bi := range f.Blocks {
		for ii := range f.Blocks[bi].Instrs {
			f.Blocks[bi].Instrs[ii].ReplaceOperands(replace)
		}
	}
}
