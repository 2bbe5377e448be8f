package ir

// BlockID identifies a basic block inside a function.
type BlockID int32

// NoBlockID marks the absence of a block.
const NoBlockID BlockID = -1

// Block is an ordered, mutable list of straight-line instructions. The
// block (through its Func) owns all instructions and is their sole
// mutator.
type Block struct {
	ID     BlockID
	Instrs []Instr
}
