package ir

import "github.com/Natalie359738/sway/internal/irtype"

// ValueID identifies an SSA value inside a function.
type ValueID int32

// NoValueID marks the absence of a value.
const NoValueID ValueID = -1

// ValueKind distinguishes how a value is defined.
type ValueKind uint8

const (
	// ValueConst is a value defined by a const instruction.
	ValueConst ValueKind = iota
	// ValueInstr is a value defined by any other instruction.
	ValueInstr
)

// Value is a typed SSA value. Values are immutable once defined; operands
// reference them by ValueID, which is what use-chain tracking keys on.
type Value struct {
	Kind ValueKind
	Type irtype.TypeID

	// Const carries the constant for ValueConst definitions.
	Const Constant
}
