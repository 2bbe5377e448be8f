package ir

import "errors"

var (
	// ErrInvalidIndexPath reports an insert_value/extract_value index
	// path that does not match the operand type's shape. It indicates a
	// malformed upstream stream; the affected chain is left untouched.
	ErrInvalidIndexPath = errors.New("invalid index path")

	// ErrUnfoldedConstantAggregate reports an insert_value whose base
	// already resolves to a fully concrete constant aggregate, meaning
	// the folding pass did not reach its expected fixed point.
	ErrUnfoldedConstantAggregate = errors.New("unfolded constant aggregate")
)
