package diag

import (
	"fmt"
)

type Code uint16

const (
	// UnknownCode is the catch-all for uncategorized findings.
	UnknownCode Code = 0

	// Optimizer pass findings.
	OptInfo                      Code = 4000
	OptInvalidIndexPath          Code = 4001
	OptAliasedIntermediate       Code = 4002
	OptUnfoldedConstantAggregate Code = 4003
)

func (c Code) String() string {
	return fmt.Sprintf("OPT%04d", uint16(c))
}

// Title returns a short human-readable label for the code.
func (c Code) Title() string {
	switch c {
	case OptInfo:
		return "optimizer note"
	case OptInvalidIndexPath:
		return "invalid index path"
	case OptAliasedIntermediate:
		return "aliased intermediate value"
	case OptUnfoldedConstantAggregate:
		return "unfolded constant aggregate"
	default:
		return "unknown"
	}
}
