package diag

// Severity ranks diagnostics. The order matters: Bag.HasErrors and
// Bag.HasWarnings compare against these values.
type Severity uint8

const (
	// SevInfo reports a skipped optimization opportunity.
	SevInfo Severity = iota
	// SevWarning reports a suspicious but recoverable condition.
	SevWarning
	// SevError reports a structural problem in the module.
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}
