package diag

import "fmt"

// Locus addresses an instruction inside a module: function name, block
// id, and the instruction's index within the block at the time the
// diagnostic was recorded.
type Locus struct {
	Fn    string
	Block int32
	Index int
}

func (l Locus) String() string {
	return fmt.Sprintf("%s:bb%d[%d]", l.Fn, l.Block, l.Index)
}

type Note struct {
	Locus Locus
	Msg   string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  Locus
	Notes    []Note
}

func New(sev Severity, code Code, primary Locus, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, primary Locus, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

func NewInfo(code Code, primary Locus, msg string) Diagnostic {
	return New(SevInfo, code, primary, msg)
}

func (d Diagnostic) WithNote(l Locus, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Locus: l, Msg: msg})
	return d
}
