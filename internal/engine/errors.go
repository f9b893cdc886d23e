package engine

import (
	"errors"
	"fmt"
)

var (
	ErrInitialization = errors.New("initialization error")
	ErrTableQuery     = errors.New("table query error")
	ErrRecord         = errors.New("record error")
	ErrOutput         = errors.New("output error")
	ErrNotOpen        = errors.New("no database is open")
	ErrAlreadyOpen    = errors.New("a database is already open")
	ErrUnknownFormat  = errors.New("unknown export format")
)

// DiagnosticKind says what a Diagnostic left out: a whole output file, one table or
// one record.
type DiagnosticKind int

const (
	KindOutput DiagnosticKind = iota
	KindTableQuery
	KindRecord
)

func (k DiagnosticKind) String() string {
	switch k {
	case KindTableQuery:
		return "table"
	case KindRecord:
		return "record"
	default:
		return "output"
	}
}

// Diagnostic is a recovered failure: something was left out of an export but the run
// went on.
type Diagnostic struct {
	Kind   DiagnosticKind
	Format Format
	Table  string
	Row    int // zero-based row index, -1 when not tied to a row
	Err    error
}

func (d Diagnostic) String() string {
	switch {
	case d.Table == "":
		return fmt.Sprintf("[%s] %s: %v", d.Format, d.Kind, d.Err)
	case d.Row < 0:
		return fmt.Sprintf("[%s] %s: table %s: %v", d.Format, d.Kind, d.Table, d.Err)
	default:
		return fmt.Sprintf("[%s] %s: table %s row %d: %v", d.Format, d.Kind, d.Table, d.Row, d.Err)
	}
}
