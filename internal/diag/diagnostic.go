package diag

import (
	"tally/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
	Fixes    []Fix
}

// Diagnosable is implemented by stage errors that can be rendered as a Diagnostic.
type Diagnosable interface {
	error
	Diagnostic() Diagnostic
}
