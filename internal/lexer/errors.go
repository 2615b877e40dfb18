package lexer

import (
	"errors"
	"fmt"

	"tally/internal/diag"
	"tally/internal/source"
)

// ErrBadNumber matches every malformed integer literal error via errors.Is.
var ErrBadNumber = errors.New("malformed integer literal")

// Error is a fatal lexical error. It aborts the token stream.
type Error struct {
	Code diag.Code
	Msg  string
	Pos  source.Position
	Span source.Span
	Err  error // причина (например, *strconv.NumError)
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	return target == ErrBadNumber && e.Code == diag.LexBadNumber
}

func (e *Error) Diagnostic() diag.Diagnostic {
	return diag.NewError(e.Code, e.Span, e.Msg)
}
