package sema

import (
	"errors"
	"fmt"

	"tally/internal/diag"
	"tally/internal/source"
	"tally/internal/types"
)

type ErrorKind uint8

const (
	UnknownIdent ErrorKind = iota + 1
	IdentRedeclared
	MismatchedTypes
)

func (k ErrorKind) String() string {
	switch k {
	case UnknownIdent:
		return "UnknownIdent"
	case IdentRedeclared:
		return "IdentRedeclared"
	case MismatchedTypes:
		return "MismatchedTypes"
	}
	return "ErrorKind(?)"
}

var (
	ErrUnknownIdent    = errors.New("unknown identifier")
	ErrIdentRedeclared = errors.New("redeclared identifier")
	ErrMismatchedTypes = errors.New("mismatched types")
)

var kindCodes = map[ErrorKind]diag.Code{
	UnknownIdent:    diag.SemaUnresolvedSymbol,
	IdentRedeclared: diag.SemaDuplicateSymbol,
	MismatchedTypes: diag.SemaTypeMismatch,
}

// Error is the first type error found in a program.
type Error struct {
	Kind ErrorKind
	Name string     // UnknownIdent, IdentRedeclared
	LHS  types.Type // MismatchedTypes
	RHS  types.Type // MismatchedTypes
	Pos  source.Position
	Span source.Span
	// Prev указывает на первое объявление при IdentRedeclared
	Prev source.Span
}

func (e *Error) Code() diag.Code {
	return kindCodes[e.Kind]
}

func (e *Error) Message() string {
	switch e.Kind {
	case UnknownIdent:
		return fmt.Sprintf("Unknown ident %s", e.Name)
	case IdentRedeclared:
		return fmt.Sprintf("Cannot redeclare ident %s (yet)", e.Name)
	case MismatchedTypes:
		return fmt.Sprintf("Mismatched types: %s and %s", e.LHS, e.RHS)
	}
	return "type error"
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message())
}

func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnknownIdent:
		return e.Kind == UnknownIdent
	case ErrIdentRedeclared:
		return e.Kind == IdentRedeclared
	case ErrMismatchedTypes:
		return e.Kind == MismatchedTypes
	}
	return false
}

func (e *Error) Diagnostic() diag.Diagnostic {
	d := diag.NewError(e.Code(), e.Span, e.Message())
	if e.Kind == IdentRedeclared && !e.Prev.Empty() {
		d = d.WithNote(e.Prev, "previous declaration here")
	}
	return d
}
