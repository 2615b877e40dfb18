package parser

import (
	"errors"
	"fmt"

	"tally/internal/diag"
	"tally/internal/source"
	"tally/internal/token"
)

// ErrorKind classifies parse errors.
type ErrorKind uint8

const (
	// ExpectedTokenToFollow: the stream ended where a token was required.
	ExpectedTokenToFollow ErrorKind = iota + 1
	// ExpectedToken: a specific kind was required, something else was found.
	ExpectedToken
	// UnexpectedToken: the token is not valid at this grammar position.
	UnexpectedToken
)

func (k ErrorKind) String() string {
	switch k {
	case ExpectedTokenToFollow:
		return "ExpectedTokenToFollow"
	case ExpectedToken:
		return "ExpectedToken"
	case UnexpectedToken:
		return "UnexpectedToken"
	}
	return "ErrorKind(?)"
}

// Sentinels for errors.Is.
var (
	ErrExpectedTokenToFollow = errors.New("expected token to follow, but found none")
	ErrExpectedToken         = errors.New("expected token")
	ErrUnexpectedToken       = errors.New("unexpected token")
)

// Error is a fatal parse error.
type Error struct {
	Kind  ErrorKind
	Code  diag.Code
	Want  token.Kind  // ExpectedToken
	Found token.Token // ExpectedToken, UnexpectedToken
	// HasPos is false when the stream ended without an EOF token to point at.
	HasPos bool
	Pos    source.Position
	Span   source.Span
	Fixes  []diag.Fix
}

func (e *Error) Message() string {
	switch e.Kind {
	case ExpectedTokenToFollow:
		return ErrExpectedTokenToFollow.Error()
	case ExpectedToken:
		return fmt.Sprintf("expected %s, found %s", e.Want, e.Found.Describe())
	case UnexpectedToken:
		return fmt.Sprintf("unexpected %s", e.Found.Describe())
	}
	return "parse error"
}

func (e *Error) Error() string {
	if !e.HasPos {
		return e.Message()
	}
	return fmt.Sprintf("%s: %s", e.Pos, e.Message())
}

func (e *Error) Is(target error) bool {
	switch target {
	case ErrExpectedTokenToFollow:
		return e.Kind == ExpectedTokenToFollow
	case ErrExpectedToken:
		return e.Kind == ExpectedToken
	case ErrUnexpectedToken:
		return e.Kind == UnexpectedToken
	}
	return false
}

func (e *Error) Diagnostic() diag.Diagnostic {
	d := diag.NewError(e.Code, e.Span, e.Message())
	d.Fixes = e.Fixes
	return d
}

// withFix attaches f to a parse error; lexer errors pass through untouched.
func withFix(err error, f diag.Fix) error {
	var pe *Error
	if errors.As(err, &pe) {
		pe.Fixes = append(pe.Fixes, f)
	}
	return err
}

// expectCodes maps the required token kind onto a more specific code.
var expectCodes = map[token.Kind]diag.Code{
	token.Semi:    diag.SynExpectSemicolon,
	token.Equals:  diag.SynExpectEquals,
	token.RSmooth: diag.SynUnclosedParen,
	token.Ident:   diag.SynExpectIdentifier,
}

func errExpected(want token.Kind, found token.Token) *Error {
	code, ok := expectCodes[want]
	if !ok {
		code = diag.SynExpectToken
	}
	return &Error{
		Kind:   ExpectedToken,
		Code:   code,
		Want:   want,
		Found:  found,
		HasPos: true,
		Pos:    found.Pos,
		Span:   found.Span,
	}
}

func errUnexpected(code diag.Code, found token.Token) *Error {
	return &Error{
		Kind:   UnexpectedToken,
		Code:   code,
		Found:  found,
		HasPos: true,
		Pos:    found.Pos,
		Span:   found.Span,
	}
}
