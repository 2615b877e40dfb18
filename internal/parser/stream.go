package parser

import (
	"errors"

	"tally/internal/diag"
	"tally/internal/lexer"
	"tally/internal/token"
)

// TokenStream wraps a token source with one token of lookahead.
// An EOF token or a source error ends the stream.
type TokenStream struct {
	src    func() (token.Token, error)
	look   token.Token
	has    bool  // look заполнен
	done   bool  // источник исчерпан
	err    error // ошибка источника (например, лексическая)
	eof    token.Token
	sawEOF bool // источник отдал EOF с позицией
}

// errExhausted ends a source that has no EOF token to point at.
var errExhausted = errors.New("token source exhausted")

// NewTokenStream creates a stream pulling tokens from src on demand.
func NewTokenStream(src func() (token.Token, error)) *TokenStream {
	return &TokenStream{src: src}
}

// FromSlice creates a stream over already materialised tokens.
func FromSlice(toks []token.Token) *TokenStream {
	i := 0
	return NewTokenStream(func() (token.Token, error) {
		if i >= len(toks) {
			return token.Token{}, errExhausted
		}
		tok := toks[i]
		i++
		return tok, nil
	})
}

// FromLexer creates a lazy stream over lx, dropping whitespace. Comments
// are dropped too unless keepComments is set; the parser skips them at
// top level.
func FromLexer(lx *lexer.Lexer, keepComments bool) *TokenStream {
	return NewTokenStream(func() (token.Token, error) {
		for {
			tok, err := lx.Next()
			if err != nil {
				return tok, err
			}
			if tok.Kind == token.Whitespace || (tok.Kind == token.Comment && !keepComments) {
				continue
			}
			return tok, nil
		}
	})
}

func (ts *TokenStream) fill() {
	if ts.has || ts.done {
		return
	}
	tok, err := ts.src()
	switch {
	case errors.Is(err, errExhausted):
		ts.done = true
	case err != nil:
		ts.err = err
		ts.done = true
	case tok.Kind == token.EOF:
		ts.eof = tok
		ts.sawEOF = true
		ts.done = true
	default:
		ts.look = tok
		ts.has = true
	}
}

// Peek returns the next token without consuming it. It returns false when
// the stream is exhausted or the source failed.
func (ts *TokenStream) Peek() (token.Token, bool) {
	ts.fill()
	return ts.look, ts.has
}

// Next consumes and returns the next token. An exhausted stream fails with
// ExpectedTokenToFollow; a source error is returned as is.
func (ts *TokenStream) Next() (token.Token, error) {
	ts.fill()
	if !ts.has {
		return token.Token{}, ts.endError()
	}
	tok := ts.look
	ts.look, ts.has = token.Token{}, false
	return tok, nil
}

// Expect consumes the next token if it has the given kind. Otherwise the
// token stays in the stream and an ExpectedToken error is returned.
func (ts *TokenStream) Expect(kind token.Kind) (token.Token, error) {
	tok, ok := ts.Peek()
	if !ok {
		return token.Token{}, ts.endError()
	}
	if tok.Kind != kind {
		return token.Token{}, errExpected(kind, tok)
	}
	return ts.Next()
}

// Err returns the error that ended the source, if any.
func (ts *TokenStream) Err() error {
	return ts.err
}

func (ts *TokenStream) endError() error {
	if ts.err != nil {
		return ts.err
	}
	return &Error{
		Kind:   ExpectedTokenToFollow,
		Code:   diag.SynExpectTokenToFollow,
		HasPos: ts.sawEOF,
		Pos:    ts.eof.Pos,
		Span:   ts.eof.Span,
	}
}
