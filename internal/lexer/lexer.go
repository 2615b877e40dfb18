package lexer

import (
	"context"
	"fmt"
	"iter"
	"strconv"

	"tally/internal/diag"
	"tally/internal/fix"
	"tally/internal/source"
	"tally/internal/token"
	"tally/internal/trace"
)

// Lexer produces tokens lazily, one per Next call. It emits whitespace
// and comments as tokens; filtering them is up to the caller.
type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	err    error // фатальная ошибка, после неё поток остановлен
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
	}
}

// Next возвращает следующий токен. После конца ввода всегда возвращает EOF,
// после фатальной ошибки всегда возвращает ту же ошибку.
func (lx *Lexer) Next() (token.Token, error) {
	if lx.err != nil {
		return token.Token{}, lx.err
	}

	start := lx.cursor.Mark()
	ch, pos, ok := lx.cursor.Advance()
	if !ok {
		return token.Token{Kind: token.EOF, Pos: pos, Span: lx.cursor.SpanFrom(start)}, nil
	}

	tok := token.Token{Pos: pos}
	var err error
	switch {
	case ch == '/':
		tok = lx.scanSlash(tok)
	case isSpace(ch):
		tok = lx.scanWhitespace(tok)
	case isDigit(ch):
		tok, err = lx.scanNumber(start, tok)
	case isIdentChar(ch):
		tok = lx.scanIdentOrKeyword(tok)
	case ch == '"':
		tok = lx.scanString(start, tok)
	default:
		if kind, isPunct := lookupPunct(ch); isPunct {
			tok.Kind = kind
			break
		}
		tok.Kind = token.Unknown
		tok.Text = string(ch)
		sp := lx.cursor.SpanFrom(start)
		lx.warn(diag.LexUnknownChar, sp, fmt.Sprintf("unknown character %q", ch),
			fix.DeleteSpan("remove unknown character", sp, string(ch),
				fix.WithApplicability(diag.FixApplicabilitySafeWithHeuristics), fix.Preferred()))
	}
	if err != nil {
		lx.err = err
		return token.Token{}, err
	}
	tok.Span = lx.cursor.SpanFrom(start)
	return tok, nil
}

// All iterates over the remaining tokens, EOF excluded. A fatal error is
// yielded once and ends the iteration.
func (lx *Lexer) All() iter.Seq2[token.Token, error] {
	return func(yield func(token.Token, error) bool) {
		for {
			tok, err := lx.Next()
			if err != nil {
				yield(token.Token{}, err)
				return
			}
			if tok.Kind == token.EOF {
				return
			}
			if !yield(tok, nil) {
				return
			}
		}
	}
}

// Tokenize lexes the whole file. Tokens produced before a fatal error are
// returned together with it.
func Tokenize(file *source.File, opts Options) ([]token.Token, error) {
	lx := New(file, opts)
	var toks []token.Token
	for tok, err := range lx.All() {
		if err != nil {
			return toks, err
		}
		toks = append(toks, tok)
	}
	return toks, nil
}

// TokenizeContext lexes the whole file and keeps the final EOF token, so a
// parser fed from the result can point at the end of input. It records a
// "lex" pass span with the token count.
func TokenizeContext(ctx context.Context, file *source.File, opts Options) ([]token.Token, error) {
	span, _ := trace.StartSpan(ctx, trace.ScopePass, "lex")
	lx := New(file, opts)
	var toks []token.Token
	for {
		tok, err := lx.Next()
		if err != nil {
			span.WithExtra("tokens", strconv.Itoa(len(toks))).End("error")
			return toks, err
		}
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	span.WithExtra("tokens", strconv.Itoa(len(toks))).End("")
	return toks, nil
}
