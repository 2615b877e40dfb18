package lexer

import (
	"bytes"

	"fortio.org/safecast"

	"tally/internal/diag"
	"tally/internal/fix"
	"tally/internal/source"
	"tally/internal/token"
)

// stringStep is the escape state machine for string literals. The state
// says whether the previous character was an unconsumed backslash.
//
//	'\\', not escaped -> Skip, escaped
//	'"',  not escaped -> Stop
//	anything else     -> Take, not escaped
func stringStep(r rune, escaped bool) (Action, bool) {
	switch {
	case r == '\\' && !escaped:
		return Skip, true
	case r == '"' && !escaped:
		return Stop, false
	}
	return Take, false
}

// scanString: открывающая кавычка уже прочитана. Закрывающая кавычка
// потребляется, но в литерал не входит.
func (lx *Lexer) scanString(start Mark, tok token.Token) token.Token {
	tok.Kind = token.Literal
	tok.Lit = token.LitString
	tok.Chars = TakeWhileConfig(&lx.cursor, false, false, stringStep)
	if !lx.cursor.Eat('"') {
		sp := lx.cursor.SpanFrom(start)
		lx.warn(diag.LexUnterminatedString, sp, "unterminated string literal", lx.closeStringFix(sp))
	}
	if tok.Chars == nil {
		tok.Chars = []rune{}
	}
	return tok
}

// closeStringFix closes the literal at the end of its first line: a string
// running to EOF almost always lost its quote there.
func (lx *Lexer) closeStringFix(sp source.Span) diag.Fix {
	at := sp
	if i := bytes.IndexByte(lx.file.Content[sp.Start:sp.End], '\n'); i >= 0 {
		if n, err := safecast.Conv[uint32](i); err == nil {
			at.End = sp.Start + n
		}
	}
	return fix.InsertAfter("close string literal", at, `"`,
		fix.WithApplicability(diag.FixApplicabilitySafeWithHeuristics))
}
