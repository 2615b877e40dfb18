package lexer

import "tally/internal/token"

// scanWhitespace съедает всю непрерывную серию пробелов; первый символ уже прочитан.
func (lx *Lexer) scanWhitespace(tok token.Token) token.Token {
	lx.cursor.SkipWhile(isSpace)
	tok.Kind = token.Whitespace
	return tok
}
