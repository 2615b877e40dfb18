package lexer

import (
	"fmt"
	"strconv"

	"tally/internal/diag"
	"tally/internal/token"
)

// scanNumber собирает серию цифр (первая уже прочитана) и проверяет,
// что она помещается в uint64. Сырые символы сохраняются как есть,
// ведущие нули не схлопываются.
func (lx *Lexer) scanNumber(start Mark, tok token.Token) (token.Token, error) {
	chars := lx.cursor.RetakeWhile(isDigit)
	value, err := strconv.ParseUint(string(chars), 10, 64)
	if err != nil {
		return tok, &Error{
			Code: diag.LexBadNumber,
			Msg:  fmt.Sprintf("malformed integer literal %s", string(chars)),
			Pos:  tok.Pos,
			Span: lx.cursor.SpanFrom(start),
			Err:  err,
		}
	}
	tok.Kind = token.Literal
	tok.Lit = token.LitInteger
	tok.Chars = chars
	tok.Value = value
	return tok, nil
}
