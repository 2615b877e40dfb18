package lexer

import "tally/internal/token"

// scanIdentOrKeyword: сначала булевы литералы, затем ключевые слова,
// иначе идентификатор.
func (lx *Lexer) scanIdentOrKeyword(tok token.Token) token.Token {
	name := string(lx.cursor.RetakeWhile(isIdentChar))
	if v, ok := token.LookupBoolean(name); ok {
		tok.Kind = token.Literal
		tok.Lit = token.LitBoolean
		tok.Bool = v
		return tok
	}
	if kw, ok := token.LookupKeyword(name); ok {
		tok.Kind = token.Keyword
		tok.Keyword = kw
		return tok
	}
	tok.Kind = token.Ident
	tok.Text = name
	return tok
}
