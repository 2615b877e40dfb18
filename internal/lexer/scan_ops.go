package lexer

import "tally/internal/token"

// Односимвольные операторы и разделители. '/' обрабатывается отдельно
// (может начинать комментарий).
var punct = map[rune]token.Kind{
	'=': token.Equals,
	'+': token.Plus,
	'-': token.Minus,
	'*': token.Asterix,
	'^': token.Hat,
	';': token.Semi,
	'(': token.LSmooth,
	')': token.RSmooth,
}

func lookupPunct(r rune) (token.Kind, bool) {
	k, ok := punct[r]
	return k, ok
}

// scanSlash: "//" начинает комментарий, одиночный '/' это Slash.
func (lx *Lexer) scanSlash(tok token.Token) token.Token {
	if lx.cursor.Eat('/') {
		tok.Kind = token.Comment
		tok.Text = string(lx.cursor.TakeWhile(func(r rune) bool { return r != '\n' }))
		return tok
	}
	tok.Kind = token.Slash
	return tok
}
