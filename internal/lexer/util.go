package lexer

// ===== Классификаторы =====

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isAlpha(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
}

// Идентификаторы: только ASCII буквы и '_', цифры в имя не входят.
func isIdentChar(r rune) bool {
	return r == '_' || isAlpha(r)
}

// ASCII whitespace: пробел, \t, \n, \f, \r.
func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\f', '\r':
		return true
	}
	return false
}
