package token

// IsTrivia reports whether the token carries no grammar meaning.
// The driver drops trivia before handing tokens to the parser.
func (t Token) IsTrivia() bool {
	return t.Kind == Whitespace || t.Kind == Comment
}

// StartsExpression reports whether t can begin an expression.
func (t Token) StartsExpression() bool {
	switch t.Kind {
	case Literal, Ident, LSmooth, Minus:
		return true
	}
	return false
}
