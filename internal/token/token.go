package token

import (
	"fmt"
	"slices"

	"tally/internal/source"
)

// Token represents a single source token with its location.
type Token struct {
	Kind    Kind
	Keyword KeywordKind // Kind == Keyword
	Lit     LitKind     // Kind == Literal
	// Chars holds the unparsed characters of Integer and String literals.
	// For strings they are already unescaped.
	Chars []rune
	Value uint64 // decoded Integer literal
	Bool  bool   // Boolean literal
	// Text is the identifier name, comment body or unknown character.
	Text string
	Pos  source.Position
	Span source.Span
}

// Equal compares tokens by kind and payload; Pos and Span are ignored.
func (t Token) Equal(o Token) bool {
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case Keyword:
		return t.Keyword == o.Keyword
	case Literal:
		if t.Lit != o.Lit {
			return false
		}
		if t.Lit == LitBoolean {
			return t.Bool == o.Bool
		}
		return slices.Equal(t.Chars, o.Chars)
	case Ident, Comment, Unknown:
		return t.Text == o.Text
	}
	return true
}

// IsLiteral reports whether the token is an integer, string or boolean literal.
func (t Token) IsLiteral() bool { return t.Kind == Literal }

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// IsKeyword reports whether the token is the given keyword.
func (t Token) IsKeyword(kw KeywordKind) bool {
	return t.Kind == Keyword && t.Keyword == kw
}

// Describe renders the token kind together with its payload,
// e.g. Identifier(a), Literal(Integer, 90), Keyword(Let).
func (t Token) Describe() string {
	switch t.Kind {
	case Keyword:
		return fmt.Sprintf("Keyword(%s)", t.Keyword)
	case Literal:
		if t.Lit == LitBoolean {
			return fmt.Sprintf("Literal(Boolean, %t)", t.Bool)
		}
		return fmt.Sprintf("Literal(%s, %q)", t.Lit, string(t.Chars))
	case Ident:
		return fmt.Sprintf("Identifier(%s)", t.Text)
	case Comment:
		return fmt.Sprintf("Comment(%q)", t.Text)
	case Unknown:
		return fmt.Sprintf("Unknown(%q)", t.Text)
	}
	return t.Kind.String()
}
