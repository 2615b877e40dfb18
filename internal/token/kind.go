package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// EOF marks the end of the source input.
	EOF Kind = iota
	// Keyword is a reserved word, see Token.Keyword.
	Keyword
	// Literal is an integer, string or boolean literal, see Token.Lit.
	Literal
	// Ident represents an identifier token.
	Ident
	Equals  // =
	Plus    // +
	Minus   // -
	Asterix // *
	Slash   // /
	Hat     // ^
	LSmooth // (
	RSmooth // )
	Semi    // ;
	// Comment is a line comment; Text holds everything after "//".
	Comment
	// Whitespace is a contiguous run of ASCII whitespace.
	Whitespace
	// Unknown is any character the lexer does not recognise.
	Unknown
)

var kindNames = [...]string{
	EOF:        "EOF",
	Keyword:    "Keyword",
	Literal:    "Literal",
	Ident:      "Identifier",
	Equals:     "Equals",
	Plus:       "Plus",
	Minus:      "Minus",
	Asterix:    "Asterix",
	Slash:      "Slash",
	Hat:        "Hat",
	LSmooth:    "LSmooth",
	RSmooth:    "RSmooth",
	Semi:       "Semi",
	Comment:    "Comment",
	Whitespace: "Whitespace",
	Unknown:    "Unknown",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}

// LitKind distinguishes the literal flavours.
type LitKind uint8

const (
	LitInteger LitKind = iota
	LitString
	LitBoolean
)

func (k LitKind) String() string {
	switch k {
	case LitInteger:
		return "Integer"
	case LitString:
		return "String"
	case LitBoolean:
		return "Boolean"
	}
	return "LitKind(?)"
}

// KeywordKind enumerates reserved words.
type KeywordKind uint8

const (
	KwNone KeywordKind = iota
	KwLet
)

func (k KeywordKind) String() string {
	switch k {
	case KwLet:
		return "Let"
	}
	return "None"
}
