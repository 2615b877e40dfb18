package token

var keywords = map[string]KeywordKind{
	"let": KwLet,
}

var booleans = map[string]bool{
	"true":  true,
	"false": false,
}

// LookupKeyword возвращает ключевое слово и true, если ident зарезервирован.
// Ключевые слова регистрозависимые.
func LookupKeyword(ident string) (KeywordKind, bool) {
	k, ok := keywords[ident]
	return k, ok
}

// LookupBoolean reports whether ident is a boolean literal and its value.
func LookupBoolean(ident string) (value, ok bool) {
	value, ok = booleans[ident]
	return value, ok
}
