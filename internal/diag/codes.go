package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Лексические
	LexInfo               Code = 1000
	LexUnknownChar        Code = 1001
	LexUnterminatedString Code = 1002
	LexBadNumber          Code = 1004

	// Парсерные
	SynInfo                Code = 2000
	SynUnexpectedToken     Code = 2001
	SynUnclosedParen       Code = 2006
	SynExpectSemicolon     Code = 2012
	SynExpectEquals        Code = 2018
	SynExpectTokenToFollow Code = 2030
	SynExpectToken         Code = 2031
	SynUnexpectedTopLevel  Code = 2101
	SynExpectIdentifier    Code = 2102

	// Семантические
	SemaInfo             Code = 3000
	SemaError            Code = 3001
	SemaDuplicateSymbol  Code = 3002
	SemaUnresolvedSymbol Code = 3005
	SemaTypeMismatch     Code = 3015

	// IO
	IOLoadFileError Code = 4001
	IOCacheError    Code = 4002
)

var codeDescription = map[Code]string{
	UnknownCode:            "Unknown error",
	LexInfo:                "Lexical information",
	LexUnknownChar:         "Unknown character",
	LexUnterminatedString:  "Unterminated string literal",
	LexBadNumber:           "Malformed integer literal",
	SynInfo:                "Syntax information",
	SynUnexpectedToken:     "Unexpected token",
	SynUnclosedParen:       "Unclosed parenthesis",
	SynExpectSemicolon:     "Expected semicolon",
	SynExpectEquals:        "Expected '=' after let name",
	SynExpectTokenToFollow: "Unexpected end of input",
	SynExpectToken:         "Expected token",
	SynUnexpectedTopLevel:  "Unexpected top-level construct",
	SynExpectIdentifier:    "Expected identifier",
	SemaInfo:               "Semantic information",
	SemaError:              "Semantic error",
	SemaDuplicateSymbol:    "Identifier redeclared",
	SemaUnresolvedSymbol:   "Unknown identifier",
	SemaTypeMismatch:       "Mismatched types",
	IOLoadFileError:        "I/O error",
	IOCacheError:           "Cache error",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
