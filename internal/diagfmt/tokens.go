package diagfmt

import (
	"fmt"
	"io"

	"tally/internal/source"
	"tally/internal/token"
)

type TokenOutput struct {
	Kind    string      `json:"kind"`
	Literal string      `json:"literal,omitempty"`
	Keyword string      `json:"keyword,omitempty"`
	Text    string      `json:"text,omitempty"`
	Chars   *string     `json:"chars,omitempty"` // декодированные символы литерала
	Pos     string      `json:"pos"`
	Span    source.Span `json:"span"`
}

// FormatTokensPretty выводит токены в человекочитаемом формате
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	for i, tok := range tokens {
		// Получаем позицию токена
		startPos, endPos := fs.Resolve(tok.Span)

		if _, err := fmt.Fprintf(w, "%3d: %-32s at %s (bytes %d:%d-%d:%d)\n",
			i+1, tok.Describe(), tok.Pos,
			startPos.Line, startPos.Col,
			endPos.Line, endPos.Col); err != nil {
			return err
		}

		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}

// FormatTokensJSON выводит токены в JSON формате
func FormatTokensJSON(w io.Writer, tokens []token.Token) error {
	output := make([]TokenOutput, 0, len(tokens))

	for _, tok := range tokens {
		tokenOut := TokenOutput{
			Kind: tok.Kind.String(),
			Text: tok.Text,
			Pos:  tok.Pos.String(),
			Span: tok.Span,
		}
		switch tok.Kind {
		case token.Literal:
			tokenOut.Literal = tok.Lit.String()
			if tok.Lit == token.LitString {
				chars := string(tok.Chars)
				tokenOut.Chars = &chars
			}
		case token.Keyword:
			tokenOut.Keyword = tok.Keyword.String()
		}

		output = append(output, tokenOut)

		if tok.Kind == token.EOF {
			break
		}
	}

	return encodeJSON(w, output)
}
