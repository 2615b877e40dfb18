package parser

import (
	"tally/internal/ast"
	"tally/internal/diag"
	"tally/internal/fix"
	"tally/internal/token"
)

// parseLet: "let" Identifier "=" E ";"
func (p *Parser) parseLet() (*ast.Let, error) {
	letTok, err := p.ts.Next()
	if err != nil {
		return nil, err
	}

	// имя обязательно; неверный токен уже съеден, как и в Next
	nameTok, err := p.ts.Next()
	if err != nil {
		return nil, err
	}
	if nameTok.Kind != token.Ident {
		return nil, errExpected(token.Ident, nameTok)
	}

	if _, err := p.ts.Expect(token.Equals); err != nil {
		return nil, withFix(err, fix.InsertAfter("insert '='", nameTok.Span, " =",
			fix.WithApplicability(diag.FixApplicabilitySafeWithHeuristics)))
	}

	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	semi, err := p.ts.Expect(token.Semi)
	if err != nil {
		return nil, withFix(err, fix.InsertAfter("insert missing semicolon", value.NodeSpan(), ";", fix.Preferred()))
	}

	return &ast.Let{
		Name:     nameTok.Text,
		NamePos:  nameTok.Pos,
		NameSpan: nameTok.Span,
		Value:    value,
		Pos:      letTok.Pos,
		Span:     letTok.Span.Cover(semi.Span),
	}, nil
}
