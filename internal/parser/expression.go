package parser

import (
	"tally/internal/ast"
	"tally/internal/diag"
	"tally/internal/fix"
	"tally/internal/token"
)

var additive = map[token.Kind]ast.BinaryOp{
	token.Plus:  ast.Add,
	token.Minus: ast.Sub,
}

var multiplicative = map[token.Kind]ast.BinaryOp{
	token.Asterix: ast.Mult,
	token.Slash:   ast.Div,
}

// parseExpression: E -> T {("+" | "-") T}
func (p *Parser) parseExpression() (ast.Expr, error) {
	return p.parseLeftAssoc(additive, p.parseTerm)
}

// parseTerm: T -> F {("*" | "/") F}
func (p *Parser) parseTerm() (ast.Expr, error) {
	return p.parseLeftAssoc(multiplicative, p.parseFactor)
}

// parseLeftAssoc сворачивает цепочку operand {op operand} влево.
// На любом другом токене (или конце потока) останавливается, не потребляя его.
func (p *Parser) parseLeftAssoc(ops map[token.Kind]ast.BinaryOp, operand func() (ast.Expr, error)) (ast.Expr, error) {
	expr, err := operand()
	if err != nil {
		return nil, err
	}
	for {
		tok, ok := p.ts.Peek()
		if !ok {
			return expr, nil
		}
		op, isOp := ops[tok.Kind]
		if !isOp {
			return expr, nil
		}
		p.ts.Next() //nolint:errcheck

		rhs, err := operand()
		if err != nil {
			return nil, err
		}
		expr = newBinary(op, tok, expr, rhs)
	}
}

// parseFactor: F -> P ["^" F]
func (p *Parser) parseFactor() (ast.Expr, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	tok, ok := p.ts.Peek()
	if !ok || tok.Kind != token.Hat {
		return base, nil
	}
	p.ts.Next() //nolint:errcheck

	exp, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	return newBinary(ast.Exp, tok, base, exp), nil
}

// parsePrimary: P -> Literal | Identifier | "(" E ")" | "-" T
func (p *Parser) parsePrimary() (ast.Expr, error) {
	tok, err := p.ts.Next()
	if err != nil {
		return nil, err
	}

	switch tok.Kind {
	case token.Literal:
		return &ast.Literal{
			Kind:  tok.Lit,
			Chars: tok.Chars,
			Value: tok.Value,
			Bool:  tok.Bool,
			Pos:   tok.Pos,
			Span:  tok.Span,
		}, nil

	case token.Ident:
		return &ast.Ident{Name: tok.Text, Pos: tok.Pos, Span: tok.Span}, nil

	case token.LSmooth:
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.ts.Expect(token.RSmooth); err != nil {
			return nil, withFix(err, fix.InsertAfter("insert ')'", inner.NodeSpan(), ")"))
		}
		return inner, nil

	case token.Minus:
		// унарный минус связывает слабее умножения: -a*b == -(a*b)
		operand, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{
			Op:      ast.Negative,
			Operand: operand,
			Pos:     tok.Pos,
			Span:    tok.Span.Cover(operand.NodeSpan()),
		}, nil
	}

	return nil, errUnexpected(diag.SynUnexpectedToken, tok)
}

func newBinary(op ast.BinaryOp, opTok token.Token, lhs, rhs ast.Expr) *ast.Binary {
	return &ast.Binary{
		Op:     op,
		LHS:    lhs,
		RHS:    rhs,
		OpPos:  opTok.Pos,
		OpSpan: opTok.Span,
		Span:   lhs.NodeSpan().Cover(rhs.NodeSpan()),
	}
}
