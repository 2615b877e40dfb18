package parser

import (
	"context"
	"strconv"

	"tally/internal/ast"
	"tally/internal/diag"
	"tally/internal/token"
	"tally/internal/trace"
)

// Parser - состояние парсера на один поток токенов
type Parser struct {
	ts     *TokenStream
	tracer trace.Tracer
	spanID uint64 // pass-span "parse", родитель для node-событий
}

func newParser(ctx context.Context, ts *TokenStream) *Parser {
	return &Parser{
		ts:     ts,
		tracer: trace.FromContext(ctx),
		spanID: trace.CurrentSpan(ctx).SpanID,
	}
}

// Parse reads statements until the stream is exhausted. The first error
// aborts the parse and no partial program is returned.
func Parse(ctx context.Context, ts *TokenStream) (*ast.Program, error) {
	span, ctx := trace.StartSpan(ctx, trace.ScopePass, "parse")
	p := newParser(ctx, ts)
	prog, err := p.parseProgram()
	if err != nil {
		span.EndErr(err)
		return nil, err
	}
	span.WithExtra("stmts", strconv.Itoa(len(prog.Nodes))).End("")
	return prog, nil
}

// ParseExpression parses a single expression (rule E) and leaves the
// remaining tokens in ts.
func ParseExpression(ctx context.Context, ts *TokenStream) (ast.Expr, error) {
	return newParser(ctx, ts).parseExpression()
}

// parseProgram - основной цикл верхнего уровня.
func (p *Parser) parseProgram() (*ast.Program, error) {
	prog := &ast.Program{}
	for {
		tok, ok := p.ts.Peek()
		if !ok {
			if err := p.ts.Err(); err != nil {
				return nil, err
			}
			return prog, nil
		}

		var (
			stmt ast.Stmt
			err  error
		)
		switch {
		case tok.IsKeyword(token.KwLet):
			stmt, err = p.parseLet()
		case tok.Kind == token.Comment:
			// комментарии молча пропускаем
			p.ts.Next() //nolint:errcheck // токен уже есть в look
			continue
		case tok.StartsExpression():
			stmt, err = p.parseExprStmt()
		default:
			return nil, errUnexpected(diag.SynUnexpectedTopLevel, tok)
		}
		if err != nil {
			return nil, err
		}

		p.traceStmt(stmt)
		if len(prog.Nodes) == 0 {
			prog.Span = stmt.NodeSpan()
		} else {
			prog.Span = prog.Span.Cover(stmt.NodeSpan())
		}
		prog.Nodes = append(prog.Nodes, stmt)
	}
}

// parseExprStmt: E [";"]
func (p *Parser) parseExprStmt() (*ast.ExprStmt, error) {
	x, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	stmt := &ast.ExprStmt{X: x, Span: x.NodeSpan()}
	if tok, ok := p.ts.Peek(); ok && tok.Kind == token.Semi {
		p.ts.Next() //nolint:errcheck
		stmt.Span = stmt.Span.Cover(tok.Span)
	}
	return stmt, nil
}

func (p *Parser) traceStmt(stmt ast.Stmt) {
	if !p.tracer.Enabled() {
		return
	}
	var name string
	switch s := stmt.(type) {
	case *ast.Let:
		name = "let " + s.Name
	case *ast.ExprStmt:
		name = "expr"
	}
	trace.Point(p.tracer, trace.ScopeNode, name, p.spanID, stmt.NodeSpan().String())
}
