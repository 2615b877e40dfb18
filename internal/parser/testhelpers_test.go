package parser_test

import (
	"context"
	"strconv"
	"testing"

	"tally/internal/ast"
	"tally/internal/lexer"
	"tally/internal/parser"
	"tally/internal/source"
	"tally/internal/token"
)

func lexFile(t *testing.T, src string) (*source.File, []token.Token) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.tl", []byte(src)))
	toks, err := lexer.Tokenize(file, lexer.Options{})
	if err != nil {
		t.Fatalf("lex %q: %v", src, err)
	}
	return file, toks
}

// withoutTrivia повторяет фильтр вызывающей стороны: пробелы и комментарии.
func withoutTrivia(toks []token.Token) []token.Token {
	out := toks[:0:0]
	for _, tok := range toks {
		if !tok.IsTrivia() {
			out = append(out, tok)
		}
	}
	return out
}

func parseSource(t *testing.T, src string) (*ast.Program, error) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.tl", []byte(src)))
	return parser.Parse(context.Background(), parser.FromLexer(lexer.New(file, lexer.Options{}), false))
}

func parseExpr(t *testing.T, src string) ast.Expr {
	t.Helper()
	_, toks := lexFile(t, src)
	expr, err := parser.ParseExpression(context.Background(), parser.FromSlice(withoutTrivia(toks)))
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return expr
}

func lit(s string) *ast.Literal {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		panic(err)
	}
	return &ast.Literal{Kind: token.LitInteger, Chars: []rune(s), Value: v}
}

func ident(name string) *ast.Ident { return &ast.Ident{Name: name} }

func bin(op ast.BinaryOp, lhs, rhs ast.Expr) *ast.Binary {
	return &ast.Binary{Op: op, LHS: lhs, RHS: rhs}
}

func neg(x ast.Expr) *ast.Unary { return &ast.Unary{Op: ast.Negative, Operand: x} }
