package testkit

import (
	"testing"

	"tally/internal/ast"
	"tally/internal/source"
	"tally/internal/token"
)

func TestCheckTokenInvariants(t *testing.T) {
	fs := source.NewFileSet()
	sf := fs.Get(fs.AddVirtual("t.tl", []byte("a b")))
	good := []token.Token{
		{Kind: token.Ident, Text: "a", Span: source.Span{File: sf.ID, Start: 0, End: 1}},
		{Kind: token.Ident, Text: "b", Pos: source.Position{Column: 2}, Span: source.Span{File: sf.ID, Start: 2, End: 3}},
	}
	if err := CheckTokenInvariants(good, sf); err != nil {
		t.Fatal(err)
	}
	bad := []token.Token{good[1], good[0]}
	if err := CheckTokenInvariants(bad, sf); err == nil {
		t.Fatalf("expected error for decreasing positions")
	}
}

func TestCheckSpanInvariants(t *testing.T) {
	fs := source.NewFileSet()
	sf := fs.Get(fs.AddVirtual("t.tl", []byte("-x")))
	sp := func(s, e uint32) source.Span { return source.Span{File: sf.ID, Start: s, End: e} }

	prog := &ast.Program{
		Span: sp(0, 2),
		Nodes: []ast.Stmt{&ast.ExprStmt{
			Span: sp(0, 2),
			X:    &ast.Unary{Op: ast.Negative, Span: sp(0, 2), Operand: &ast.Ident{Name: "x", Span: sp(1, 2)}},
		}},
	}
	if err := CheckSpanInvariants(prog, sf); err != nil {
		t.Fatal(err)
	}

	prog.Nodes[0].(*ast.ExprStmt).X.(*ast.Unary).Operand.(*ast.Ident).Span = sp(1, 3)
	if err := CheckSpanInvariants(prog, sf); err == nil {
		t.Fatalf("expected error for child span outside parent")
	}

	StripSpans(prog)
	if prog.Span != (source.Span{}) || prog.Nodes[0].NodeSpan() != (source.Span{}) {
		t.Fatalf("StripSpans left spans behind")
	}
}
