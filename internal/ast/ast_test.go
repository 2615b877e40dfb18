package ast_test

import (
	"testing"

	"tally/internal/ast"
	"tally/internal/source"
	"tally/internal/token"
)

func intLit(s string) *ast.Literal {
	return &ast.Literal{Kind: token.LitInteger, Chars: []rune(s)}
}

func sample() *ast.Program {
	return &ast.Program{Nodes: []ast.Stmt{
		&ast.Let{Name: "a", Value: intLit("10")},
		&ast.Let{Name: "c", Value: &ast.Binary{
			Op:  ast.Add,
			LHS: &ast.Ident{Name: "a"},
			RHS: &ast.Binary{Op: ast.Mult, LHS: &ast.Ident{Name: "b"}, RHS: intLit("10")},
		}},
		&ast.ExprStmt{X: &ast.Unary{Op: ast.Negative, Operand: &ast.Literal{Kind: token.LitString, Chars: []rune(`q"`)}}},
	}}
}

func TestFormat(t *testing.T) {
	want := "(let a 10)\n(let c (+ a (* b 10)))\n(- \"q\\\"\")"
	if got := ast.Format(sample()); got != want {
		t.Fatalf("got\n%s\nwant\n%s", got, want)
	}
}

func TestEqualIgnoresSpans(t *testing.T) {
	a := sample()
	b := sample()
	b.Nodes[0].(*ast.Let).Span = source.Span{Start: 3, End: 9}
	if !ast.Equal(a, b) {
		t.Fatalf("spans must not affect equality")
	}
	b.Nodes[1].(*ast.Let).Value.(*ast.Binary).Op = ast.Sub
	if ast.Equal(a, b) {
		t.Fatalf("different operators must not be equal")
	}
}

func TestInspectOrderAndPrune(t *testing.T) {
	var visited []string
	ast.Inspect(sample(), func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.Let:
			visited = append(visited, "let:"+n.Name)
			return n.Name != "a"
		case *ast.Ident:
			visited = append(visited, n.Name)
		}
		return true
	})
	want := []string{"let:a", "let:c", "a", "b"}
	if len(visited) != len(want) {
		t.Fatalf("visited %v, want %v", visited, want)
	}
	for i := range want {
		if visited[i] != want[i] {
			t.Fatalf("visited %v, want %v", visited, want)
		}
	}
}

func TestLets(t *testing.T) {
	lets := sample().Lets()
	if len(lets) != 2 || lets[0].Name != "a" || lets[1].Name != "c" {
		t.Fatalf("unexpected lets: %v", lets)
	}
}
