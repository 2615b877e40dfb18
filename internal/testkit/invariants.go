package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"tally/internal/ast"
	"tally/internal/source"
	"tally/internal/token"
)

// CheckTokenInvariants runs the token stream invariants:
// 1) positions are monotonically non-decreasing
// 2) spans are non-empty, ordered and inside the file content
func CheckTokenInvariants(toks []token.Token, sf *source.File) error {
	if sf == nil {
		return fmt.Errorf("nil file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	for i, tok := range toks {
		if tok.Kind == token.EOF {
			continue
		}
		if tok.Span.File != sf.ID {
			return fmt.Errorf("token %d span file mismatch: got=%d want=%d", i, tok.Span.File, sf.ID)
		}
		if tok.Span.End <= tok.Span.Start {
			return fmt.Errorf("token %d (%s) has empty span %v", i, tok.Describe(), tok.Span)
		}
		if tok.Span.End > lenContent {
			return fmt.Errorf("token %d span end beyond content: %d > %d", i, tok.Span.End, lenContent)
		}
		if i == 0 {
			continue
		}
		prev := toks[i-1]
		if tok.Pos.Before(prev.Pos) {
			return fmt.Errorf("token %d at %s precedes token %d at %s", i, tok.Pos, i-1, prev.Pos)
		}
		if tok.Span.Start < prev.Span.End {
			return fmt.Errorf("token %d span %v overlaps previous %v", i, tok.Span, prev.Span)
		}
	}
	return nil
}

// CheckSpanInvariants runs a minimal set of span invariants on a parsed program:
// 1) every node span is non-empty and points to sf
// 2) child spans are contained in their parent span
// 3) program span covers every statement span
func CheckSpanInvariants(prog *ast.Program, sf *source.File) error {
	if prog == nil || sf == nil {
		return fmt.Errorf("nil program or file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	var check func(n ast.Node, parent source.Span, hasParent bool) error
	check = func(n ast.Node, parent source.Span, hasParent bool) error {
		sp := n.NodeSpan()
		if sp.End <= sp.Start {
			return fmt.Errorf("empty span %v for %s", sp, ast.Format(n))
		}
		if sp.File != sf.ID {
			return fmt.Errorf("span file mismatch: got=%d want=%d", sp.File, sf.ID)
		}
		if sp.End > lenContent {
			return fmt.Errorf("span end beyond content: %d > %d", sp.End, lenContent)
		}
		if hasParent && !parent.Contains(sp) {
			return fmt.Errorf("span %v of %s is outside parent span %v", sp, ast.Format(n), parent)
		}
		var children []ast.Node
		switch n := n.(type) {
		case *ast.Let:
			children = append(children, n.Value)
		case *ast.ExprStmt:
			children = append(children, n.X)
		case *ast.Binary:
			children = append(children, n.LHS, n.RHS)
		case *ast.Unary:
			children = append(children, n.Operand)
		}
		for _, c := range children {
			if err := check(c, sp, true); err != nil {
				return err
			}
		}
		return nil
	}

	for _, stmt := range prog.Nodes {
		if err := check(stmt, prog.Span, len(prog.Nodes) > 0); err != nil {
			return err
		}
	}
	return nil
}

// StripSpans zeroes every span and position in the tree so that trees built
// by hand can be compared structurally with deep.Equal.
func StripSpans(n ast.Node) {
	ast.Inspect(n, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.Program:
			n.Span = source.Span{}
		case *ast.Let:
			n.Span, n.NameSpan = source.Span{}, source.Span{}
			n.Pos, n.NamePos = source.Position{}, source.Position{}
		case *ast.ExprStmt:
			n.Span = source.Span{}
		case *ast.Ident:
			n.Span, n.Pos = source.Span{}, source.Position{}
		case *ast.Literal:
			n.Span, n.Pos = source.Span{}, source.Position{}
		case *ast.Binary:
			n.Span, n.OpSpan = source.Span{}, source.Span{}
			n.OpPos = source.Position{}
		case *ast.Unary:
			n.Span, n.Pos = source.Span{}, source.Position{}
		}
		return true
	})
}
