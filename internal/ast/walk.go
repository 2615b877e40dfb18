package ast

// Inspect traverses the tree rooted at n in depth-first order. If f returns
// false, the children of the current node are skipped.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	switch n := n.(type) {
	case *Program:
		for _, s := range n.Nodes {
			Inspect(s, f)
		}
	case *Let:
		Inspect(n.Value, f)
	case *ExprStmt:
		Inspect(n.X, f)
	case *Binary:
		Inspect(n.LHS, f)
		Inspect(n.RHS, f)
	case *Unary:
		Inspect(n.Operand, f)
	}
}

// Equal reports whether two trees have the same shape and payload.
// Spans and positions are ignored.
func Equal(a, b Node) bool {
	switch a := a.(type) {
	case nil:
		return b == nil
	case *Program:
		b, ok := b.(*Program)
		if !ok || len(a.Nodes) != len(b.Nodes) {
			return false
		}
		for i := range a.Nodes {
			if !Equal(a.Nodes[i], b.Nodes[i]) {
				return false
			}
		}
		return true
	case *Let:
		b, ok := b.(*Let)
		return ok && a.Name == b.Name && Equal(a.Value, b.Value)
	case *ExprStmt:
		b, ok := b.(*ExprStmt)
		return ok && Equal(a.X, b.X)
	case *Ident:
		b, ok := b.(*Ident)
		return ok && a.Name == b.Name
	case *Literal:
		b, ok := b.(*Literal)
		return ok && a.Kind == b.Kind && a.Bool == b.Bool && string(a.Chars) == string(b.Chars)
	case *Binary:
		b, ok := b.(*Binary)
		return ok && a.Op == b.Op && Equal(a.LHS, b.LHS) && Equal(a.RHS, b.RHS)
	case *Unary:
		b, ok := b.(*Unary)
		return ok && a.Op == b.Op && Equal(a.Operand, b.Operand)
	}
	return false
}
