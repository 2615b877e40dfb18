package ast

import "tally/internal/source"

// Node is implemented by every tree node.
type Node interface {
	NodeSpan() source.Span
	node()
}

// Stmt is a top-level statement.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// Program is the ordered sequence of top-level statements of one file.
type Program struct {
	Nodes []Stmt
	Span  source.Span
}

func (p *Program) NodeSpan() source.Span { return p.Span }
func (*Program) node()                   {}

// Lets returns the let statements in declaration order.
func (p *Program) Lets() []*Let {
	var out []*Let
	for _, n := range p.Nodes {
		if l, ok := n.(*Let); ok {
			out = append(out, l)
		}
	}
	return out
}
