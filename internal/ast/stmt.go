package ast

import "tally/internal/source"

// Let is `let Name = Value;`.
type Let struct {
	Name     string
	NamePos  source.Position
	NameSpan source.Span
	Value    Expr
	Pos      source.Position
	Span     source.Span // от `let` до `;` включительно
}

// ExprStmt is a bare expression at top level.
type ExprStmt struct {
	X    Expr
	Span source.Span
}

func (s *Let) NodeSpan() source.Span      { return s.Span }
func (s *ExprStmt) NodeSpan() source.Span { return s.Span }

func (*Let) node()          {}
func (*ExprStmt) node()     {}
func (*Let) stmtNode()      {}
func (*ExprStmt) stmtNode() {}
