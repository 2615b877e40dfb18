package ast

import (
	"tally/internal/source"
	"tally/internal/token"
)

// BinaryOp enumerates binary operators.
type BinaryOp uint8

const (
	Add BinaryOp = iota
	Sub
	Mult
	Div
	Exp
)

var binaryOpNames = [...]string{Add: "Add", Sub: "Sub", Mult: "Mult", Div: "Div", Exp: "Exp"}
var binaryOpSymbols = [...]string{Add: "+", Sub: "-", Mult: "*", Div: "/", Exp: "^"}

func (op BinaryOp) String() string {
	if int(op) < len(binaryOpNames) {
		return binaryOpNames[op]
	}
	return "BinaryOp(?)"
}

// Symbol returns the source spelling of the operator.
func (op BinaryOp) Symbol() string {
	if int(op) < len(binaryOpSymbols) {
		return binaryOpSymbols[op]
	}
	return "?"
}

// UnaryOp enumerates unary operators.
type UnaryOp uint8

const (
	Negative UnaryOp = iota
)

func (op UnaryOp) String() string {
	if op == Negative {
		return "Negative"
	}
	return "UnaryOp(?)"
}

func (op UnaryOp) Symbol() string {
	if op == Negative {
		return "-"
	}
	return "?"
}

// Ident is a reference to a let binding.
type Ident struct {
	Name string
	Pos  source.Position
	Span source.Span
}

// Literal keeps the raw characters of integer and string literals;
// conversion is left to later stages. Value is the decoded integer.
type Literal struct {
	Kind  token.LitKind
	Chars []rune
	Value uint64
	Bool  bool
	Pos   source.Position
	Span  source.Span
}

// Binary is `LHS Op RHS`.
type Binary struct {
	Op     BinaryOp
	LHS    Expr
	RHS    Expr
	OpPos  source.Position
	OpSpan source.Span
	Span   source.Span
}

// Unary is `Op Operand`.
type Unary struct {
	Op      UnaryOp
	Operand Expr
	Pos     source.Position
	Span    source.Span
}

func (e *Ident) NodeSpan() source.Span   { return e.Span }
func (e *Literal) NodeSpan() source.Span { return e.Span }
func (e *Binary) NodeSpan() source.Span  { return e.Span }
func (e *Unary) NodeSpan() source.Span   { return e.Span }

func (*Ident) node()   {}
func (*Literal) node() {}
func (*Binary) node()  {}
func (*Unary) node()   {}

func (*Ident) exprNode()   {}
func (*Literal) exprNode() {}
func (*Binary) exprNode()  {}
func (*Unary) exprNode()   {}
