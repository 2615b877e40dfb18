package format

import "tally/internal/ast"

// Уровни связывания: E (+ -) < T (* /) < F (^) < P.
const (
	precAdditive = iota + 1
	precMultiplicative
	precPower
	precPrimary
)

func binaryPrec(op ast.BinaryOp) int {
	switch op {
	case ast.Add, ast.Sub:
		return precAdditive
	case ast.Mult, ast.Div:
		return precMultiplicative
	default:
		return precPower
	}
}

func exprPrec(x ast.Expr) int {
	if b, ok := x.(*ast.Binary); ok {
		return binaryPrec(b.Op)
	}
	return precPrimary
}

func (p *printer) printExpr(x ast.Expr) {
	w := p.writer
	switch x := x.(type) {
	case *ast.Ident:
		w.WriteString(x.Name)
	case *ast.Literal:
		w.CopySpan(x.Span)
	case *ast.Unary:
		w.WriteString(x.Op.Symbol())
		// операнд унарного минуса это T, "--" не пишем
		_, nested := x.Operand.(*ast.Unary)
		p.printOperand(x.Operand, nested || exprPrec(x.Operand) < precMultiplicative)
	case *ast.Binary:
		p.printOperand(x.LHS, needParensLeft(x.Op, x.LHS))
		w.WriteString(" " + x.Op.Symbol() + " ")
		p.printOperand(x.RHS, needParensRight(x.Op, x.RHS))
	}
}

func (p *printer) printOperand(x ast.Expr, parens bool) {
	if !parens {
		p.printExpr(x)
		return
	}
	p.writer.WriteString("(")
	p.printExpr(x)
	p.writer.WriteString(")")
}

// needParensLeft: E и T левоассоциативны, у ^ слева только P.
func needParensLeft(op ast.BinaryOp, lhs ast.Expr) bool {
	prec := binaryPrec(op)
	if prec == precPower {
		return exprPrec(lhs) < precPrimary || endsWithUnary(lhs)
	}
	if exprPrec(lhs) < prec {
		return true
	}
	// "-a * b" читается как -(a * b)
	return prec >= precMultiplicative && endsWithUnary(lhs)
}

func needParensRight(op ast.BinaryOp, rhs ast.Expr) bool {
	prec := binaryPrec(op)
	if prec == precPower {
		return exprPrec(rhs) < precPower
	}
	return exprPrec(rhs) <= prec
}

// endsWithUnary reports whether the printed form of x ends in an unparenthesized
// unary minus, which would swallow a following * / or ^.
func endsWithUnary(x ast.Expr) bool {
	switch x := x.(type) {
	case *ast.Unary:
		return true
	case *ast.Binary:
		if needParensRight(x.Op, x.RHS) {
			return false
		}
		return endsWithUnary(x.RHS)
	}
	return false
}
