package ast

import (
	"strconv"
	"strings"

	"tally/internal/token"
)

// Format renders a node as a compact S-expression, e.g.
// (let c (+ a (* b 10))).
func Format(n Node) string {
	var b strings.Builder
	writeNode(&b, n)
	return b.String()
}

func writeNode(b *strings.Builder, n Node) {
	switch n := n.(type) {
	case nil:
		b.WriteString("<nil>")
	case *Program:
		for i, s := range n.Nodes {
			if i > 0 {
				b.WriteByte('\n')
			}
			writeNode(b, s)
		}
	case *Let:
		b.WriteString("(let ")
		b.WriteString(n.Name)
		b.WriteByte(' ')
		writeNode(b, n.Value)
		b.WriteByte(')')
	case *ExprStmt:
		writeNode(b, n.X)
	case *Ident:
		b.WriteString(n.Name)
	case *Literal:
		writeLiteral(b, n)
	case *Binary:
		b.WriteByte('(')
		b.WriteString(n.Op.Symbol())
		b.WriteByte(' ')
		writeNode(b, n.LHS)
		b.WriteByte(' ')
		writeNode(b, n.RHS)
		b.WriteByte(')')
	case *Unary:
		b.WriteByte('(')
		b.WriteString(n.Op.Symbol())
		b.WriteByte(' ')
		writeNode(b, n.Operand)
		b.WriteByte(')')
	}
}

func writeLiteral(b *strings.Builder, l *Literal) {
	switch l.Kind {
	case token.LitBoolean:
		b.WriteString(strconv.FormatBool(l.Bool))
	case token.LitString:
		b.WriteString(strconv.Quote(string(l.Chars)))
	default:
		b.WriteString(string(l.Chars))
	}
}
