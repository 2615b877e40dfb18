package diagfmt

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/sanity-io/litter"

	"tally/internal/ast"
	"tally/internal/source"
	"tally/internal/token"
)

type ASTNodeOutput struct {
	Type     string          `json:"type"`
	Kind     string          `json:"kind,omitempty"`
	Span     source.Span     `json:"span"`
	Text     string          `json:"text,omitempty"`
	Children []ASTNodeOutput `json:"children,omitempty"`
	Fields   map[string]any  `json:"fields,omitempty"`
}

// FormatASTPretty prints the program as an indented outline, one node per line.
func FormatASTPretty(w io.Writer, prog *ast.Program, fs *source.FileSet) error {
	header := "Program"
	if f := fs.Get(prog.Span.File); f != nil && len(prog.Nodes) > 0 {
		header = formatPath(f, fs, PathModeAuto)
	}
	if _, err := fmt.Fprintf(w, "%s (span: %s)\n", header, formatSpan(prog.Span, fs)); err != nil {
		return err
	}
	var sb strings.Builder
	for i, stmt := range prog.Nodes {
		isLast := i == len(prog.Nodes)-1
		branch, prefix := "├─ ", "│  "
		if isLast {
			branch, prefix = "└─ ", "   "
		}
		fmt.Fprintf(&sb, "%sStmt[%d]: ", branch, i)
		writeStmtPretty(&sb, stmt, fs, prefix)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeStmtPretty(sb *strings.Builder, stmt ast.Stmt, fs *source.FileSet, prefix string) {
	switch s := stmt.(type) {
	case *ast.Let:
		fmt.Fprintf(sb, "Let (span: %s)\n", formatSpan(s.Span, fs))
		fmt.Fprintf(sb, "%s├─ Name: %s\n", prefix, s.Name)
		fmt.Fprintf(sb, "%s└─ Value: ", prefix)
		writeExprPretty(sb, s.Value, fs, prefix+"   ")
	case *ast.ExprStmt:
		fmt.Fprintf(sb, "ExprStmt (span: %s)\n", formatSpan(s.Span, fs))
		fmt.Fprintf(sb, "%s└─ ", prefix)
		writeExprPretty(sb, s.X, fs, prefix+"   ")
	default:
		sb.WriteString("<invalid>\n")
	}
}

func writeExprPretty(sb *strings.Builder, x ast.Expr, fs *source.FileSet, prefix string) {
	switch x := x.(type) {
	case *ast.Ident:
		fmt.Fprintf(sb, "Ident %s (span: %s)\n", x.Name, formatSpan(x.Span, fs))
	case *ast.Literal:
		fmt.Fprintf(sb, "Literal %s %s (span: %s)\n", x.Kind, ast.Format(x), formatSpan(x.Span, fs))
	case *ast.Unary:
		fmt.Fprintf(sb, "Unary %s (span: %s)\n", x.Op, formatSpan(x.Span, fs))
		fmt.Fprintf(sb, "%s└─ ", prefix)
		writeExprPretty(sb, x.Operand, fs, prefix+"   ")
	case *ast.Binary:
		fmt.Fprintf(sb, "Binary %s (span: %s)\n", x.Op, formatSpan(x.Span, fs))
		fmt.Fprintf(sb, "%s├─ ", prefix)
		writeExprPretty(sb, x.LHS, fs, prefix+"│  ")
		fmt.Fprintf(sb, "%s└─ ", prefix)
		writeExprPretty(sb, x.RHS, fs, prefix+"   ")
	default:
		sb.WriteString("<none>\n")
	}
}

// FormatASTJSON сериализует программу в JSON дерево узлов.
func FormatASTJSON(w io.Writer, prog *ast.Program) error {
	return encodeJSON(w, BuildASTOutput(prog))
}

// BuildASTOutput converts the tree into its JSON shape without encoding it.
func BuildASTOutput(prog *ast.Program) ASTNodeOutput {
	children := make([]ASTNodeOutput, 0, len(prog.Nodes))
	for _, stmt := range prog.Nodes {
		children = append(children, stmtOutput(stmt))
	}
	return ASTNodeOutput{
		Type:     "Program",
		Span:     prog.Span,
		Children: children,
	}
}

func stmtOutput(stmt ast.Stmt) ASTNodeOutput {
	switch s := stmt.(type) {
	case *ast.Let:
		return ASTNodeOutput{
			Type:     "Let",
			Span:     s.Span,
			Text:     s.Name,
			Children: []ASTNodeOutput{exprOutput(s.Value)},
		}
	case *ast.ExprStmt:
		return ASTNodeOutput{
			Type:     "ExprStmt",
			Span:     s.Span,
			Children: []ASTNodeOutput{exprOutput(s.X)},
		}
	}
	return ASTNodeOutput{Type: "Invalid"}
}

func exprOutput(x ast.Expr) ASTNodeOutput {
	switch x := x.(type) {
	case *ast.Ident:
		return ASTNodeOutput{Type: "Ident", Span: x.Span, Text: x.Name}
	case *ast.Literal:
		out := ASTNodeOutput{
			Type: "Literal",
			Kind: x.Kind.String(),
			Span: x.Span,
			Text: string(x.Chars),
		}
		switch x.Kind {
		case token.LitInteger:
			out.Fields = map[string]any{"value": x.Value}
		case token.LitBoolean:
			out.Fields = map[string]any{"value": x.Bool}
		}
		return out
	case *ast.Unary:
		return ASTNodeOutput{
			Type:     "Unary",
			Kind:     x.Op.String(),
			Span:     x.Span,
			Children: []ASTNodeOutput{exprOutput(x.Operand)},
		}
	case *ast.Binary:
		return ASTNodeOutput{
			Type:     "Binary",
			Kind:     x.Op.String(),
			Span:     x.Span,
			Children: []ASTNodeOutput{exprOutput(x.LHS), exprOutput(x.RHS)},
		}
	}
	return ASTNodeOutput{Type: "Invalid"}
}

// FormatASTDump prints the raw Go structure of the tree. Spans and positions
// are left out unless withSpans is set.
func FormatASTDump(w io.Writer, prog *ast.Program, withSpans bool) error {
	opts := litter.Options{
		HidePrivateFields: true,
		HideZeroValues:    true,
		Separator:         " ",
	}
	if !withSpans {
		opts.FieldExclusions = regexp.MustCompile(`^(Span|NameSpan|OpSpan|Pos|NamePos|OpPos)$`)
	}
	_, err := io.WriteString(w, opts.Sdump(prog)+"\n")
	return err
}
