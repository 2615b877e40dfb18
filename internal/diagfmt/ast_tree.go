package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"tally/internal/ast"
	"tally/internal/source"
)

type treeNode struct {
	label    string
	children []*treeNode
}

type treeBlock struct {
	lines []string
	width int
	root  int
}

// FormatASTTree draws every top-level statement as a top-down ASCII tree.
// The expression 1 + 2 becomes:
//
//	  +
//	/ | \
//	1   2
func FormatASTTree(w io.Writer, prog *ast.Program, fs *source.FileSet) error {
	for i, stmt := range prog.Nodes {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "Stmt[%d] (span: %s)\n", i, formatSpan(stmt.NodeSpan(), fs)); err != nil {
			return err
		}
		for _, line := range renderTree(buildStmtTreeNode(stmt)).lines {
			if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
				return err
			}
		}
	}
	return nil
}

func buildStmtTreeNode(stmt ast.Stmt) *treeNode {
	switch s := stmt.(type) {
	case *ast.Let:
		return &treeNode{
			label:    "let " + s.Name,
			children: []*treeNode{buildExprTreeNode(s.Value)},
		}
	case *ast.ExprStmt:
		return buildExprTreeNode(s.X)
	}
	return &treeNode{label: "<invalid>"}
}

func buildExprTreeNode(x ast.Expr) *treeNode {
	switch x := x.(type) {
	case *ast.Binary:
		return &treeNode{
			label:    x.Op.Symbol(),
			children: []*treeNode{buildExprTreeNode(x.LHS), buildExprTreeNode(x.RHS)},
		}
	case *ast.Unary:
		return &treeNode{
			label:    x.Op.Symbol(),
			children: []*treeNode{buildExprTreeNode(x.Operand)},
		}
	case *ast.Ident, *ast.Literal:
		return &treeNode{label: ast.Format(x)}
	}
	return &treeNode{label: "<none>"}
}

// padTo pads s with spaces up to the given display width.
func padTo(s string, width int) string {
	if w := runewidth.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// renderTree converts a treeNode into a treeBlock containing an ASCII-art representation.
//
// The returned treeBlock.lines is a slice of strings representing the rendered lines of
// the node and its descendants arranged as a tree with connector characters. The block's
// width is the display width of the rendered lines and root is the column index of
// the root node's vertical connector within those lines.
func renderTree(node *treeNode) treeBlock {
	label := node.label
	labelWidth := runewidth.StringWidth(label)

	if len(node.children) == 0 {
		return treeBlock{
			lines: []string{label},
			width: labelWidth,
			root:  labelWidth / 2,
		}
	}

	childBlocks := make([]treeBlock, len(node.children))
	maxChildHeight := 0
	for i, child := range node.children {
		childBlocks[i] = renderTree(child)
		if len(childBlocks[i].lines) > maxChildHeight {
			maxChildHeight = len(childBlocks[i].lines)
		}
	}

	const spacing = 3

	positions := make([]int, len(childBlocks))
	totalWidth := 0
	for i, block := range childBlocks {
		positions[i] = totalWidth + block.root
		totalWidth += block.width
		if i != len(childBlocks)-1 {
			totalWidth += spacing
		}
	}

	childrenCenter := (positions[0] + positions[len(positions)-1]) / 2
	rootPos := labelWidth / 2
	shift := childrenCenter - rootPos

	childPrefix := 0
	if shift < 0 {
		childPrefix = -shift
		for i := range positions {
			positions[i] += childPrefix
		}
		totalWidth += childPrefix
		shift = 0
	} else {
		rootPos += shift
	}

	width := max(totalWidth, shift+labelWidth, rootPos+1)
	rootLine := padTo(strings.Repeat(" ", shift)+label, width)

	connector := []byte(strings.Repeat(" ", width))
	connector[rootPos] = '|'
	for _, pos := range positions {
		switch {
		case pos < rootPos:
			connector[pos] = '/'
		case pos > rootPos:
			connector[pos] = '\\'
		default:
			connector[pos] = '|'
		}
	}

	childLines := make([]string, maxChildHeight)
	for row := range maxChildHeight {
		var sb strings.Builder
		sb.WriteString(strings.Repeat(" ", childPrefix))
		for i, block := range childBlocks {
			line := ""
			if row < len(block.lines) {
				line = block.lines[row]
			}
			sb.WriteString(padTo(line, block.width))
			if i != len(childBlocks)-1 {
				sb.WriteString(strings.Repeat(" ", spacing))
			}
		}
		childLines[row] = padTo(sb.String(), width)
	}

	lines := make([]string, 0, 2+len(childLines))
	lines = append(lines, rootLine, string(connector))
	lines = append(lines, childLines...)

	return treeBlock{
		lines: lines,
		width: width,
		root:  rootPos,
	}
}
