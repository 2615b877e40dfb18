package format

import (
	"bytes"
	"errors"

	"tally/internal/ast"
	"tally/internal/source"
	"tally/internal/token"
)

type Options struct {
	// MaxBlankLines caps runs of empty lines between statements.
	// Zero means 1; negative drops them all.
	MaxBlankLines int
}

func (o Options) withDefaults() Options {
	if o.MaxBlankLines == 0 {
		o.MaxBlankLines = 1
	}
	return o
}

type printer struct {
	prog     *ast.Program
	comments []source.Span
	writer   *Writer
	opt      Options
}

// FormatFile prints prog, which must be parsed from sf. toks is the full
// token list of sf; its comments decide what is kept between statements
// and which statements are copied verbatim.
func FormatFile(sf *source.File, toks []token.Token, prog *ast.Program, opt Options) ([]byte, error) {
	if sf == nil {
		return nil, errors.New("format: nil source file")
	}
	if prog == nil {
		return nil, errors.New("format: nil program")
	}
	pr := printer{
		prog:   prog,
		writer: NewWriter(sf),
		opt:    opt.withDefaults(),
	}
	for _, tok := range toks {
		if tok.Kind == token.Comment {
			pr.comments = append(pr.comments, tok.Span)
		}
	}
	pr.printProgram()
	return pr.writer.Bytes(), nil
}

func (p *printer) printProgram() {
	contentLen := len(p.writer.sf.Content)
	prev := 0
	for i, stmt := range p.prog.Nodes {
		sp := stmt.NodeSpan()
		start := clampToContent(int(sp.Start), contentLen)
		p.printGap(prev, start, i == 0, false)
		p.printStmt(stmt)
		prev = clampToContent(int(sp.End), contentLen)
	}
	p.printGap(prev, contentLen, len(p.prog.Nodes) == 0, true)
}

// printGap keeps the comments of [start, end). A comment on the same line as
// the previous statement stays there; runs of blank lines are capped.
func (p *printer) printGap(start, end int, leading, trailing bool) {
	w := p.writer
	lines := bytes.Split(w.Source(start, end), []byte("\n"))
	if !leading {
		if c := bytes.TrimSpace(lines[0]); len(c) > 0 {
			w.Space()
			w.buf = append(w.buf, c...)
		}
		lines = lines[1:]
	}
	blank := 0
	for i, line := range lines {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			// хвост промежутка это начало строки следующего оператора
			if i < len(lines)-1 {
				blank++
			}
			continue
		}
		if len(w.buf) > 0 {
			w.Newline()
			p.blankLines(blank)
		}
		blank = 0
		w.buf = append(w.buf, line...)
	}
	if len(w.buf) == 0 {
		return
	}
	w.Newline()
	if !trailing {
		p.blankLines(blank)
	}
}

func (p *printer) blankLines(n int) {
	if min(n, p.opt.MaxBlankLines) > 0 {
		p.writer.BlankLine()
	}
}

func (p *printer) printStmt(stmt ast.Stmt) {
	if p.hasComment(stmt.NodeSpan()) {
		// комментарий внутри оператора потерялся бы при печати
		p.writer.CopySpan(stmt.NodeSpan())
		return
	}
	switch s := stmt.(type) {
	case *ast.Let:
		p.writer.WriteString("let ")
		p.writer.WriteString(s.Name)
		p.writer.WriteString(" = ")
		p.printExpr(s.Value)
		p.writer.WriteString(";")
	case *ast.ExprStmt:
		p.printExpr(s.X)
		p.writer.WriteString(";")
	default:
		p.writer.CopySpan(stmt.NodeSpan())
	}
}

func (p *printer) hasComment(sp source.Span) bool {
	for _, c := range p.comments {
		if c.Start >= sp.Start && c.Start < sp.End {
			return true
		}
	}
	return false
}

func clampToContent(pos, length int) int {
	return min(max(pos, 0), length)
}
