package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"tally/internal/diag"
	"tally/internal/source"
)

type palette struct {
	err, warn, info, note *color.Color
	bold, gutter, caret   *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgBlue, color.Bold),
		note:   color.New(color.FgCyan, color.Bold),
		bold:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.bold, p.gutter, p.caret} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes с аналогичным форматом.
// Цвет включается опцией.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	pal := newPalette(opts.Color)
	items := bag.Items()
	if opts.Max > 0 && opts.Max < len(items) {
		items = items[:opts.Max]
	}
	for i, d := range items {
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyOne(w, d, fs, opts, pal)
	}
	if hidden := bag.Len() - len(items); hidden > 0 {
		fmt.Fprintf(w, "\n... and %d more\n", hidden)
	}
}

func prettyOne(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, pal palette) {
	f := fs.Get(d.Primary.File)
	start, _ := fs.Resolve(d.Primary)
	fmt.Fprintf(w, "%s: %s %s: %s\n",
		pal.bold.Sprintf("%s:%d:%d", formatPath(f, fs, opts.PathMode), start.Line, start.Col),
		pal.severity(d.Severity).Sprint(d.Severity.String()),
		pal.severity(d.Severity).Sprint(d.Code.ID()),
		d.Message,
	)
	if f != nil {
		writeSnippet(w, f, fs, d.Primary, int(opts.Context), pal)
	}
	if opts.ShowFixes {
		for _, f := range d.Fixes {
			fmt.Fprintf(w, "  %s %s\n", pal.caret.Sprint("help:"), f.Title)
		}
	}
	if !opts.ShowNotes {
		return
	}
	for _, n := range d.Notes {
		nf := fs.Get(n.Span.File)
		ns, _ := fs.Resolve(n.Span)
		fmt.Fprintf(w, "  %s %s:%d:%d: %s\n",
			pal.note.Sprint("note:"), formatPath(nf, fs, opts.PathMode), ns.Line, ns.Col, n.Msg)
		if nf != nil {
			writeSnippet(w, nf, fs, n.Span, 0, pal)
		}
	}
}

// writeSnippet prints the primary line with up to ctxLines of context on
// each side and underlines the span. Multi-line spans are underlined to the
// end of their first line.
func writeSnippet(w io.Writer, f *source.File, fs *source.FileSet, sp source.Span, ctxLines int, pal palette) {
	start, end := fs.Resolve(sp)
	if start.Line == 0 {
		return
	}
	first := int(start.Line) - ctxLines
	if first < 1 {
		first = 1
	}
	last := int(start.Line) + ctxLines
	gutterWidth := len(fmt.Sprint(last))
	blank := strings.Repeat(" ", gutterWidth)

	for ln := first; ln <= last; ln++ {
		text := f.GetLine(uint32(ln)) //nolint:gosec // ln >= 1
		if ln > int(start.Line) && text == "" {
			break
		}
		fmt.Fprintf(w, " %s %s %s\n", pal.gutter.Sprintf("%*d", gutterWidth, ln), pal.gutter.Sprint("|"), text)
		if ln != int(start.Line) {
			continue
		}
		from := clampCol(text, start.Col)
		to := len(text)
		if end.Line == start.Line {
			to = clampCol(text, end.Col)
		}
		fmt.Fprintf(w, " %s %s %s\n", blank, pal.gutter.Sprint("|"), pal.caret.Sprint(underline(text, from, to)))
	}
}

// clampCol converts a 1-based byte column into a byte offset within text.
func clampCol(text string, col uint32) int {
	off := int(col) - 1
	if off < 0 {
		return 0
	}
	if off > len(text) {
		return len(text)
	}
	return off
}

// underline строит строку "   ^~~~" с учётом ширины символов и табов.
func underline(text string, from, to int) string {
	var sb strings.Builder
	for _, r := range text[:from] {
		if r == '\t' {
			sb.WriteByte('\t')
			continue
		}
		sb.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	width := runewidth.StringWidth(text[from:to])
	sb.WriteByte('^')
	if width > 1 {
		sb.WriteString(strings.Repeat("~", width-1))
	}
	return sb.String()
}
