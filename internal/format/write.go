package format

import (
	"bytes"

	"tally/internal/source"
)

// Writer accumulates formatted output and provides helpers for copying source
// fragments and emitting canonical whitespace.
type Writer struct {
	sf  *source.File
	buf []byte
}

// NewWriter creates a new formatting writer.
func NewWriter(sf *source.File) *Writer {
	return &Writer{
		sf:  sf,
		buf: make([]byte, 0, len(sf.Content)),
	}
}

// Bytes returns the accumulated formatted output.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// WriteString writes s as is.
func (w *Writer) WriteString(s string) {
	w.buf = append(w.buf, s...)
}

// Space writes a single space if the output doesn't already end with whitespace.
func (w *Writer) Space() {
	if len(w.buf) == 0 {
		return
	}
	last := w.buf[len(w.buf)-1]
	if last == ' ' || last == '\n' || last == '\t' {
		return
	}
	w.buf = append(w.buf, ' ')
}

// Newline writes a newline if the output doesn't already end with one.
func (w *Writer) Newline() {
	if len(w.buf) == 0 || w.buf[len(w.buf)-1] != '\n' {
		w.buf = append(w.buf, '\n')
	}
}

// BlankLine makes the output end with an empty line.
func (w *Writer) BlankLine() {
	if len(w.buf) == 0 {
		return
	}
	w.Newline()
	if !bytes.HasSuffix(w.buf, []byte("\n\n")) {
		w.buf = append(w.buf, '\n')
	}
}

// CopySpan copies a span from the source file to the output.
func (w *Writer) CopySpan(sp source.Span) {
	if sp.Empty() || w.sf == nil || sp.File != w.sf.ID {
		return
	}
	w.CopyRange(int(sp.Start), int(sp.End))
}

// CopyRange copies a range of bytes from the source file to the output.
func (w *Writer) CopyRange(start, end int) {
	if w.sf == nil {
		return
	}
	start = max(start, 0)
	end = min(end, len(w.sf.Content))
	if start >= end {
		return
	}
	w.buf = append(w.buf, w.sf.Content[start:end]...)
}

// Source returns the raw bytes of [start, end) clamped to the file.
func (w *Writer) Source(start, end int) []byte {
	start = max(start, 0)
	end = min(end, len(w.sf.Content))
	if start >= end {
		return nil
	}
	return w.sf.Content[start:end]
}
