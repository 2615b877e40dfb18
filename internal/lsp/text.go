package lsp

import (
	"unicode/utf8"

	"tally/internal/source"
)

// applyChanges applies incremental (or full, when Range is nil) edits in order.
func applyChanges(text string, changes []textDocumentContentChangeEvent) string {
	for _, change := range changes {
		if change.Range == nil {
			text = change.Text
			continue
		}
		start := offsetForPosition(text, change.Range.Start)
		end := max(offsetForPosition(text, change.Range.End), start)
		text = text[:start] + change.Text + text[end:]
	}
	return text
}

// offsetForPosition maps an LSP position (UTF-16 code units) onto a byte
// offset in text. Out-of-range positions clamp to the line or text end.
func offsetForPosition(text string, pos position) int {
	if pos.Line < 0 || pos.Character < 0 {
		return 0
	}
	line := 0
	i := 0
	for i < len(text) && line < pos.Line {
		if text[i] == '\n' {
			line++
		}
		i++
	}
	if line < pos.Line {
		return len(text)
	}
	units := 0
	for i < len(text) && text[i] != '\n' {
		r, size := utf8.DecodeRuneInString(text[i:])
		need := 1
		if r > 0xFFFF {
			need = 2
		}
		if units+need > pos.Character {
			break
		}
		units += need
		i += size
	}
	return i
}

// positionForOffset is the inverse of offsetForPosition.
func positionForOffset(text string, offset int) position {
	offset = min(max(offset, 0), len(text))
	var pos position
	lineStart := 0
	for i := 0; i < offset; i++ {
		if text[i] == '\n' {
			pos.Line++
			lineStart = i + 1
		}
	}
	for i := lineStart; i < offset; {
		r, size := utf8.DecodeRuneInString(text[i:])
		if r > 0xFFFF {
			pos.Character += 2
		} else {
			pos.Character++
		}
		i += size
	}
	return pos
}

func rangeForSpan(text string, span source.Span) lspRange {
	return lspRange{
		Start: positionForOffset(text, int(span.Start)),
		End:   positionForOffset(text, int(span.End)),
	}
}
