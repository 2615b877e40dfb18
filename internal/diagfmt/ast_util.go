package diagfmt

import (
	"fmt"
	"path/filepath"

	"tally/internal/source"
)

// formatSpan formats a source.Span into a string.
// If fs is non-nil, it resolves the span to start and end positions and returns "startLine:startCol-endLine:endCol".
// If fs is nil, it returns "span(start-end)".
func formatSpan(span source.Span, fs *source.FileSet) string {
	if fs != nil && fs.Get(span.File) != nil {
		start, end := fs.Resolve(span)
		return fmt.Sprintf("%d:%d-%d:%d", start.Line, start.Col, end.Line, end.Col)
	}
	return fmt.Sprintf("span(%d-%d)", span.Start, span.End)
}

func formatPath(f *source.File, fs *source.FileSet, mode PathMode) string {
	if f == nil {
		return "<unknown>"
	}
	// "<inline>" и подобные имена не являются путями
	if f.Flags&source.FileVirtual != 0 && !filepath.IsAbs(f.Path) {
		return f.Path
	}
	return f.FormatPath(mode.name(), fs.BaseDir())
}
