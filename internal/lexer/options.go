package lexer

import (
	"tally/internal/diag"
	"tally/internal/source"
)

type Options struct {
	// Reporter получает предупреждения (неизвестный символ, незакрытая строка).
	// Может быть nil - тогда предупреждения теряются, лексинг продолжается.
	Reporter diag.Reporter
}

func (lx *Lexer) warn(code diag.Code, sp source.Span, msg string, fixes ...diag.Fix) {
	if lx.opts.Reporter == nil {
		return
	}
	b := diag.ReportWarning(lx.opts.Reporter, code, sp, msg)
	for _, f := range fixes {
		b.WithFix(f)
	}
	b.Emit()
}
