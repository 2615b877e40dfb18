package fix

import (
	"tally/internal/diag"
	"tally/internal/source"
)

// Option mutates fix during construction.
type Option func(*diag.Fix)

// WithApplicability overrides applicability metadata.
func WithApplicability(app diag.FixApplicability) Option {
	return func(f *diag.Fix) {
		f.Applicability = app
	}
}

// Preferred marks fix as preferred suggestion.
func Preferred() Option {
	return func(f *diag.Fix) {
		f.IsPreferred = true
	}
}

// WithID sets stable identifier for fix.
func WithID(id string) Option {
	return func(f *diag.Fix) {
		f.ID = id
	}
}

func build(title string, edits []diag.TextEdit, opts []Option) diag.Fix {
	f := diag.Fix{
		Title:         title,
		Applicability: diag.FixApplicabilityAlwaysSafe,
		Edits:         edits,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&f)
		}
	}
	return f
}

// InsertText creates fix that inserts text at the start of at.
func InsertText(title string, at source.Span, text string, opts ...Option) diag.Fix {
	at.End = at.Start
	return build(title, []diag.TextEdit{{Span: at, NewText: text}}, opts)
}

// InsertAfter inserts text right after span.
func InsertAfter(title string, span source.Span, text string, opts ...Option) diag.Fix {
	span.Start = span.End
	return build(title, []diag.TextEdit{{Span: span, NewText: text}}, opts)
}

// DeleteSpan removes text covered by span; expect guards against stale spans.
func DeleteSpan(title string, span source.Span, expect string, opts ...Option) diag.Fix {
	return build(title, []diag.TextEdit{{Span: span, OldText: expect}}, opts)
}

// ReplaceSpan replaces text covered by span with newText.
func ReplaceSpan(title string, span source.Span, newText, expect string, opts ...Option) diag.Fix {
	return build(title, []diag.TextEdit{{Span: span, NewText: newText, OldText: expect}}, opts)
}
