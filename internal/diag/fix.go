package diag

import "tally/internal/source"

// FixApplicability says how much a fix can be trusted without review.
type FixApplicability uint8

const (
	FixApplicabilityAlwaysSafe FixApplicability = iota
	FixApplicabilitySafeWithHeuristics
	FixApplicabilityManualReview
)

func (a FixApplicability) String() string {
	switch a {
	case FixApplicabilityAlwaysSafe:
		return "always-safe"
	case FixApplicabilitySafeWithHeuristics:
		return "safe-with-heuristics"
	case FixApplicabilityManualReview:
		return "manual-review"
	}
	return "unknown"
}

// TextEdit replaces Span with NewText; an empty span inserts.
type TextEdit struct {
	Span    source.Span
	NewText string
	// OldText, если задан, должен совпасть с заменяемым текстом
	OldText string
}

// Fix is a suggested change attached to a diagnostic.
type Fix struct {
	ID            string
	Title         string
	Applicability FixApplicability
	IsPreferred   bool
	Edits         []TextEdit
}

// WithFix appends a fix to the diagnostic.
func (d Diagnostic) WithFix(f Fix) Diagnostic {
	d.Fixes = append(d.Fixes, f)
	return d
}
