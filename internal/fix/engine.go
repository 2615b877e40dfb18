package fix

import (
	"errors"
	"fmt"
	"sort"

	"tally/internal/diag"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// ApplyMode determines selection strategy for fixes.
type ApplyMode uint8

const (
	ApplyModeOnce ApplyMode = iota
	ApplyModeAll
	ApplyModeID
)

// ApplyOptions configures how fixes are selected.
type ApplyOptions struct {
	Mode     ApplyMode
	TargetID string
}

// AppliedFix records a successfully applied fix.
type AppliedFix struct {
	ID            string
	Title         string
	Code          diag.Code
	Message       string
	Applicability diag.FixApplicability
	EditCount     int
}

// SkippedFix captures a skipped or failed fix with a reason.
type SkippedFix struct {
	ID     string
	Title  string
	Reason string
}

// ApplyResult aggregates applied fixes, skipped ones and the new content.
type ApplyResult struct {
	Applied []AppliedFix
	Skipped []SkippedFix
	Content []byte
}

// Candidate is one fix together with the diagnostic that offered it.
type Candidate struct {
	Diag  diag.Diagnostic
	Fix   diag.Fix
	order int
}

// Candidates lists the fixes of diagnostics in application order. Fixes
// without an ID get one derived from the code, the position and the index.
func Candidates(diagnostics []diag.Diagnostic) ([]Candidate, []SkippedFix) {
	cands := make([]Candidate, 0)
	skips := make([]SkippedFix, 0)

	order := 0
	for _, d := range diagnostics {
		for idx, f := range d.Fixes {
			if len(f.Edits) == 0 {
				skips = append(skips, SkippedFix{ID: f.ID, Title: f.Title, Reason: "fix has no edits"})
				continue
			}
			if f.ID == "" {
				f.ID = fmt.Sprintf("%s-%d-%d", d.Code.ID(), d.Primary.Start, idx)
			}
			cands = append(cands, Candidate{Diag: d, Fix: f, order: order})
			order++
		}
	}
	sortCandidates(cands)
	return cands, skips
}

// sortCandidates orders by position, then insertion order, code, preference and ID.
func sortCandidates(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		di, dj := candidates[i].Diag, candidates[j].Diag
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		if candidates[i].order != candidates[j].order {
			return candidates[i].order < candidates[j].order
		}
		if di.Code != dj.Code {
			return di.Code < dj.Code
		}
		if candidates[i].Fix.IsPreferred != candidates[j].Fix.IsPreferred {
			return candidates[i].Fix.IsPreferred
		}
		return candidates[i].Fix.ID < candidates[j].Fix.ID
	})
}

// Apply selects fixes from diagnostics according to opts and applies them to
// content, which must be the text the diagnostics were produced from.
func Apply(content []byte, diagnostics []diag.Diagnostic, opts ApplyOptions) (*ApplyResult, error) {
	result := &ApplyResult{
		Applied: make([]AppliedFix, 0),
		Content: content,
	}
	candidates, buildSkips := Candidates(diagnostics)
	result.Skipped = append(result.Skipped, buildSkips...)
	if len(candidates) == 0 {
		return result, ErrNoFixes
	}

	selected, selectionSkips := selectCandidates(candidates, opts)
	result.Skipped = append(result.Skipped, selectionSkips...)
	if len(selected) == 0 {
		return result, ErrNoFixes
	}

	applied, skipped, out := applyCandidates(content, selected)
	result.Applied = append(result.Applied, applied...)
	result.Skipped = append(result.Skipped, skipped...)
	if len(result.Applied) == 0 {
		return result, ErrNoFixes
	}
	result.Content = out
	return result, nil
}

func selectCandidates(candidates []Candidate, opts ApplyOptions) ([]Candidate, []SkippedFix) {
	switch opts.Mode {
	case ApplyModeID:
		for _, cand := range candidates {
			if cand.Fix.ID == opts.TargetID {
				return []Candidate{cand}, nil
			}
		}
		return nil, []SkippedFix{{ID: opts.TargetID, Reason: "fix id not found"}}
	case ApplyModeAll:
		selected := make([]Candidate, 0, len(candidates))
		skipped := make([]SkippedFix, 0)
		for _, cand := range candidates {
			if cand.Fix.Applicability == diag.FixApplicabilityAlwaysSafe {
				selected = append(selected, cand)
				continue
			}
			skipped = append(skipped, SkippedFix{
				ID:     cand.Fix.ID,
				Title:  cand.Fix.Title,
				Reason: fmt.Sprintf("applicability is %s", cand.Fix.Applicability),
			})
		}
		return selected, skipped
	case ApplyModeOnce:
		// первый безопасный, иначе просто первый
		for _, cand := range candidates {
			if cand.Fix.Applicability == diag.FixApplicabilityAlwaysSafe {
				return []Candidate{cand}, nil
			}
		}
		return candidates[:1], nil
	default:
		return nil, nil
	}
}

type stagedEdit struct {
	diag.TextEdit
	seq int
}

func applyCandidates(content []byte, selected []Candidate) ([]AppliedFix, []SkippedFix, []byte) {
	applied := make([]AppliedFix, 0, len(selected))
	skipped := make([]SkippedFix, 0)
	var accepted []stagedEdit

	for _, cand := range selected {
		reason := ""
		for _, edit := range cand.Fix.Edits {
			start, end := int(edit.Span.Start), int(edit.Span.End)
			if end < start || end > len(content) {
				reason = "edit span out of range"
				break
			}
			if edit.OldText != "" && string(content[start:end]) != edit.OldText {
				reason = "existing text does not match expected content"
				break
			}
			if conflictsWithExisting(accepted, edit) {
				reason = "conflicts with previously applied edits"
				break
			}
		}
		if reason != "" {
			skipped = append(skipped, SkippedFix{ID: cand.Fix.ID, Title: cand.Fix.Title, Reason: reason})
			continue
		}
		for _, edit := range cand.Fix.Edits {
			accepted = append(accepted, stagedEdit{TextEdit: edit, seq: len(accepted)})
		}
		applied = append(applied, AppliedFix{
			ID:            cand.Fix.ID,
			Title:         cand.Fix.Title,
			Code:          cand.Diag.Code,
			Message:       cand.Diag.Message,
			Applicability: cand.Fix.Applicability,
			EditCount:     len(cand.Fix.Edits),
		})
	}
	if len(accepted) == 0 {
		return applied, skipped, content
	}

	// вставки в одну точку идут в порядке принятия
	sort.SliceStable(accepted, func(i, j int) bool {
		if accepted[i].Span.Start != accepted[j].Span.Start {
			return accepted[i].Span.Start < accepted[j].Span.Start
		}
		return accepted[i].seq < accepted[j].seq
	})
	out := make([]byte, 0, len(content)+16)
	cursor := 0
	for _, e := range accepted {
		out = append(out, content[cursor:e.Span.Start]...)
		out = append(out, e.NewText...)
		cursor = int(e.Span.End)
	}
	out = append(out, content[cursor:]...)
	return applied, skipped, out
}

func conflictsWithExisting(existing []stagedEdit, edit diag.TextEdit) bool {
	for _, prev := range existing {
		if spansConflict(prev.TextEdit, edit) {
			return true
		}
	}
	return false
}

// spansConflict reports whether two edits overlap as half-open intervals.
// Two insertions never conflict; an insertion conflicts with a replacement
// that strictly contains its position or starts at it.
func spansConflict(a, b diag.TextEdit) bool {
	aStart, aEnd := a.Span.Start, a.Span.End
	bStart, bEnd := b.Span.Start, b.Span.End

	if aStart == aEnd && bStart == bEnd {
		return false
	}
	if aStart == aEnd {
		return bStart <= aStart && aStart < bEnd
	}
	if bStart == bEnd {
		return aStart <= bStart && bStart < aEnd
	}
	return aStart < bEnd && bStart < aEnd
}
