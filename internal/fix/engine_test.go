package fix

import (
	"errors"
	"testing"

	"github.com/go-test/deep"

	"tally/internal/diag"
	"tally/internal/source"
)

func span(start, end uint32) source.Span {
	return source.Span{Start: start, End: end}
}

func withFixes(code diag.Code, primary source.Span, fixes ...diag.Fix) diag.Diagnostic {
	d := diag.NewError(code, primary, "msg")
	for _, f := range fixes {
		d = d.WithFix(f)
	}
	return d
}

func TestApplyOnceTakesFirstSafeFix(t *testing.T) {
	content := []byte("let a = 1\nlet b 2;")
	diags := []diag.Diagnostic{
		withFixes(diag.SynExpectEquals, span(16, 17),
			InsertAfter("insert '='", span(14, 15), " =", WithApplicability(diag.FixApplicabilitySafeWithHeuristics))),
		withFixes(diag.SynExpectSemicolon, span(10, 13), InsertAfter("insert missing semicolon", span(8, 9), ";")),
	}
	res, err := Apply(content, diags, ApplyOptions{Mode: ApplyModeOnce})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := string(res.Content); got != "let a = 1;\nlet b 2;" {
		t.Fatalf("content = %q", got)
	}
	if len(res.Applied) != 1 || res.Applied[0].ID != "SYN2012-10-0" {
		t.Fatalf("applied = %+v", res.Applied)
	}
}

func TestApplyAllSkipsHeuristicFixes(t *testing.T) {
	content := []byte("let a = 1\nlet b 2;")
	diags := []diag.Diagnostic{
		withFixes(diag.SynExpectEquals, span(16, 17),
			InsertAfter("insert '='", span(14, 15), " =", WithApplicability(diag.FixApplicabilitySafeWithHeuristics))),
		withFixes(diag.SynExpectSemicolon, span(10, 13), InsertAfter("insert missing semicolon", span(8, 9), ";")),
	}
	res, err := Apply(content, diags, ApplyOptions{Mode: ApplyModeAll})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := string(res.Content); got != "let a = 1;\nlet b 2;" {
		t.Fatalf("content = %q", got)
	}
	if len(res.Skipped) != 1 || res.Skipped[0].Reason != "applicability is safe-with-heuristics" {
		t.Fatalf("skipped = %+v", res.Skipped)
	}
}

func TestApplyByID(t *testing.T) {
	content := []byte("let a 1;")
	diags := []diag.Diagnostic{
		withFixes(diag.SynExpectEquals, span(6, 7), InsertAfter("insert '='", span(4, 5), " =", WithID("eq"))),
	}
	res, err := Apply(content, diags, ApplyOptions{Mode: ApplyModeID, TargetID: "eq"})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := string(res.Content); got != "let a = 1;" {
		t.Fatalf("content = %q", got)
	}

	_, err = Apply(content, diags, ApplyOptions{Mode: ApplyModeID, TargetID: "nope"})
	if !errors.Is(err, ErrNoFixes) {
		t.Fatalf("expected ErrNoFixes, got %v", err)
	}
}

func TestApplySkipsConflictsAndStaleText(t *testing.T) {
	content := []byte("let a = 1 $ 2;")
	diags := []diag.Diagnostic{
		withFixes(diag.LexUnknownChar, span(10, 11), DeleteSpan("remove", span(10, 11), "$")),
		withFixes(diag.LexUnknownChar, span(10, 11), ReplaceSpan("plus", span(10, 11), "+", "$")),
		withFixes(diag.LexUnknownChar, span(4, 5), DeleteSpan("stale", span(4, 5), "z")),
	}
	res, err := Apply(content, diags, ApplyOptions{Mode: ApplyModeAll})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := string(res.Content); got != "let a = 1  2;" {
		t.Fatalf("content = %q", got)
	}
	reasons := make([]string, 0, len(res.Skipped))
	for _, s := range res.Skipped {
		reasons = append(reasons, s.Title+": "+s.Reason)
	}
	want := []string{
		"stale: existing text does not match expected content",
		"plus: conflicts with previously applied edits",
	}
	if diff := deep.Equal(reasons, want); diff != nil {
		t.Error(diff)
	}
}

func TestApplyInsertionsAtSamePoint(t *testing.T) {
	content := []byte("(1")
	diags := []diag.Diagnostic{
		withFixes(diag.SynUnclosedParen, span(2, 2), InsertAfter("paren", span(1, 2), ")")),
		withFixes(diag.SynExpectSemicolon, span(2, 2), InsertAfter("semi", span(1, 2), ";")),
	}
	res, err := Apply(content, diags, ApplyOptions{Mode: ApplyModeAll})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := string(res.Content); got != "(1);" {
		t.Fatalf("content = %q", got)
	}
}

func TestApplyWithoutFixes(t *testing.T) {
	content := []byte("let a = b;")
	res, err := Apply(content, []diag.Diagnostic{diag.NewError(diag.SemaUnresolvedSymbol, span(8, 9), "unknown")}, ApplyOptions{})
	if !errors.Is(err, ErrNoFixes) {
		t.Fatalf("expected ErrNoFixes, got %v", err)
	}
	if string(res.Content) != string(content) {
		t.Fatalf("content changed: %q", res.Content)
	}
}

func TestSpansConflict(t *testing.T) {
	edit := func(s, e uint32) diag.TextEdit { return diag.TextEdit{Span: span(s, e)} }
	cases := []struct {
		a, b diag.TextEdit
		want bool
	}{
		{edit(1, 1), edit(1, 1), false},
		{edit(1, 1), edit(1, 3), true},
		{edit(3, 3), edit(1, 3), false},
		{edit(1, 3), edit(2, 4), true},
		{edit(1, 3), edit(3, 4), false},
	}
	for _, tc := range cases {
		if got := spansConflict(tc.a, tc.b); got != tc.want {
			t.Errorf("spansConflict(%v, %v) = %v, want %v", tc.a.Span, tc.b.Span, got, tc.want)
		}
	}
}
