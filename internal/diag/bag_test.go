package diag

import (
	"errors"
	"testing"

	"tally/internal/source"
)

type fakeStageError struct{ d Diagnostic }

func (e fakeStageError) Error() string          { return e.d.Message }
func (e fakeStageError) Diagnostic() Diagnostic { return e.d }

func TestBagLimit(t *testing.T) {
	b := NewBag(2)
	for i := range 3 {
		ok := b.Add(NewError(SynUnexpectedToken, source.Span{Start: uint32(i)}, "x"))
		if i < 2 && !ok {
			t.Fatalf("add %d rejected", i)
		}
		if i == 2 && ok {
			t.Fatalf("add beyond capacity accepted")
		}
	}
	if b.Len() != 2 || !b.HasErrors() {
		t.Fatalf("unexpected bag state: len=%d", b.Len())
	}
}

func TestBagAddError(t *testing.T) {
	b := NewBag(8)
	want := NewError(SemaTypeMismatch, source.Span{Start: 1, End: 4}, "Mismatched types: Integer and String")
	b.AddError(fakeStageError{d: want}, UnknownCode)
	b.AddError(errors.New("disk on fire"), IOLoadFileError)
	if b.AddError(nil, UnknownCode) {
		t.Fatalf("nil error must not be recorded")
	}

	items := b.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Code != SemaTypeMismatch || items[0].Primary != want.Primary {
		t.Fatalf("stage error not converted: %+v", items[0])
	}
	if items[1].Code != IOLoadFileError || items[1].Message != "disk on fire" {
		t.Fatalf("plain error not converted: %+v", items[1])
	}
}

func TestBagSortAndDedup(t *testing.T) {
	b := NewBag(8)
	late := NewError(SynUnexpectedToken, source.Span{Start: 9, End: 10}, "late")
	early := NewWarning(LexUnknownChar, source.Span{Start: 0, End: 1}, "early")
	b.Add(late)
	b.Add(early)
	b.Add(late)

	b.Sort()
	b.Dedup()

	items := b.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 items after dedup, got %d", len(items))
	}
	if items[0].Message != "early" || items[1].Message != "late" {
		t.Fatalf("unexpected order: %q, %q", items[0].Message, items[1].Message)
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(8)
	r := NewDedupReporter(BagReporter{Bag: bag})
	sp := source.Span{Start: 3, End: 4}
	ReportWarning(r, LexUnknownChar, sp, "Unknown character '$'").Emit()
	ReportWarning(r, LexUnknownChar, sp, "Unknown character '$'").Emit()
	ReportWarning(r, LexUnknownChar, source.Span{Start: 5, End: 6}, "Unknown character '$'").Emit()
	if bag.Len() != 2 {
		t.Fatalf("expected 2 unique diagnostics, got %d", bag.Len())
	}
	if bag.HasErrors() || !bag.HasWarnings() {
		t.Fatalf("expected warnings only")
	}
}

func TestCodeStrings(t *testing.T) {
	cases := map[Code]string{
		LexUnknownChar:       "LEX1001",
		SynUnexpectedToken:   "SYN2001",
		SemaUnresolvedSymbol: "SEM3005",
		IOLoadFileError:      "IO4001",
		UnknownCode:          "E0000",
	}
	for code, want := range cases {
		if got := code.ID(); got != want {
			t.Errorf("%d: got %s, want %s", code, got, want)
		}
	}
}

func TestReportBuilderKeepsFixes(t *testing.T) {
	bag := NewBag(8)
	sp := source.Span{Start: 3, End: 4}
	f := Fix{Title: "remove it", Edits: []TextEdit{{Span: sp, OldText: "$"}}}
	ReportWarning(NewDedupReporter(BagReporter{Bag: bag}), LexUnknownChar, sp, "unknown character '$'").WithFix(f).Emit()
	if bag.Len() != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", bag.Len())
	}
	if fixes := bag.Items()[0].Fixes; len(fixes) != 1 || fixes[0].Title != "remove it" {
		t.Fatalf("fix lost: %+v", fixes)
	}

	// обычный Reporter фиксы не видит, но диагностику получает
	plain := NewBag(8)
	ReportWarning(plainReporter{BagReporter{Bag: plain}}, LexUnknownChar, sp, "x").WithFix(f).Emit()
	if plain.Len() != 1 || len(plain.Items()[0].Fixes) != 0 {
		t.Fatalf("unexpected %+v", plain.Items())
	}
}

// plainReporter hides ReportDiagnostic of the wrapped reporter.
type plainReporter struct{ next Reporter }

func (r plainReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	r.next.Report(code, sev, primary, msg, notes)
}
