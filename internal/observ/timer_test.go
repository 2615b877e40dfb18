package observ

import (
	"strings"
	"sync"
	"testing"
)

func TestTimerAggregatesByName(t *testing.T) {
	tm := NewTimer()
	tm.Track("lex")("3 tokens")
	tm.Track("parse")("")
	tm.Track("lex")("5 tokens")

	report := tm.Report()
	if len(report.Phases) != 2 {
		t.Fatalf("phases: %+v", report.Phases)
	}
	lex := report.Phases[0]
	if lex.Name != "lex" || lex.Count != 2 || lex.Note != "5 tokens" {
		t.Fatalf("lex: %+v", lex)
	}
	if report.Phases[1].Name != "parse" {
		t.Fatalf("order: %+v", report.Phases)
	}
	if !strings.Contains(tm.Summary(), "(x2)") {
		t.Fatalf("summary:\n%s", tm.Summary())
	}
}

func TestTimerMergeConcurrent(t *testing.T) {
	total := NewTimer()
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := NewTimer()
			local.Track("sema")("")
			total.Merge(local)
		}()
	}
	wg.Wait()
	report := total.Report()
	if len(report.Phases) != 1 || report.Phases[0].Count != 8 {
		t.Fatalf("report: %+v", report)
	}
}

func TestNilTimer(t *testing.T) {
	var tm *Timer
	tm.Track("x")("")
	tm.Merge(NewTimer())
	if r := tm.Report(); len(r.Phases) != 0 {
		t.Fatalf("nil timer must report nothing: %+v", r)
	}
}

func TestEndOutOfRange(t *testing.T) {
	tm := NewTimer()
	tm.End(3, "ignored")
	if r := tm.Report(); len(r.Phases) != 0 {
		t.Fatalf("unexpected phases: %+v", r.Phases)
	}
}
