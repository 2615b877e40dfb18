package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestLevelShouldEmit(t *testing.T) {
	cases := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelError, ScopePass, true},
		{LevelError, ScopeFile, false},
		{LevelPhase, ScopePass, true},
		{LevelPhase, ScopeFile, false},
		{LevelDetail, ScopeFile, true},
		{LevelDetail, ScopeNode, false},
		{LevelDebug, ScopeNode, true},
	}
	for _, tc := range cases {
		if got := tc.level.ShouldEmit(tc.scope); got != tc.want {
			t.Errorf("%s.ShouldEmit(%s) = %v, want %v", tc.level, tc.scope, got, tc.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	if l, err := ParseLevel("DEBUG"); err != nil || l != LevelDebug {
		t.Fatalf("ParseLevel(DEBUG) = %v, %v", l, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatNDJSON)

	span := Begin(tr, ScopePass, "parse", 0)
	Point(tr, ScopeNode, "stmt", span.ID(), "ignored at phase level")
	span.WithExtra("nodes", "3").End("ok")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected begin+end, got %d lines:\n%s", len(lines), buf.String())
	}
	var end struct {
		Kind   string            `json:"kind"`
		Name   string            `json:"name"`
		Detail string            `json:"detail"`
		Extra  map[string]string `json:"extra"`
	}
	if err := json.Unmarshal([]byte(lines[1]), &end); err != nil {
		t.Fatal(err)
	}
	if end.Kind != "end" || end.Name != "parse" || end.Detail != "ok" || end.Extra["nodes"] != "3" {
		t.Fatalf("unexpected end event: %+v", end)
	}
}

func TestStreamTracerTextSortsExtra(t *testing.T) {
	ev := &Event{Kind: KindPoint, Scope: ScopeNode, Name: "let", Extra: map[string]string{"b": "2", "a": "1"}}
	got := string(FormatEvent(ev, FormatText))
	if !strings.Contains(got, "• let {a=1, b=2}") {
		t.Fatalf("unexpected text event %q", got)
	}
}

func TestRingTracerWrapsAround(t *testing.T) {
	r := NewRingTracer(2, LevelDebug)
	for _, name := range []string{"a", "b", "c"} {
		r.Emit(&Event{Kind: KindPoint, Scope: ScopeNode, Name: name})
	}
	snap := r.Snapshot()
	if len(snap) != 2 || snap[0].Name != "b" || snap[1].Name != "c" {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	var buf bytes.Buffer
	if err := r.Dump(&buf, FormatText); err != nil {
		t.Fatal(err)
	}
	if strings.Count(buf.String(), "\n") != 2 {
		t.Fatalf("unexpected dump %q", buf.String())
	}
}

func TestMultiTracerFansOut(t *testing.T) {
	var buf bytes.Buffer
	stream := NewStreamTracer(&buf, LevelPhase, FormatText)
	ring := NewRingTracer(8, LevelPhase)
	m := NewMultiTracer(LevelPhase, stream, ring)
	Begin(m, ScopeDriver, "check", 0).End("")

	if len(ring.Snapshot()) != 2 {
		t.Fatalf("ring must receive both events")
	}
	if strings.Count(buf.String(), "\n") != 2 {
		t.Fatalf("stream must receive both events, got %q", buf.String())
	}
	if got, ok := RingOf(m); !ok || got != ring {
		t.Fatalf("RingOf must find the ring tracer")
	}
}

func TestStreamSilentAtErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelError, FormatText)
	Begin(tr, ScopePass, "sema", 0).End("")
	if buf.Len() != 0 {
		t.Fatalf("stream must stay silent at error level, got %q", buf.String())
	}
}

func TestStartSpanPropagatesParent(t *testing.T) {
	ring := NewRingTracer(8, LevelDebug)
	ctx := WithTracer(context.Background(), ring)

	outer, ctx := StartSpan(ctx, ScopeDriver, "outer")
	inner, _ := StartSpan(ctx, ScopePass, "inner")
	inner.End("")
	outer.End("")

	snap := ring.Snapshot()
	if len(snap) != 4 {
		t.Fatalf("expected 4 events, got %d", len(snap))
	}
	if snap[1].Name != "inner" || snap[1].ParentID != outer.ID() {
		t.Fatalf("inner span must be parented to outer: %+v", snap[1])
	}
}

func TestNewOffIsNop(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil {
		t.Fatal(err)
	}
	if tr.Enabled() {
		t.Fatalf("off level must produce a disabled tracer")
	}
	span := Begin(tr, ScopePass, "lex", 0)
	if span.End("") != 0 {
		t.Fatalf("nop span must report zero duration")
	}
	if FromContext(context.Background()) != Nop {
		t.Fatalf("missing tracer must resolve to Nop")
	}
}

func TestSpanEndErr(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatNDJSON)

	Begin(tr, ScopePass, "sema", 0).EndErr(errors.New("1:9: Unknown ident b"))
	Begin(tr, ScopePass, "parse", 0).EndErr(nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 events, got %d:\n%s", len(lines), buf.String())
	}
	var failed, ok struct {
		Detail string            `json:"detail"`
		Extra  map[string]string `json:"extra"`
	}
	if err := json.Unmarshal([]byte(lines[1]), &failed); err != nil {
		t.Fatal(err)
	}
	if failed.Detail != "error" || failed.Extra["err"] != "1:9: Unknown ident b" {
		t.Fatalf("unexpected failed end: %+v", failed)
	}
	if err := json.Unmarshal([]byte(lines[3]), &ok); err != nil {
		t.Fatal(err)
	}
	if ok.Detail != "" || ok.Extra != nil {
		t.Fatalf("unexpected ok end: %+v", ok)
	}
}

func TestGoroutineID(t *testing.T) {
	if goroutineID() == 0 {
		t.Fatal("goroutine id not parsed")
	}
}

func TestRingDumpFailuresShowsFailedFileOnly(t *testing.T) {
	ring := NewRingTracer(64, LevelDebug)
	ctx := WithTracer(context.Background(), ring)

	cmd, ctx := StartSpan(ctx, ScopeDriver, "tally check")
	good, goodCtx := StartSpan(ctx, ScopeFile, "ok.tl")
	lex, _ := StartSpan(goodCtx, ScopePass, "lex-ok")
	lex.End("")
	good.EndErr(nil)

	bad, badCtx := StartSpan(ctx, ScopeFile, "bad.tl")
	sema, semaCtx := StartSpan(badCtx, ScopePass, "sema")
	Point(ring, ScopeNode, "let b", CurrentSpan(semaCtx).SpanID, "1:5")
	semaErr := errors.New("1:9: Unknown ident c")
	sema.EndErr(semaErr)
	bad.EndErr(semaErr)
	cmd.End("failed")

	if failed := ring.FailedFiles(); len(failed) != 1 || failed[0].Name != "bad.tl" {
		t.Fatalf("failed files: %+v", failed)
	}

	var buf bytes.Buffer
	found, err := ring.DumpFailures(&buf, FormatText)
	if err != nil || !found {
		t.Fatalf("found=%v err=%v", found, err)
	}
	out := buf.String()
	for _, want := range []string{"== trace: bad.tl ==", "sema", "let b", "err=1:9: Unknown ident c"} {
		if !strings.Contains(out, want) {
			t.Errorf("dump lacks %q:\n%s", want, out)
		}
	}
	for _, unwanted := range []string{"ok.tl", "lex-ok", "tally check"} {
		if strings.Contains(out, unwanted) {
			t.Errorf("dump has %q:\n%s", unwanted, out)
		}
	}
	// bad.tl: begin+end, sema: begin+end, точка
	if n := strings.Count(out, "\n"); n != 6 {
		t.Fatalf("expected header and 5 events, got %d lines:\n%s", n, out)
	}
}

func TestRingDumpFailuresNeedsFileSpans(t *testing.T) {
	ring := NewRingTracer(16, LevelPhase)
	ctx := WithTracer(context.Background(), ring)
	file, ctx := StartSpan(ctx, ScopeFile, "bad.tl")
	pass, _ := StartSpan(ctx, ScopePass, "parse")
	pass.EndErr(errors.New("boom"))
	file.EndErr(errors.New("boom"))

	var buf bytes.Buffer
	found, err := ring.DumpFailures(&buf, FormatText)
	if err != nil || found || buf.Len() != 0 {
		t.Fatalf("found=%v err=%v out=%q", found, err, buf.String())
	}
}

func TestSubtreeAfterBeginEvicted(t *testing.T) {
	ring := NewRingTracer(3, LevelDebug)
	file := Begin(ring, ScopeFile, "a.tl", 0)
	pass := Begin(ring, ScopePass, "lex", file.ID())
	Point(ring, ScopeNode, "tok", pass.ID(), "")
	pass.End("")
	file.EndErr(errors.New("bad"))

	// в кольце остались: точка, конец lex, конец a.tl
	got := ring.Subtree(file.ID())
	if len(got) != 3 || got[0].Kind != KindPoint || got[2].Name != "a.tl" {
		t.Fatalf("subtree: %+v", got)
	}
}
