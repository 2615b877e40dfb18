package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"tally/internal/project"
	"tally/internal/trace"
)

// activeTracer is the tracer of the current run, kept for panic dumps.
var activeTracer trace.Tracer = trace.Nop

// setupTracing creates the tracer described by cfg and attaches it to the
// command context. The returned cleanup flushes and closes it; on failure a
// ring buffer is dumped to stderr first.
func setupTracing(cmd *cobra.Command, cfg project.TraceConfig) (func(failed bool), error) {
	level, err := trace.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid trace level: %w", err)
	}
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return func(bool) {}, nil
	}
	mode, err := trace.ParseMode(cfg.Mode)
	if err != nil {
		return nil, fmt.Errorf("invalid trace mode: %w", err)
	}

	tracer, err := trace.New(trace.Config{
		Level:      level,
		Mode:       mode,
		OutputPath: cfg.Output,
		RingSize:   cfg.RingSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	activeTracer = tracer

	ctx := trace.WithTracer(cmd.Context(), tracer)
	cmd.SetContext(ctx)
	cmd.Root().SetContext(ctx)

	span, ctx := trace.StartSpan(ctx, trace.ScopeDriver, cmd.CommandPath())
	cmd.SetContext(ctx)

	cleanup := func(failed bool) {
		detail := ""
		if failed {
			detail = "failed"
		}
		span.End(detail)
		if failed {
			dumpTraceRing(cmd.ErrOrStderr(), tracer)
		}
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
		activeTracer = trace.Nop
	}
	return cleanup, nil
}

// dumpTraceRing prints what a ring tracer holds, if there is one. Only the
// spans of failed files are shown when the level recorded them; otherwise
// (phase level, or a panic outside any file) the whole ring is printed.
func dumpTraceRing(w io.Writer, t trace.Tracer) {
	ring, ok := trace.RingOf(t)
	if !ok {
		return
	}
	found, err := ring.DumpFailures(w, trace.FormatText)
	if err == nil && !found {
		fmt.Fprintln(w, "== trace (last events) ==")
		err = ring.Dump(w, trace.FormatText)
	}
	if err != nil {
		fmt.Fprintf(w, "trace: dump error: %v\n", err)
	}
}

// dumpTraceOnPanic dumps the ring buffer and re-panics.
func dumpTraceOnPanic() {
	if r := recover(); r != nil {
		dumpTraceRing(os.Stderr, activeTracer)
		panic(r)
	}
}
