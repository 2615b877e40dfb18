// Package trace provides the structured tracing (logging) layer of tally.
//
// # Usage
//
// Enable tracing via command-line flags:
//
//	tally check --trace=- --trace-level=phase main.tl
//
// # Architecture
//
//   - Nop: zero-overhead tracer used when tracing is disabled
//   - StreamTracer: immediate write to output (file/stderr), text or NDJSON
//   - RingTracer: circular buffer; when a check fails, the spans of the
//     failed files are dumped (the whole ring below LevelDetail)
//   - MultiTracer: combines multiple tracers
//
// # Levels and scopes
//
// LevelPhase emits driver and pass boundaries (lex, parse, sema), LevelDetail
// adds per-file events, LevelDebug adds one point event per top-level
// statement (ScopeNode).
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopePass, "parse", parentID)
//	defer span.End("")
package trace
