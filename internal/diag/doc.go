// Package diag defines the diagnostic model shared by the lexer, parser and
// type checker.
//
// A Diagnostic carries a Severity, a stable Code (see codes.go), a short
// message, the primary source.Span and optional notes. Phases never format
// or print diagnostics themselves: they either return a stage error that
// implements Diagnosable, or emit non-fatal findings (warnings) through a
// Reporter.
//
// BagReporter collects emitted diagnostics into a Bag, which supports
// sorting, deduplication and merging. Rendering lives in internal/diagfmt;
// the driver is responsible for turning stage errors into Bag entries via
// Bag.AddError.
//
// Keep the data model deterministic: diagnostics are cached on disk and
// compared in golden tests.
package diag
