package driver

import (
	"bytes"
	"context"
	"errors"
	"os"

	"tally/internal/diag"
	"tally/internal/fix"
	"tally/internal/trace"
)

// FixOptions configures FixSource and FixFile.
type FixOptions struct {
	Mode     fix.ApplyMode
	TargetID string
	// MaxRounds bounds the check/apply loop of ApplyModeAll; 0 means 16.
	MaxRounds      int
	MaxDiagnostics int
	// Write rewrites the file in place when at least one fix was applied.
	Write bool
}

func (o FixOptions) maxRounds() int {
	if o.MaxRounds <= 0 {
		return 16
	}
	return o.MaxRounds
}

// FixResult is the outcome of fixing one file.
type FixResult struct {
	Path    string
	Before  []byte
	After   []byte
	Applied []fix.AppliedFix
	// Skipped holds what the last round could not apply.
	Skipped []fix.SkippedFix
	Rounds  int
	// Final is the check of After.
	Final *Result
}

// Changed reports whether any fix was applied.
func (r *FixResult) Changed() bool {
	return r != nil && len(r.Applied) > 0
}

// ListFixes checks src and returns every fix the diagnostics offer, with
// the IDs ApplyModeID expects.
func ListFixes(ctx context.Context, name string, src []byte, opts FixOptions) ([]fix.Candidate, *Result) {
	res := CheckSource(ctx, name, src, Options{MaxDiagnostics: opts.MaxDiagnostics})
	cands, _ := fix.Candidates(sortedItems(res.Bag))
	return cands, res
}

// FixSource checks src, applies fixes and checks again. Stages stop at the
// first error, so fixing one problem can expose the next: ApplyModeAll keeps
// going round by round until nothing applies. The other modes do one round.
func FixSource(ctx context.Context, name string, src []byte, opts FixOptions) (*FixResult, error) {
	span, ctx := trace.StartSpan(ctx, trace.ScopeFile, "fix "+name)
	defer span.End("")

	out := &FixResult{Path: name, Before: src, After: src}
	checkOpts := Options{MaxDiagnostics: opts.MaxDiagnostics}
	content := src
	res := CheckSource(ctx, name, content, checkOpts)
	for out.Rounds < opts.maxRounds() {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		applied, err := fix.Apply(res.File.Content, sortedItems(res.Bag), fix.ApplyOptions{
			Mode:     opts.Mode,
			TargetID: opts.TargetID,
		})
		out.Skipped = applied.Skipped
		if err != nil {
			if errors.Is(err, fix.ErrNoFixes) {
				break
			}
			return out, err
		}
		out.Rounds++
		out.Applied = append(out.Applied, applied.Applied...)
		content = applied.Content
		trace.Point(trace.FromContext(ctx), trace.ScopeFile, "fix round", trace.CurrentSpan(ctx).SpanID,
			applied.Applied[0].ID)
		res = CheckSource(ctx, name, content, checkOpts)
		if opts.Mode != fix.ApplyModeAll {
			break
		}
	}
	out.Final = res
	if len(out.Applied) > 0 {
		out.After = content
	}
	return out, nil
}

// FixFile runs FixSource on the file at path.
func FixFile(ctx context.Context, path string, opts FixOptions) (*FixResult, error) {
	// #nosec G304 -- path is provided by the caller
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	res, err := FixSource(ctx, path, src, opts)
	if err != nil {
		return res, err
	}
	if opts.Write && res.Changed() && !bytes.Equal(res.Before, res.After) {
		if err := os.WriteFile(path, res.After, 0o600); err != nil {
			return res, err
		}
	}
	return res, nil
}

func sortedItems(bag *diag.Bag) []diag.Diagnostic {
	if bag == nil {
		return nil
	}
	bag.Sort()
	return bag.Items()
}
