package lsp

import (
	"context"

	"tally/internal/ast"
	"tally/internal/diag"
	"tally/internal/driver"
	"tally/internal/sema"
	"tally/internal/source"
)

// analysis is the result of checking one document version. text is the
// normalized source that spans point into.
type analysis struct {
	version int
	text    string
	result  *driver.Result
}

func analyzeDocument(ctx context.Context, uri, text string, version, maxDiagnostics int) *analysis {
	name := uriToPath(uri)
	if name == "" {
		name = uri
	}
	res := driver.CheckSource(ctx, name, []byte(text), driver.Options{MaxDiagnostics: maxDiagnostics})
	return &analysis{
		version: version,
		text:    string(res.File.Content),
		result:  res,
	}
}

func (a *analysis) env() *sema.Env {
	if a == nil || a.result == nil {
		return nil
	}
	return a.result.Env
}

func (a *analysis) program() *ast.Program {
	if a == nil || a.result == nil {
		return nil
	}
	return a.result.Program
}

// diagnostics converts the bag into protocol diagnostics.
func (a *analysis) diagnostics(uri string) []lspDiagnostic {
	if a == nil || a.result == nil {
		return nil
	}
	items := a.result.Bag.Items()
	out := make([]lspDiagnostic, 0, len(items))
	for _, d := range items {
		out = append(out, a.toLSP(uri, d))
	}
	return out
}

func (a *analysis) toLSP(uri string, d diag.Diagnostic) lspDiagnostic {
	ld := lspDiagnostic{
		Range:    rangeForSpan(a.text, d.Primary),
		Severity: severityToLSP(d.Severity),
		Code:     d.Code.ID(),
		Source:   "tally",
		Message:  d.Message,
	}
	for _, note := range d.Notes {
		ld.RelatedInformation = append(ld.RelatedInformation, diagnosticRelatedInformation{
			Location: location{URI: uri, Range: rangeForSpan(a.text, note.Span)},
			Message:  note.Msg,
		})
	}
	return ld
}

func severityToLSP(sev diag.Severity) int {
	switch sev {
	case diag.SevError:
		return 1
	case diag.SevWarning:
		return 2
	default:
		return 3
	}
}

// exprAt returns the innermost expression whose span contains offset.
func exprAt(prog *ast.Program, offset uint32) ast.Expr {
	if prog == nil {
		return nil
	}
	var found ast.Expr
	ast.Inspect(prog, func(n ast.Node) bool {
		if !spanHas(n.NodeSpan(), offset) {
			return false
		}
		if x, ok := n.(ast.Expr); ok {
			found = x
		}
		return true
	})
	return found
}

// letAt returns the let whose name covers offset.
func letAt(prog *ast.Program, offset uint32) *ast.Let {
	if prog == nil {
		return nil
	}
	for _, let := range prog.Lets() {
		if spanHas(let.NameSpan, offset) {
			return let
		}
	}
	return nil
}

// spanHas treats the end as inclusive so a cursor right after a name still hits it.
func spanHas(sp source.Span, offset uint32) bool {
	return sp.Start <= offset && offset <= sp.End && !sp.Empty()
}
