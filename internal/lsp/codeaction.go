package lsp

import (
	"encoding/json"
	"strings"

	"tally/internal/diag"
)

const codeActionQuickFix = "quickfix"

type codeActionParams struct {
	TextDocument textDocumentIdentifier `json:"textDocument"`
	Range        lspRange               `json:"range"`
	Context      codeActionContext      `json:"context"`
}

type codeActionContext struct {
	Diagnostics []lspDiagnostic `json:"diagnostics"`
	Only        []string        `json:"only,omitempty"`
}

type codeAction struct {
	Title       string          `json:"title"`
	Kind        string          `json:"kind"`
	Diagnostics []lspDiagnostic `json:"diagnostics,omitempty"`
	IsPreferred bool            `json:"isPreferred,omitempty"`
	Edit        *workspaceEdit  `json:"edit,omitempty"`
}

type workspaceEdit struct {
	Changes map[string][]textEdit `json:"changes"`
}

func (s *Server) handleCodeAction(msg *rpcMessage) error {
	var params codeActionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, codeInvalidParams, "invalid params")
	}
	if !wantsQuickFix(params.Context.Only) {
		return s.sendResponse(msg.ID, []codeAction{})
	}
	uri := canonicalURI(params.TextDocument.URI)
	a := s.snapshot(uri)
	return s.sendResponse(msg.ID, buildCodeActions(a, uri, params.Range))
}

// wantsQuickFix: пустой only значит "всё".
func wantsQuickFix(only []string) bool {
	if len(only) == 0 {
		return true
	}
	for _, kind := range only {
		if kind == codeActionQuickFix || strings.HasPrefix(codeActionQuickFix, kind+".") {
			return true
		}
	}
	return false
}

// buildCodeActions offers the fixes of every diagnostic touching rng. A fix
// whose expected text no longer matches the document is dropped.
func buildCodeActions(a *analysis, uri string, rng lspRange) []codeAction {
	actions := make([]codeAction, 0)
	if a == nil || a.result == nil {
		return actions
	}
	start := offsetForPosition(a.text, rng.Start)
	end := offsetForPosition(a.text, rng.End)
	for _, d := range a.result.Bag.Items() {
		if len(d.Fixes) == 0 || int(d.Primary.End) < start || int(d.Primary.Start) > end {
			continue
		}
		ld := a.toLSP(uri, d)
		for _, f := range d.Fixes {
			edits, ok := a.textEdits(f)
			if !ok {
				continue
			}
			actions = append(actions, codeAction{
				Title:       f.Title,
				Kind:        codeActionQuickFix,
				Diagnostics: []lspDiagnostic{ld},
				IsPreferred: f.IsPreferred,
				Edit:        &workspaceEdit{Changes: map[string][]textEdit{uri: edits}},
			})
		}
	}
	return actions
}

func (a *analysis) textEdits(f diag.Fix) ([]textEdit, bool) {
	if len(f.Edits) == 0 {
		return nil, false
	}
	edits := make([]textEdit, 0, len(f.Edits))
	for _, e := range f.Edits {
		if int(e.Span.End) > len(a.text) || e.Span.Start > e.Span.End {
			return nil, false
		}
		if e.OldText != "" && a.text[e.Span.Start:e.Span.End] != e.OldText {
			return nil, false
		}
		edits = append(edits, textEdit{Range: rangeForSpan(a.text, e.Span), NewText: e.NewText})
	}
	return edits, true
}
