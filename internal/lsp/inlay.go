package lsp

import (
	"encoding/json"

	"tally/internal/ast"
)

// inlayHintKindType is InlayHintKind.Type of the protocol.
const inlayHintKindType = 1

type inlayHintConfig struct {
	letTypes bool
	// hideObvious drops hints for lets bound directly to a literal.
	hideObvious bool
}

func defaultInlayHintConfig() inlayHintConfig {
	return inlayHintConfig{letTypes: true, hideObvious: false}
}

func (s *Server) handleInlayHint(msg *rpcMessage) error {
	var params inlayHintParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, codeInvalidParams, "invalid params")
	}
	s.mu.Lock()
	cfg := s.inlayHints
	s.mu.Unlock()
	hints := buildInlayHints(s.snapshot(params.TextDocument.URI), params.Range, cfg)
	return s.sendResponse(msg.ID, hints)
}

// buildInlayHints places ": Type" right after each let name inside rng.
func buildInlayHints(a *analysis, rng lspRange, cfg inlayHintConfig) []inlayHint {
	hints := []inlayHint{}
	env := a.env()
	prog := a.program()
	if !cfg.letTypes || env == nil || prog == nil {
		return hints
	}
	from := offsetForPosition(a.text, rng.Start)
	to := offsetForPosition(a.text, rng.End)
	for _, let := range prog.Lets() {
		end := int(let.NameSpan.End)
		if end < from || end > to {
			continue
		}
		if cfg.hideObvious {
			if _, lit := let.Value.(*ast.Literal); lit {
				continue
			}
		}
		t, ok := env.Lookup(let.Name)
		if !ok {
			continue
		}
		hints = append(hints, inlayHint{
			Position: positionForOffset(a.text, end),
			Label:    ": " + t.String(),
			Kind:     inlayHintKindType,
		})
	}
	return hints
}
