package lsp

import "encoding/json"

func (s *Server) handleDocumentSymbol(msg *rpcMessage) error {
	var params documentSymbolParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, codeInvalidParams, "invalid params")
	}
	return s.sendResponse(msg.ID, buildDocumentSymbols(s.snapshot(params.TextDocument.URI)))
}

// buildDocumentSymbols lists every let of the last parsed program. Types are
// filled in only when the document type-checked.
func buildDocumentSymbols(a *analysis) []documentSymbol {
	prog := a.program()
	if prog == nil {
		return []documentSymbol{}
	}
	env := a.env()
	lets := prog.Lets()
	out := make([]documentSymbol, 0, len(lets))
	for _, let := range lets {
		sym := documentSymbol{
			Name:           let.Name,
			Kind:           symbolKindVariable,
			Range:          rangeForSpan(a.text, let.Span),
			SelectionRange: rangeForSpan(a.text, let.NameSpan),
		}
		if t, ok := env.Lookup(let.Name); ok {
			sym.Detail = t.String()
		}
		out = append(out, sym)
	}
	return out
}
