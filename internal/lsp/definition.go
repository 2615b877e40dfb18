package lsp

import (
	"encoding/json"

	"tally/internal/ast"
)

func (s *Server) handleDefinition(msg *rpcMessage) error {
	var params textDocumentPositionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, codeInvalidParams, "invalid params")
	}
	uri := canonicalURI(params.TextDocument.URI)
	loc := buildDefinition(s.snapshot(uri), uri, params.Position)
	if loc == nil {
		return s.sendResponse(msg.ID, nil)
	}
	return s.sendResponse(msg.ID, []location{*loc})
}

// buildDefinition resolves an identifier under pos to the let that binds it.
func buildDefinition(a *analysis, uri string, pos position) *location {
	env := a.env()
	prog := a.program()
	if env == nil || prog == nil {
		return nil
	}
	offset := uint32(offsetForPosition(a.text, pos))
	name := ""
	if let := letAt(prog, offset); let != nil {
		name = let.Name
	} else if id, ok := exprAt(prog, offset).(*ast.Ident); ok {
		name = id.Name
	}
	if name == "" {
		return nil
	}
	b, ok := env.Binding(name)
	if !ok {
		return nil
	}
	return &location{URI: uri, Range: rangeForSpan(a.text, b.Span)}
}
