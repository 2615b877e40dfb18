package lsp

import (
	"encoding/json"
	"fmt"

	"tally/internal/ast"
	"tally/internal/sema"
)

func (s *Server) handleHover(msg *rpcMessage) error {
	var params textDocumentPositionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, codeInvalidParams, "invalid params")
	}
	a := s.snapshot(params.TextDocument.URI)
	return s.sendResponse(msg.ID, buildHover(a, params.Position))
}

// buildHover describes the let name or expression under pos. Documents that
// did not type-check get no hover.
func buildHover(a *analysis, pos position) *hover {
	env := a.env()
	prog := a.program()
	if env == nil || prog == nil {
		return nil
	}
	offset := uint32(offsetForPosition(a.text, pos))

	if let := letAt(prog, offset); let != nil {
		b, ok := env.Binding(let.Name)
		if !ok {
			return nil
		}
		rng := rangeForSpan(a.text, let.NameSpan)
		return &hover{
			Contents: markdown(fmt.Sprintf("```tally\nlet %s: %s\n```", b.Name, b.Type)),
			Range:    &rng,
		}
	}

	x := exprAt(prog, offset)
	if x == nil {
		return nil
	}
	t, err := sema.TypeOf(env, x)
	if err != nil {
		return nil
	}
	rng := rangeForSpan(a.text, x.NodeSpan())
	if id, ok := x.(*ast.Ident); ok {
		return &hover{
			Contents: markdown(fmt.Sprintf("```tally\n%s: %s\n```", id.Name, t)),
			Range:    &rng,
		}
	}
	return &hover{
		Contents: markdown(fmt.Sprintf("Type: `%s`", t)),
		Range:    &rng,
	}
}

func markdown(value string) markupContent {
	return markupContent{Kind: "markdown", Value: value}
}
