package lsp

import (
	"encoding/json"

	"tally/internal/driver"
)

type documentFormattingParams struct {
	TextDocument textDocumentIdentifier `json:"textDocument"`
}

type textEdit struct {
	Range   lspRange `json:"range"`
	NewText string   `json:"newText"`
}

func (s *Server) handleFormatting(msg *rpcMessage) error {
	var params documentFormattingParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, codeInvalidParams, "invalid params")
	}
	uri := canonicalURI(params.TextDocument.URI)
	s.mu.Lock()
	doc, ok := s.docs[uri]
	text := ""
	if ok {
		text = doc.text
	}
	s.mu.Unlock()
	if !ok {
		return s.sendResponse(msg.ID, nil)
	}
	edits := s.formatEdits(uri, text)
	if edits == nil {
		return s.sendResponse(msg.ID, nil)
	}
	return s.sendResponse(msg.ID, edits)
}

// formatEdits replaces the whole document with its formatted text. Documents
// that do not parse, or are already formatted, need no edits.
func (s *Server) formatEdits(uri, text string) []textEdit {
	name := uriToPath(uri)
	if name == "" {
		name = uri
	}
	res := driver.FormatSource(s.baseCtx, name, []byte(text), driver.FormatOptions{})
	if res.Err != nil {
		s.logf("format %s: %v", uri, res.Err)
		return nil
	}
	if string(res.Formatted) == text {
		return nil
	}
	return []textEdit{{
		Range: lspRange{
			Start: position{},
			End:   positionForOffset(text, len(text)),
		},
		NewText: string(res.Formatted),
	}}
}
