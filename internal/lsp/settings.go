package lsp

import "encoding/json"

func (s *Server) handleDidChangeConfiguration(msg *rpcMessage) error {
	var params didChangeConfigurationParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.invalidNotification(msg, err)
	}
	s.applySettings(params.Settings)

	s.mu.Lock()
	uris := make([]string, 0, len(s.docs))
	for uri := range s.docs {
		uris = append(uris, uri)
	}
	s.mu.Unlock()
	// лимит диагностик мог поменяться
	for _, uri := range uris {
		if err := s.refresh(uri); err != nil {
			return err
		}
	}
	return nil
}

// applySettings accepts either {"tally": {...}} or the inner object alone.
func (s *Server) applySettings(raw json.RawMessage) {
	if len(raw) == 0 || string(raw) == "null" {
		return
	}
	var wrapped lspSettings
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		s.logf("invalid settings: %v", err)
		return
	}
	cfg := wrapped.Tally
	if cfg == (tallySettings{}) {
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if v := cfg.InlayHints.LetTypes; v != nil {
		s.inlayHints.letTypes = *v
	}
	if v := cfg.InlayHints.HideObvious; v != nil {
		s.inlayHints.hideObvious = *v
	}
	if v := cfg.MaxDiagnostics; v != nil && *v > 0 {
		s.maxDiagnostics = *v
	}
}
