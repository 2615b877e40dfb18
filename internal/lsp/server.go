package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"tally/internal/trace"
	"tally/internal/version"
)

var (
	// ErrExit signals a graceful shutdown after receiving "exit".
	ErrExit = errors.New("lsp exit")
	// ErrExitWithoutShutdown signals an "exit" without a preceding "shutdown".
	ErrExitWithoutShutdown = errors.New("lsp exit without shutdown")
)

// ServerOptions configures LSP server behavior.
type ServerOptions struct {
	MaxDiagnostics int
	// Log receives server-side messages; nil discards them.
	Log io.Writer
}

type document struct {
	text     string
	version  int
	analysis *analysis
}

// Server handles stdio JSON-RPC for the tally language server. Every
// document is analyzed on its own, synchronously on change.
type Server struct {
	in     *bufio.Reader
	out    *bufio.Writer
	log    io.Writer
	sendMu sync.Mutex
	mu     sync.Mutex
	docs   map[string]*document

	shutdownRequested bool
	maxDiagnostics    int
	inlayHints        inlayHintConfig
	baseCtx           context.Context
}

// NewServer constructs a new LSP server.
func NewServer(in io.Reader, out io.Writer, opts ServerOptions) *Server {
	maxDiagnostics := opts.MaxDiagnostics
	if maxDiagnostics <= 0 {
		maxDiagnostics = 100
	}
	logw := opts.Log
	if logw == nil {
		logw = io.Discard
	}
	return &Server{
		in:             bufio.NewReader(in),
		out:            bufio.NewWriter(out),
		log:            logw,
		docs:           make(map[string]*document),
		maxDiagnostics: maxDiagnostics,
		inlayHints:     defaultInlayHintConfig(),
		baseCtx:        context.Background(),
	}
}

// Run serves LSP requests until exit or end of input.
func (s *Server) Run(ctx context.Context) error {
	span, ctx := trace.StartSpan(ctx, trace.ScopeDriver, "lsp")
	defer span.End("")
	s.baseCtx = ctx
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		payload, err := readMessage(s.in)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		var msg rpcMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			s.logf("failed to parse message: %v", err)
			if sendErr := s.sendError(nil, codeParseError, "parse error"); sendErr != nil {
				return sendErr
			}
			continue
		}
		if msg.Method == "" {
			continue
		}
		if err := s.handleMessage(&msg); err != nil {
			return err
		}
	}
}

func (s *Server) handleMessage(msg *rpcMessage) error {
	trace.Point(trace.FromContext(s.baseCtx), trace.ScopeFile, msg.Method, trace.CurrentSpan(s.baseCtx).SpanID, "")

	s.mu.Lock()
	shuttingDown := s.shutdownRequested
	s.mu.Unlock()
	if shuttingDown && msg.Method != "exit" {
		if len(msg.ID) > 0 {
			return s.sendError(msg.ID, codeInvalidRequest, "server is shutting down")
		}
		return nil
	}

	switch msg.Method {
	case "initialize":
		return s.handleInitialize(msg)
	case "initialized":
		return nil
	case "shutdown":
		return s.handleShutdown(msg)
	case "exit":
		if shuttingDown {
			return ErrExit
		}
		return ErrExitWithoutShutdown
	case "workspace/didChangeConfiguration":
		return s.handleDidChangeConfiguration(msg)
	case "textDocument/didOpen":
		return s.handleDidOpen(msg)
	case "textDocument/didChange":
		return s.handleDidChange(msg)
	case "textDocument/didSave":
		return s.handleDidSave(msg)
	case "textDocument/didClose":
		return s.handleDidClose(msg)
	case "textDocument/hover":
		return s.handleHover(msg)
	case "textDocument/definition":
		return s.handleDefinition(msg)
	case "textDocument/documentSymbol":
		return s.handleDocumentSymbol(msg)
	case "textDocument/inlayHint":
		return s.handleInlayHint(msg)
	case "textDocument/formatting":
		return s.handleFormatting(msg)
	case "textDocument/codeAction":
		return s.handleCodeAction(msg)
	default:
		if len(msg.ID) > 0 {
			return s.sendError(msg.ID, codeMethodNotFound, "method not found")
		}
		return nil
	}
}

func (s *Server) handleInitialize(msg *rpcMessage) error {
	var params initializeParams
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return s.sendError(msg.ID, codeInvalidParams, "invalid params")
		}
	}
	s.applySettings(params.InitializationOptions)

	result := initializeResult{
		Capabilities: serverCapabilities{
			TextDocumentSync: textDocumentSyncOptions{
				OpenClose: true,
				Change:    2, // incremental
				Save:      saveOptions{IncludeText: true},
			},
			HoverProvider:          true,
			DefinitionProvider:     true,
			DocumentSymbolProvider: true,
			InlayHintProvider:      &inlayHintOptions{},
			FormattingProvider:     true,
			CodeActionProvider:     &codeActionOptions{CodeActionKinds: []string{codeActionQuickFix}},
		},
		ServerInfo: &serverInfo{Name: "tally", Version: version.Version},
	}
	return s.sendResponse(msg.ID, result)
}

func (s *Server) handleShutdown(msg *rpcMessage) error {
	s.mu.Lock()
	s.shutdownRequested = true
	uris := make([]string, 0, len(s.docs))
	for uri := range s.docs {
		uris = append(uris, uri)
	}
	s.docs = make(map[string]*document)
	s.mu.Unlock()
	for _, uri := range uris {
		if err := s.sendPublish(uri, nil, nil); err != nil {
			return err
		}
	}
	return s.sendResponse(msg.ID, nil)
}

func (s *Server) handleDidOpen(msg *rpcMessage) error {
	var params didOpenTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.invalidNotification(msg, err)
	}
	uri := canonicalURI(params.TextDocument.URI)
	if uri == "" {
		return nil
	}
	s.mu.Lock()
	s.docs[uri] = &document{text: params.TextDocument.Text, version: params.TextDocument.Version}
	s.mu.Unlock()
	return s.refresh(uri)
}

func (s *Server) handleDidChange(msg *rpcMessage) error {
	var params didChangeTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.invalidNotification(msg, err)
	}
	uri := canonicalURI(params.TextDocument.URI)
	s.mu.Lock()
	doc, ok := s.docs[uri]
	if ok {
		doc.text = applyChanges(doc.text, params.ContentChanges)
		doc.version = params.TextDocument.Version
	}
	s.mu.Unlock()
	if !ok {
		s.logf("didChange for unknown document %s", uri)
		return nil
	}
	return s.refresh(uri)
}

func (s *Server) handleDidSave(msg *rpcMessage) error {
	var params didSaveTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.invalidNotification(msg, err)
	}
	uri := canonicalURI(params.TextDocument.URI)
	s.mu.Lock()
	doc, ok := s.docs[uri]
	if ok && params.Text != nil {
		doc.text = *params.Text
	}
	s.mu.Unlock()
	if !ok {
		return nil
	}
	return s.refresh(uri)
}

func (s *Server) handleDidClose(msg *rpcMessage) error {
	var params didCloseTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.invalidNotification(msg, err)
	}
	uri := canonicalURI(params.TextDocument.URI)
	s.mu.Lock()
	_, ok := s.docs[uri]
	delete(s.docs, uri)
	s.mu.Unlock()
	if !ok {
		return nil
	}
	return s.sendPublish(uri, nil, nil)
}

// refresh re-analyzes uri and publishes its diagnostics.
func (s *Server) refresh(uri string) error {
	s.mu.Lock()
	doc, ok := s.docs[uri]
	if !ok {
		s.mu.Unlock()
		return nil
	}
	text, ver, maxDiagnostics := doc.text, doc.version, s.maxDiagnostics
	s.mu.Unlock()

	a := analyzeDocument(s.baseCtx, uri, text, ver, maxDiagnostics)

	s.mu.Lock()
	// пока анализировали, мог прийти более новый didChange
	if cur, ok := s.docs[uri]; ok && cur.version == ver {
		cur.analysis = a
	}
	s.mu.Unlock()
	return s.sendPublish(uri, &ver, a.diagnostics(uri))
}

// snapshot returns the latest analysis of uri, nil for unknown documents.
func (s *Server) snapshot(uri string) *analysis {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[canonicalURI(uri)]
	if !ok {
		return nil
	}
	return doc.analysis
}

func (s *Server) invalidNotification(msg *rpcMessage, err error) error {
	if len(msg.ID) > 0 {
		return s.sendError(msg.ID, codeInvalidParams, "invalid params")
	}
	s.logf("%s: invalid params: %v", msg.Method, err)
	return nil
}

func (s *Server) sendResponse(id json.RawMessage, result any) error {
	msg := map[string]any{
		"jsonrpc": "2.0",
		"id":      json.RawMessage(id),
		"result":  result,
	}
	return s.send(msg)
}

func (s *Server) sendError(id json.RawMessage, code int, message string) error {
	if id == nil {
		id = json.RawMessage("null")
	}
	msg := map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"error":   rpcError{Code: code, Message: message},
	}
	return s.send(msg)
}

func (s *Server) sendPublish(uri string, ver *int, list []lspDiagnostic) error {
	if list == nil {
		list = []lspDiagnostic{}
	}
	msg := map[string]any{
		"jsonrpc": "2.0",
		"method":  "textDocument/publishDiagnostics",
		"params": publishDiagnosticsParams{
			URI:         uri,
			Version:     ver,
			Diagnostics: list,
		},
	}
	return s.send(msg)
}

func (s *Server) send(msg any) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	if err := writeMessage(s.out, payload); err != nil {
		return err
	}
	return s.out.Flush()
}

func (s *Server) logf(format string, args ...any) {
	fmt.Fprintf(s.log, "lsp: "+format+"\n", args...)
}
