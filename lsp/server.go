package lsp

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple" // required backend for glsp

	"github.com/lattice-substrate/spanjson/jsonerr"
	"github.com/lattice-substrate/spanjson/jsonparse"
)

const serverName = "jsonspan-lsp"

// Server is a minimal Language Server Protocol server exposing jsonparse's
// diagnostics over textDocument/didOpen and textDocument/didChange.
type Server struct {
	logger  *slog.Logger
	id      uuid.UUID
	handler protocol.Handler
	server  *server.Server

	mu   sync.Mutex
	docs map[string]string
}

// NewServer builds a Server. If logger is nil, slog.Default() is used.
// commonlog is glsp's own required logging hook; this server silences it and
// logs through slog instead, the same split yammm's server uses.
func NewServer(logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	commonlog.Configure(0, nil)

	s := &Server{
		logger: logger.With(slog.String("component", "jsonspan-lsp")),
		id:     uuid.New(),
		docs:   map[string]string{},
	}

	s.handler = protocol.Handler{
		Initialize:            s.initialize,
		Initialized:           s.initialized,
		Shutdown:              s.shutdown,
		TextDocumentDidOpen:   s.textDocumentDidOpen,
		TextDocumentDidChange: s.textDocumentDidChange,
		TextDocumentDidClose:  s.textDocumentDidClose,
	}
	s.server = server.NewServer(&s.handler, serverName, false)

	s.logger.Info("server created", slog.String("session_id", s.id.String()))
	return s
}

// RunStdio runs the server over stdio until the client disconnects.
func (s *Server) RunStdio() error {
	if err := s.server.RunStdio(); err != nil {
		return fmt.Errorf("run stdio: %w", err)
	}
	return nil
}

func (s *Server) initialize(_ *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := s.handler.CreateServerCapabilities()
	syncKind := protocol.TextDocumentSyncKindFull
	if opts, ok := capabilities.TextDocumentSync.(*protocol.TextDocumentSyncOptions); ok {
		opts.Change = &syncKind
	}
	version := "dev"
	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    serverName,
			Version: &version,
		},
	}, nil
}

func (s *Server) initialized(_ *glsp.Context, _ *protocol.InitializedParams) error {
	s.logger.Info("initialized")
	return nil
}

func (s *Server) shutdown(_ *glsp.Context) error {
	s.logger.Info("shutdown")
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	uri := params.TextDocument.URI
	text := params.TextDocument.Text
	s.setDocument(uri, text)
	s.analyzeAndPublish(ctx, uri, text)
	return nil
}

func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI
	var text string
	for _, raw := range params.ContentChanges {
		if whole, ok := raw.(protocol.TextDocumentContentChangeEventWhole); ok {
			text = whole.Text
		}
	}
	s.setDocument(uri, text)
	s.analyzeAndPublish(ctx, uri, text)
	return nil
}

func (s *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI
	s.clearDocument(uri)
	if ctx != nil {
		ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
			URI:         uri,
			Diagnostics: []protocol.Diagnostic{},
		})
	}
	return nil
}

func (s *Server) setDocument(uri, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[uri] = text
}

func (s *Server) clearDocument(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, uri)
}

// analyzeAndPublish parses text and publishes zero or one diagnostic: Parse
// stops at the first fatal error (spec Non-goal: no recovery past it), so
// there is never more than one diagnostic to report per document version.
func (s *Server) analyzeAndPublish(ctx *glsp.Context, uri, text string) {
	if ctx == nil {
		return
	}

	_, err := jsonparse.Parse([]byte(text))
	if err == nil {
		ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
			URI:         uri,
			Diagnostics: []protocol.Diagnostic{},
		})
		return
	}

	var jerr *jsonerr.Error
	if !errors.As(err, &jerr) {
		s.logger.Error("parse failed with non-jsonerr error", slog.String("uri", uri), slog.String("error", err.Error()))
		return
	}

	severity := protocol.DiagnosticSeverityError
	source := "jsonspan"
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI: uri,
		Diagnostics: []protocol.Diagnostic{
			{
				Range:    toLSPRange(text, jerr.Span),
				Severity: &severity,
				Source:   &source,
				Message:  jerr.Message,
			},
		},
	})
}
