package lsp

import (
	"log/slog"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/Sumatoshi-tech/markerindex/pkg/markerindex"
)

const serverName = "markerindex diagnostics"

// Server is a minimal LSP server that keeps one marker per open diagnostic
// range per document and re-maps them through Index.Splice on every edit
// instead of recomputing diagnostics from scratch.
type Server struct {
	store   *documentStore
	handler protocol.Handler
	log     *slog.Logger
}

// NewServer creates a new diagnostics server with default handlers.
func NewServer(log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}

	srv := &Server{store: newDocumentStore(), log: log}

	srv.handler = protocol.Handler{
		Initialize:            srv.initialize,
		Initialized:           srv.initialized,
		Shutdown:              srv.shutdown,
		SetTrace:              srv.setTrace,
		TextDocumentDidOpen:   srv.didOpen,
		TextDocumentDidChange: srv.didChange,
		TextDocumentDidSave:   srv.didSave,
		TextDocumentDidClose:  srv.didClose,
	}

	return srv
}

// Run starts the LSP server on stdio.
func (srv *Server) Run() error {
	lspServer := server.NewServer(&srv.handler, serverName, false)

	return lspServer.RunStdio()
}

func (srv *Server) initialize(_ *glsp.Context, _ *protocol.InitializeParams) (any, error) {
	capabilities := srv.handler.CreateServerCapabilities()
	version := "0.1.0"

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    serverName,
			Version: &version,
		},
	}, nil
}

func (srv *Server) initialized(_ *glsp.Context, _ *protocol.InitializedParams) error {
	return nil
}

func (srv *Server) shutdown(_ *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)

	return nil
}

func (srv *Server) setTrace(_ *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)

	return nil
}

func (srv *Server) didOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	uri := params.TextDocument.URI
	doc := srv.store.open(uri, params.TextDocument.Text)

	srv.log.Info("document opened", "uri", uri, "markers", len(doc.live()))
	srv.publishDiagnostics(ctx, uri, doc)

	return nil
}

func (srv *Server) didChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI

	doc, ok := srv.store.get(uri)
	if !ok {
		return nil
	}

	newText, ok := fullText(params.ContentChanges)
	if !ok {
		return nil
	}

	doc.applyEdit(newText)
	srv.publishDiagnostics(ctx, uri, doc)

	return nil
}

// fullText extracts the replacement document text from a didChange
// notification using whole-document sync (TextDocumentSyncKindFull).
func fullText(changes []any) (string, bool) {
	if len(changes) == 0 {
		return "", false
	}

	change, ok := changes[0].(map[string]any)
	if !ok {
		return "", false
	}

	text, ok := change["text"].(string)

	return text, ok
}

func (srv *Server) didSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	uri := params.TextDocument.URI

	if doc, ok := srv.store.get(uri); ok {
		srv.publishDiagnostics(ctx, uri, doc)
	}

	return nil
}

func (srv *Server) didClose(_ *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	srv.store.close(params.TextDocument.URI)

	return nil
}

func (srv *Server) publishDiagnostics(ctx *glsp.Context, uri string, doc *document) {
	findings := doc.live()

	diagnostics := make([]protocol.Diagnostic, 0, len(findings))

	severity := protocol.DiagnosticSeverityWarning

	for _, f := range findings {
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    toProtocolRange(f.Range),
			Severity: &severity,
			Message:  f.Message,
			Source:   stringPtr(serverName),
		})
	}

	ctx.Notify("textDocument/publishDiagnostics", &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func toProtocolRange(r markerindex.Range) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: r.Start.Row, Character: r.Start.Column},
		End:   protocol.Position{Line: r.End.Row, Character: r.End.Column},
	}
}

func stringPtr(s string) *string { return &s }
