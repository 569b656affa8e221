// Package server exposes definition lookups over the Language Server
// Protocol on stdio. It only owns document synchronization; every answer
// comes from the cached analysis of the latest full-text snapshot.
package server

import (
	"log/slog"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	glspserver "github.com/tliron/glsp/server"

	"github.com/aledsdavies/dockerdef/internal/snapshot"
	"github.com/aledsdavies/dockerdef/pkgs/document"
	"github.com/aledsdavies/dockerdef/pkgs/errors"
)

// Name is reported to clients in serverInfo
const Name = "dockerdef"

// Server holds the open documents of one client connection
type Server struct {
	store   *snapshot.Store
	logger  *slog.Logger
	version string
	handler protocol.Handler
}

// New creates a server. A nil logger disables logging.
func New(logger *slog.Logger, version string) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		store:   snapshot.NewStore(logger),
		logger:  logger,
		version: version,
	}
	s.handler = protocol.Handler{
		Initialize:             s.initialize,
		Initialized:            s.initialized,
		Shutdown:               s.shutdown,
		SetTrace:               s.setTrace,
		TextDocumentDidOpen:    s.didOpen,
		TextDocumentDidChange:  s.didChange,
		TextDocumentDidClose:   s.didClose,
		TextDocumentDefinition: s.definition,
	}
	return s
}

// RunStdio serves one client over stdin/stdout until it disconnects
func (s *Server) RunStdio() error {
	s.logger.Info("starting language server", "name", Name, "version", s.version)
	return glspserver.NewServer(&s.handler, Name, false).RunStdio()
}

func (s *Server) initialize(_ *glsp.Context, params *protocol.InitializeParams) (any, error) {
	if params.ClientInfo != nil {
		s.logger.Debug("initialize", "client", params.ClientInfo.Name)
	}
	capabilities := s.handler.CreateServerCapabilities()
	capabilities.TextDocumentSync = protocol.TextDocumentSyncKindFull

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    Name,
			Version: &s.version,
		},
	}, nil
}

func (s *Server) initialized(_ *glsp.Context, _ *protocol.InitializedParams) error {
	return nil
}

func (s *Server) shutdown(_ *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func (s *Server) setTrace(_ *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) didOpen(_ *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	doc := params.TextDocument
	s.store.Update(doc.URI, doc.Version, doc.Text)
	return nil
}

func (s *Server) didChange(_ *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI
	// full sync: the last whole-text event is the new snapshot
	for i := len(params.ContentChanges) - 1; i >= 0; i-- {
		switch change := params.ContentChanges[i].(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			s.store.Update(uri, params.TextDocument.Version, change.Text)
			return nil
		case protocol.TextDocumentContentChangeEvent:
			if change.Range == nil {
				s.store.Update(uri, params.TextDocument.Version, change.Text)
				return nil
			}
			s.logger.Debug("ignoring incremental change", "uri", uri)
		}
	}
	return nil
}

func (s *Server) didClose(_ *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.store.Close(params.TextDocument.URI)
	return nil
}

func (s *Server) definition(_ *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	uri := params.TextDocument.URI
	entry, ok := s.store.Get(uri)
	if !ok {
		return nil, errors.NewUnknownDocumentError(uri)
	}
	pos := document.Position{
		Line:      params.Position.Line,
		Character: params.Position.Character,
	}
	loc, ok := entry.Analysis.Definition(pos)
	if !ok {
		s.logger.Debug("no definition", "uri", uri, "position", pos)
		return nil, nil
	}
	return toProtocolLocation(loc), nil
}

func toProtocolLocation(loc document.Location) protocol.Location {
	return protocol.Location{
		URI:   loc.URI,
		Range: toProtocolRange(loc.Range),
	}
}

func toProtocolRange(r document.Range) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: r.Start.Line, Character: r.Start.Character},
		End:   protocol.Position{Line: r.End.Line, Character: r.End.Character},
	}
}
