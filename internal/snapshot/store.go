// Package snapshot caches one analysis per open document, keyed by URI and
// version. An entry is written once per version and replaced wholesale by
// the next one; nothing is ever patched in place.
package snapshot

import (
	"log/slog"
	"sync"

	"github.com/aledsdavies/dockerdef/pkgs/definition"
	"github.com/aledsdavies/dockerdef/pkgs/document"
	"github.com/aledsdavies/dockerdef/pkgs/parser"
)

// Entry is an immutable cached analysis
type Entry struct {
	Version  int32
	Analysis *definition.Analysis
}

// Store maps document URIs to their latest analysis
type Store struct {
	mu      sync.RWMutex
	entries map[string]Entry
	logger  *slog.Logger
}

// NewStore creates an empty store. A nil logger disables logging.
func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{
		entries: make(map[string]Entry),
		logger:  logger,
	}
}

// Update analyzes text as version of uri. A version older than the cached
// one is ignored and the cached entry returned; the same version is only
// analyzed once.
func (s *Store) Update(uri string, version int32, text string) Entry {
	s.mu.RLock()
	cur, ok := s.entries[uri]
	s.mu.RUnlock()
	if ok && cur.Version >= version {
		s.logger.Debug("snapshot unchanged", "uri", uri, "version", version, "cached", cur.Version)
		return cur
	}

	// analyze outside the lock; snapshots are independent
	entry := Entry{
		Version:  version,
		Analysis: definition.Analyze(document.New(uri, text), parser.WithLogger(s.logger)),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.entries[uri]; ok && cur.Version >= version {
		return cur
	}
	s.entries[uri] = entry
	s.logger.Debug("snapshot stored", "uri", uri, "version", version,
		"instructions", len(entry.Analysis.File.Instructions))
	return entry
}

// Get returns the latest analysis of uri
func (s *Store) Get(uri string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[uri]
	return e, ok
}

// Close forgets uri
func (s *Store) Close(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, uri)
}

// Len returns the number of open documents
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
