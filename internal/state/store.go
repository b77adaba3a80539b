// Package state holds the application's current site document.
package state

import (
	"context"
	"sync"

	"sitecms/internal/model"
)

// Loader produces a schema-complete document. *sitesync.Client satisfies it.
type Loader interface {
	Load(ctx context.Context) model.SiteContent
}

// Store is the single owner of the in-memory document. It is created empty at
// startup, filled by Refresh and replaced wholesale after every successful save.
// Readers always get a deep copy.
type Store struct {
	mu      sync.RWMutex
	doc     model.SiteContent
	version uint64
	loaded  bool
}

func NewStore() *Store {
	return &Store{}
}

// Current returns a deep copy of the held document and whether anything has been
// loaded yet. Before the first load the defaults are returned.
func (s *Store) Current() (model.SiteContent, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return model.DefaultSiteContent(), false
	}
	return s.doc.Clone(), true
}

// Replace swaps in doc and returns the new version.
func (s *Store) Replace(doc model.SiteContent) uint64 {
	doc = doc.Clone()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = doc
	s.loaded = true
	s.version++
	return s.version
}

// Refresh loads a document through l and replaces the held one. Load never fails, so
// neither does Refresh.
func (s *Store) Refresh(ctx context.Context, l Loader) uint64 {
	return s.Replace(l.Load(ctx))
}

// Version counts replacements; zero means nothing has been loaded.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}
