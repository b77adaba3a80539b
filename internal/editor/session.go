// Package editor implements the admin editing flow: a working copy of the site
// document, typed mutators over it and a single-flight save.
package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"sitecms/internal/model"
	"sitecms/internal/state"
)

var (
	ErrSaveInProgress = errors.New("editor: a save is already in progress")
	ErrItemNotFound   = errors.New("editor: item not found")
)

// Saver persists a complete document. *sitesync.Client satisfies it.
type Saver interface {
	Save(ctx context.Context, doc model.SiteContent) error
}

// Session is one editor's working copy. Mutators change only the working copy; the
// shared store sees the result after Save succeeds.
type Session struct {
	store  *state.Store
	saver  Saver
	logger *zap.Logger
	now    func() time.Time

	mu      sync.Mutex
	working model.SiteContent
	edits   uint64
	saved   uint64

	saving atomic.Bool
}

type Option func(*Session)

func WithLogger(l *zap.Logger) Option {
	return func(s *Session) { s.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// NewSession starts editing from the store's current document.
func NewSession(store *state.Store, saver Saver, opts ...Option) *Session {
	doc, _ := store.Current()
	s := &Session{
		store:   store,
		saver:   saver,
		logger:  zap.NewNop(),
		now:     time.Now,
		working: doc,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("editor")
	return s
}

// Document returns a copy of the working document.
func (s *Session) Document() model.SiteContent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.working.Clone()
}

// Dirty reports whether the working copy has edits that were not saved.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.edits != s.saved
}

// Reset discards unsaved edits and starts over from the store.
func (s *Session) Reset() {
	doc, _ := s.store.Current()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.working = doc
	s.saved = s.edits
}

// Replace swaps the whole working copy for doc, as when importing a file.
func (s *Session) Replace(doc model.SiteContent) {
	doc = doc.Clone()
	_ = s.edit(func(working *model.SiteContent) error {
		*working = doc
		return nil
	})
}

// Saving reports whether a save is outstanding.
func (s *Session) Saving() bool {
	return s.saving.Load()
}

// Save sends the whole working copy. Only one save may be outstanding. On failure the
// working copy keeps the edits so the operator can retry.
func (s *Session) Save(ctx context.Context) error {
	if !s.saving.CompareAndSwap(false, true) {
		return ErrSaveInProgress
	}
	defer s.saving.Store(false)

	s.mu.Lock()
	doc := s.working.Clone()
	seq := s.edits
	s.mu.Unlock()

	if dups := doc.DuplicateIDs(); len(dups) > 0 {
		s.logger.Warn("duplicate list ids", zap.Any("duplicates", dups))
	}

	if err := s.saver.Save(ctx, doc); err != nil {
		s.logger.Error("save failed", zap.Error(err))
		return fmt.Errorf("save site content: %w", err)
	}

	version := s.store.Replace(doc)
	s.mu.Lock()
	if seq > s.saved {
		s.saved = seq
	}
	s.mu.Unlock()
	s.logger.Info("saved", zap.Uint64("version", version))
	return nil
}

// edit applies fn to the working copy under the lock and counts it as an edit when
// it succeeds.
func (s *Session) edit(fn func(doc *model.SiteContent) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(&s.working); err != nil {
		return err
	}
	s.edits++
	return nil
}

// assignID keeps id when it is set and unused, otherwise generates a fresh one.
func (s *Session) assignID(id string, existing []string) string {
	if id != "" {
		free := true
		for _, e := range existing {
			if e == id {
				free = false
				break
			}
		}
		if free {
			return id
		}
	}
	return model.NewItemID(s.now(), existing)
}
