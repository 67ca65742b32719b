// Package session owns the canvas being edited and keeps it persisted.
//
// A Session is created once by the running front end (a CLI command or the
// TUI) and handed to everything that reads or edits the canvas. Operations
// run one at a time; the mutex only guards against a stray watcher callback
// overlapping a command.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sync"

	"github.com/mithrel/leancanvas/internal/db"
	"github.com/mithrel/leancanvas/internal/mdcodec"
	"github.com/mithrel/leancanvas/pkg/canvas"
)

var (
	// ErrImport marks a failed import; the record is left unchanged.
	ErrImport = errors.New("import failed")
	// ErrPersist marks a storage failure. The in-memory change is kept.
	ErrPersist = errors.New("could not persist canvas")
)

type Options struct {
	// AutoSave persists after every Set, Replace and Import.
	AutoSave bool
}

type Session struct {
	mu        sync.Mutex
	rec       canvas.Record
	savedHash string
	store     db.Store
	log       *log.Logger
	opts      Options
}

// New loads the stored canvas, or starts empty when none is stored or the
// stored value cannot be decoded.
func New(ctx context.Context, store db.Store, logger *log.Logger, opts Options) (*Session, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	empty := canvas.Empty()
	s := &Session{rec: empty, savedHash: empty.Hash(), store: store, log: logger, opts: opts}
	rec, err := store.Load(ctx)
	switch {
	case err == nil:
		s.rec = rec
		s.savedHash = rec.Hash()
	case errors.Is(err, db.ErrNotFound):
	case errors.Is(err, db.ErrCorrupt):
		logger.Printf("ignoring stored canvas: %v", err)
	default:
		return nil, err
	}
	return s, nil
}

// Record returns a copy of the current canvas.
func (s *Session) Record() canvas.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec
}

// Dirty reports whether the canvas differs from what was last persisted.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.Hash() != s.savedHash
}

// Set replaces the whole value of one field.
func (s *Session) Set(ctx context.Context, f canvas.Field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := s.rec.Set(f, value)
	if err != nil {
		return err
	}
	s.rec = next
	return s.autoPersistLocked(ctx)
}

// Replace swaps in a whole record.
func (s *Session) Replace(ctx context.Context, r canvas.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec = r
	return s.autoPersistLocked(ctx)
}

// Import merges a Markdown document into the canvas. The input is read to
// the end before anything changes, so a read failure leaves the canvas as it was.
// An imported canvas is always persisted, like the browser version did.
func (s *Session) Import(ctx context.Context, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrImport, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec = mdcodec.Parse(s.rec, string(data))
	return s.persistLocked(ctx)
}

// ImportFile imports the Markdown document at path.
func (s *Session) ImportFile(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrImport, err)
	}
	defer f.Close()
	if err := s.Import(ctx, f); err != nil {
		return err
	}
	s.log.Printf("imported %s", path)
	return nil
}

// Save writes the full canvas even when nothing changed.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(ctx)
}

// Clear resets every field and removes the stored record.
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec = canvas.Empty()
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	s.savedHash = s.rec.Hash()
	return nil
}

func (s *Session) autoPersistLocked(ctx context.Context) error {
	if !s.opts.AutoSave {
		return nil
	}
	return s.persistLocked(ctx)
}

func (s *Session) persistLocked(ctx context.Context) error {
	if s.rec.Hash() == s.savedHash {
		return nil
	}
	return s.writeLocked(ctx)
}

func (s *Session) writeLocked(ctx context.Context) error {
	if err := s.store.Save(ctx, s.rec); err != nil {
		s.log.Printf("save failed: %v", err)
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	s.savedHash = s.rec.Hash()
	return nil
}
