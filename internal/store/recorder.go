package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/roach88/memento/internal/memento"
)

// SessionIDGenerator produces journal session IDs.
type SessionIDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 session IDs.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
// Panics if UUID generation fails (should never happen in practice).
func (g UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Recorder journals the change notifications of one Mementor as a session.
//
// Change handlers cannot return errors, so the first write error is kept and
// later notifications are dropped. Callers check Err when the session ends.
type Recorder struct {
	store   *Store
	ctx     context.Context
	session Session
	logger  *slog.Logger

	mu     sync.Mutex
	seq    int64
	err    error
	cancel func()
}

// NewRecorder creates a session row and returns a recorder writing to it.
func NewRecorder(ctx context.Context, s *Store, gen SessionIDGenerator, name string, logger *slog.Logger) (*Recorder, error) {
	if logger == nil {
		logger = slog.Default()
	}

	createdSeq, err := s.NextSessionSeq(ctx)
	if err != nil {
		return nil, err
	}

	session := Session{
		ID:         gen.Generate(),
		Name:       name,
		CreatedSeq: createdSeq,
	}
	if err := s.WriteSession(ctx, session); err != nil {
		return nil, err
	}

	logger.Debug("journal session started", "session", session.ID, "name", name)
	return &Recorder{
		store:   s,
		ctx:     ctx,
		session: session,
		logger:  logger,
	}, nil
}

// Session returns the session being recorded.
func (r *Recorder) Session() Session {
	return r.session
}

// Attach subscribes the recorder to m. Attaching again replaces the
// previous subscription.
func (r *Recorder) Attach(m *memento.Mementor) {
	r.Detach()
	cancel := m.OnChanged(r.record)
	r.mu.Lock()
	r.cancel = cancel
	r.mu.Unlock()
}

// Detach cancels the subscription, if any.
func (r *Recorder) Detach() {
	r.mu.Lock()
	cancel := r.cancel
	r.cancel = nil
	r.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Err returns the first write error, if any.
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Count returns the number of changes written so far.
func (r *Recorder) Count() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seq
}

func (r *Recorder) record(c memento.Change) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return
	}

	change := Change{
		SessionID:  r.session.ID,
		Seq:        r.seq + 1,
		Action:     string(c.Action),
		UndoCount:  c.UndoCount,
		RedoCount:  c.RedoCount,
		EventCount: eventCount(c.Event),
	}
	if c.Event != nil {
		change.EventKind = memento.Kind(c.Event)
		change.Description = memento.Describe(c.Event)
	}

	if _, err := r.store.WriteChange(r.ctx, change); err != nil {
		r.err = fmt.Errorf("journal session %s seq %d: %w", r.session.ID, change.Seq, err)
		r.logger.Warn("journal write failed", "session", r.session.ID, "error", err)
		return
	}
	r.seq = change.Seq
}

func eventCount(e memento.Event) int {
	if e == nil {
		return 0
	}
	if b, ok := e.(*memento.Batch); ok {
		return b.Len()
	}
	return 1
}
