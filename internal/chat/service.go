// Package chat runs conversations on top of the assistant engine: it loads a
// session's context, answers the utterance and saves the context again,
// serializing concurrent turns of the same session.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/couchcryptid/oceanwatch-assistant/internal/assistant"
	"github.com/couchcryptid/oceanwatch-assistant/internal/domain"
	"github.com/couchcryptid/oceanwatch-assistant/internal/observability"
	"github.com/couchcryptid/oceanwatch-assistant/internal/session"
)

// Turn is the outcome of one processed utterance.
type Turn struct {
	SessionID string `json:"session_id"`
	domain.Reply
}

// Service processes utterances for many sessions.
type Service struct {
	engine  *assistant.Engine
	store   session.Store
	locks   *keyedMutex
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewService creates a chat service.
func NewService(engine *assistant.Engine, store session.Store, logger *slog.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		engine:  engine,
		store:   store,
		locks:   newKeyedMutex(),
		logger:  logger,
		metrics: metrics,
	}
}

// Process answers text within sessionID. An empty sessionID starts a new
// session with a generated id. Store failures are returned; a malformed
// stored context is replaced by a fresh one and the turn goes ahead.
func (s *Service) Process(ctx context.Context, sessionID, text string) (Turn, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	unlock := s.locks.lock(sessionID)
	defer unlock()

	dc, err := s.store.Load(ctx, sessionID)
	switch {
	case errors.Is(err, domain.ErrMalformedContext):
		s.metrics.ContextResets.Inc()
		s.logger.Warn("dialogue context reset", "session_id", sessionID, "error", err)
	case err != nil:
		return Turn{}, fmt.Errorf("process turn: %w", err)
	}

	reply := s.engine.ProcessInput(ctx, dc, text)

	if err := s.store.Save(ctx, sessionID, dc); err != nil {
		return Turn{}, fmt.Errorf("process turn: %w", err)
	}
	return Turn{SessionID: sessionID, Reply: reply}, nil
}

// Context returns a session's current dialogue context.
func (s *Service) Context(ctx context.Context, sessionID string) (*domain.DialogueContext, error) {
	unlock := s.locks.lock(sessionID)
	defer unlock()

	dc, err := s.store.Load(ctx, sessionID)
	if errors.Is(err, domain.ErrMalformedContext) {
		return dc, nil
	}
	return dc, err
}

// Reset drops a session's persisted context.
func (s *Service) Reset(ctx context.Context, sessionID string) error {
	unlock := s.locks.lock(sessionID)
	defer unlock()

	if err := s.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("reset session: %w", err)
	}
	s.logger.Info("session reset", "session_id", sessionID)
	return nil
}

// Classify labels text without touching any session.
func (s *Service) Classify(text string) assistant.Classification {
	return s.engine.Classify(text)
}

// CheckReadiness reports whether the session store is reachable.
func (s *Service) CheckReadiness(ctx context.Context) error {
	return s.store.CheckReadiness(ctx)
}

// keyedMutex hands out one mutex per key and forgets it once no goroutine
// holds or waits for it.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*refMutex)}
}

func (k *keyedMutex) lock(key string) (unlock func()) {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

func (k *keyedMutex) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
