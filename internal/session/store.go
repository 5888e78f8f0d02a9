// Package session holds the identity of the signed-in user for the whole process.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	domainErrors "github.com/polkiloo/bookmart/internal/domain/errors"
	"github.com/polkiloo/bookmart/internal/domain/model"
	"github.com/polkiloo/bookmart/internal/domain/repository"
)

const (
	ReasonLogout  = "logout"
	ReasonExpired = "expired"
)

// Store is the single source of the current session. Every change bumps the
// generation so that stale failures cannot clear a newer session.
type Store struct {
	repo   repository.SessionRepository
	logger *slog.Logger
	now    func() time.Time

	mu         sync.RWMutex
	current    model.Session
	generation uint64

	subsMu  sync.Mutex
	subs    map[int]func(model.SessionEvent)
	nextSub int
}

// NewStore creates an empty store. Call Init to restore the persisted session.
func NewStore(repo repository.SessionRepository, logger *slog.Logger) *Store {
	return &Store{
		repo:   repo,
		logger: logger,
		now:    time.Now,
		subs:   make(map[int]func(model.SessionEvent)),
	}
}

// Init restores the persisted session. Incomplete sessions and tokens whose
// exp claim has passed are cleared.
func (s *Store) Init(ctx context.Context) error {
	stored, err := s.repo.Load(ctx)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("load session: %w", err)
	}

	if !stored.Active() || tokenExpired(stored.Token, s.now()) {
		s.logger.Info("discarding stored session", slog.Int64("user_id", stored.UserID))
		if err := s.repo.Clear(ctx); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
		return nil
	}

	s.mu.Lock()
	s.current = *stored
	s.generation++
	s.mu.Unlock()

	s.emit(model.SessionEvent{Kind: model.SessionStarted, Session: *stored})
	return nil
}

// Set persists and activates session.
func (s *Store) Set(ctx context.Context, session model.Session) error {
	if !session.Active() {
		return domainErrors.Invalid("session", "token, role and user id are required")
	}
	if err := s.repo.Save(ctx, session); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	s.mu.Lock()
	s.current = session
	s.generation++
	s.mu.Unlock()

	s.emit(model.SessionEvent{Kind: model.SessionStarted, Session: session})
	return nil
}

// Clear removes the session from memory and storage.
func (s *Store) Clear(ctx context.Context, reason string) error {
	s.mu.Lock()
	previous := s.current
	s.current = model.Session{}
	s.generation++
	s.mu.Unlock()

	err := s.repo.Clear(ctx)
	if previous.Active() {
		s.emit(model.SessionEvent{Kind: model.SessionCleared, Session: previous, Reason: reason})
	}
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Expire clears the session only while it is still the one observed at
// generation. It reports whether this call cleared it.
func (s *Store) Expire(ctx context.Context, generation uint64) bool {
	s.mu.Lock()
	if generation != s.generation || !s.current.Active() {
		s.mu.Unlock()
		return false
	}
	previous := s.current
	s.current = model.Session{}
	s.generation++
	s.mu.Unlock()

	if err := s.repo.Clear(ctx); err != nil {
		s.logger.Error("clear expired session failed", slog.String("error", err.Error()))
	}
	s.logger.Info("session expired", slog.Int64("user_id", previous.UserID))
	s.emit(model.SessionEvent{Kind: model.SessionCleared, Session: previous, Reason: ReasonExpired})
	return true
}

// Current returns a copy of the active session, zero when signed out.
func (s *Store) Current() model.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Token returns the bearer token of the active session.
func (s *Store) Token() string {
	return s.Current().Token
}

// Generation returns the counter of the current session state.
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// Snapshot returns the session and its generation read together.
func (s *Store) Snapshot() (model.Session, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.generation
}

// Subscribe registers fn for session events. The returned func unregisters it.
func (s *Store) Subscribe(fn func(model.SessionEvent)) func() {
	s.subsMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subsMu.Unlock()

	return func() {
		s.subsMu.Lock()
		delete(s.subs, id)
		s.subsMu.Unlock()
	}
}

func (s *Store) emit(event model.SessionEvent) {
	s.subsMu.Lock()
	handlers := make([]func(model.SessionEvent), 0, len(s.subs))
	for _, fn := range s.subs {
		handlers = append(handlers, fn)
	}
	s.subsMu.Unlock()

	for _, fn := range handlers {
		fn(event)
	}
}

// tokenExpired reads the exp claim without verifying the signature. Tokens
// that are not JWTs or carry no exp are left for the server to judge.
func tokenExpired(token string, now time.Time) bool {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !claims.ExpiresAt.Time.After(now)
}
