package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/campus-gateway/internal/action"
	"github.com/ignatzorin/campus-gateway/internal/domain/entity"
)

// Session - вход пользователя в шлюз: токен бэкенда, пользователь и состояние экранов.
// Контекст сессии отменяется при выходе, вместе с ним останавливаются её наблюдатели.
type Session struct {
	ID        uuid.UUID
	Token     string
	ExpiresAt time.Time
	Views     *Views
	Actions   *action.Registry

	mu     sync.RWMutex
	user   entity.User
	ctx    context.Context
	cancel context.CancelFunc
}

// New создаёт сессию вне менеджера (используется менеджером и в тестах).
func New(parent context.Context, token string, user entity.User, expiresAt time.Time) *Session {
	ctx, cancel := context.WithCancel(parent)
	return &Session{
		ID:        uuid.New(),
		Token:     token,
		ExpiresAt: expiresAt,
		Views:     NewViews(),
		Actions:   action.NewRegistry(),
		user:      user,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// User возвращает копию пользователя.
func (s *Session) User() entity.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Session) UserID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.ID
}

func (s *Session) Role() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.Role
}

func (s *Session) setUser(user entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
}

func (s *Session) Context() context.Context {
	return s.ctx
}

func (s *Session) Done() <-chan struct{} {
	return s.ctx.Done()
}

func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

func (s *Session) close() {
	s.cancel()
}
