package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/campus-gateway/internal/domain/entity"
	"github.com/ignatzorin/campus-gateway/internal/logger"
	"github.com/ignatzorin/campus-gateway/internal/metrics"
	"github.com/ignatzorin/campus-gateway/internal/pkg/apperror"
)

// Manager управляет жизненным циклом сессий: Init при входе, Teardown при выходе или истечении.
type Manager struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	ttl      time.Duration
	secret   string
	parent   context.Context
	now      func() time.Time
}

// NewManager создаёт менеджер. Контексты сессий наследуются от ctx.
func NewManager(ctx context.Context, ttl time.Duration, jwtSecret string) *Manager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{
		sessions: make(map[uuid.UUID]*Session),
		ttl:      ttl,
		secret:   jwtSecret,
		parent:   ctx,
		now:      time.Now,
	}
}

// Init открывает сессию по токену бэкенда.
// Пользователь из ответа бэкенда дополняется клеймами токена.
func (m *Manager) Init(token string, user *entity.User) (*Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, apperror.ErrUnauthorized
	}

	claims, err := ParseClaims(token, m.secret)
	if err != nil {
		logger.Component("session").WithError(err).Warn("session: токен бэкенда не распознан")
		return nil, apperror.Wrap(err, apperror.ErrCodeUnauthorized, "token de autenticación inválido")
	}

	var u entity.User
	if user != nil {
		u = *user
	}
	if u.ID == 0 {
		u.ID = claims.UserID
	}
	if u.Role == "" {
		u.Role = claims.Role
	}

	now := m.now()
	expiresAt := now.Add(m.ttl)
	if !claims.ExpiresAt.IsZero() && claims.ExpiresAt.Before(expiresAt) {
		expiresAt = claims.ExpiresAt
	}
	if !expiresAt.After(now) {
		return nil, apperror.ErrSessionExpired
	}

	s := New(m.parent, token, u, expiresAt)

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	metrics.ActiveSessions.Inc()

	logger.Component("session").WithFields(logrus.Fields{
		"user_id": u.ID,
		"role":    u.Role,
	}).Info("session: сессия открыта")

	return s, nil
}

// Get возвращает живую сессию. Истёкшая сессия закрывается.
func (m *Manager) Get(rawID string) (*Session, error) {
	id, err := uuid.Parse(strings.TrimSpace(rawID))
	if err != nil {
		return nil, apperror.ErrUnauthorized
	}

	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, apperror.ErrSessionExpired
	}

	if s.Expired(m.now()) {
		m.Teardown(id)
		return nil, apperror.ErrSessionExpired
	}
	return s, nil
}

// Teardown закрывает сессию и останавливает всё, что к ней привязано.
func (m *Manager) Teardown(id uuid.UUID) bool {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if !ok {
		return false
	}
	s.close()
	metrics.ActiveSessions.Dec()
	logger.Component("session").WithField("user_id", s.UserID()).Info("session: сессия закрыта")
	return true
}

// UpdateUser обновляет профиль после изменения на бэкенде.
func (m *Manager) UpdateUser(id uuid.UUID, user entity.User) error {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return apperror.ErrSessionExpired
	}

	current := s.User()
	if user.ID == 0 {
		user.ID = current.ID
	}
	s.setUser(user)
	return nil
}

// Sweep закрывает истёкшие сессии и возвращает их количество.
func (m *Manager) Sweep() int {
	now := m.now()

	m.mu.RLock()
	var expired []uuid.UUID
	for id, s := range m.sessions {
		if s.Expired(now) {
			expired = append(expired, id)
		}
	}
	m.mu.RUnlock()

	closed := 0
	for _, id := range expired {
		if m.Teardown(id) {
			closed++
		}
	}
	return closed
}

// Run периодически вызывает Sweep до отмены ctx.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				logger.Component("session").WithField("count", n).Info("session: истёкшие сессии закрыты")
			}
		}
	}
}

// Close закрывает все сессии при остановке шлюза.
func (m *Manager) Close() {
	m.mu.RLock()
	ids := make([]uuid.UUID, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.RUnlock()

	for _, id := range ids {
		m.Teardown(id)
	}
}

func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
