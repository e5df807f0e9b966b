package action

import (
	"context"
	"sync"

	"github.com/ignatzorin/campus-gateway/internal/logger"
	"github.com/ignatzorin/campus-gateway/internal/metrics"
	"github.com/ignatzorin/campus-gateway/internal/pkg/apperror"
)

// Snapshot состояние действия для UI.
type Snapshot struct {
	Key   string `json:"key"`
	State State  `json:"state"`
	Error string `json:"error,omitempty"`
}

// Registry хранит диалоги действий одной сессии.
type Registry struct {
	mu      sync.Mutex
	dialogs map[string]*Dialog
}

func NewRegistry() *Registry {
	return &Registry{dialogs: make(map[string]*Dialog)}
}

func (r *Registry) dialog(key string) *Dialog {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.dialogs[key]
	if !ok {
		d = NewDialog()
		r.dialogs[key] = d
	}
	return d
}

// Open показывает подтверждение для действия.
func (r *Registry) Open(key string) error {
	return r.dialog(key).Open()
}

// Cancel отменяет подтверждение.
func (r *Registry) Cancel(key string) error {
	return r.dialog(key).Cancel()
}

// Run выполняет fn, пока действие помечено как in_flight.
// Повторный запуск того же ключа до завершения отклоняется с CONFLICT.
func (r *Registry) Run(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	d := r.dialog(key)
	if err := d.Start(); err != nil {
		metrics.ActionsRejectedTotal.Inc()
		logger.Component("action").WithField("key", key).Debug("action: повторный запуск отклонён")
		return err
	}

	err := fn(ctx)
	d.Resolve(err)
	return err
}

// InFlight true, пока по ключу выполняется запрос.
func (r *Registry) InFlight(key string) bool {
	r.mu.Lock()
	d, ok := r.dialogs[key]
	r.mu.Unlock()
	return ok && d.State() == StateInFlight
}

// State возвращает снимок состояния. Неизвестный ключ - idle.
func (r *Registry) State(key string) Snapshot {
	r.mu.Lock()
	d, ok := r.dialogs[key]
	r.mu.Unlock()

	if !ok {
		return Snapshot{Key: key, State: StateIdle}
	}
	snap := Snapshot{Key: key, State: d.State()}
	if err := d.Err(); err != nil {
		snap.Error = apperror.UserMessage(err)
	}
	return snap
}
