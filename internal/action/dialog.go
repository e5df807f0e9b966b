package action

import (
	"fmt"
	"sync"

	"github.com/ignatzorin/campus-gateway/internal/pkg/apperror"
)

// State состояние диалога подтверждения.
type State string

const (
	StateIdle           State = "idle"
	StateConfirmPending State = "confirm_pending"
	StateInFlight       State = "in_flight"
	StateResolved       State = "resolved"
)

// Dialog - диалог подтверждения одного действия.
// idle → confirm_pending → in_flight → resolved, отмена возвращает в idle.
type Dialog struct {
	mu    sync.Mutex
	state State
	err   error
}

func NewDialog() *Dialog {
	return &Dialog{state: StateIdle}
}

// Open показывает подтверждение.
func (d *Dialog) Open() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch d.state {
	case StateIdle, StateResolved:
		d.state = StateConfirmPending
		d.err = nil
		return nil
	case StateConfirmPending:
		return nil
	default:
		return apperror.ErrActionInFlight
	}
}

// Cancel закрывает подтверждение без запроса.
func (d *Dialog) Cancel() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == StateInFlight {
		return apperror.ErrActionInFlight
	}
	d.state = StateIdle
	d.err = nil
	return nil
}

// Start переводит диалог в in_flight. Подтверждение из UI засчитывается
// неявно, если диалог не был открыт.
func (d *Dialog) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == StateInFlight {
		return apperror.ErrActionInFlight
	}
	d.state = StateInFlight
	d.err = nil
	return nil
}

// Resolve фиксирует результат запроса.
func (d *Dialog) Resolve(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state != StateInFlight {
		return
	}
	d.state = StateResolved
	d.err = err
}

func (d *Dialog) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Err ошибка последнего запроса, если он завершился неудачей.
func (d *Dialog) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err
}

// Key формирует ключ действия "<entity>:<id>:<action>".
func Key(entity string, id int64, name string) string {
	return fmt.Sprintf("%s:%d:%s", entity, id, name)
}
