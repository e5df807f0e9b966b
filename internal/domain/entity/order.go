package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ignatzorin/campus-gateway/internal/domain/valueobject"
	"github.com/ignatzorin/campus-gateway/internal/pkg/apperror"
)

// Order - pedido клиента на услугу студента.
type Order struct {
	ID        int64                   `json:"id"`
	ClientID  int64                   `json:"id_cliente"`
	ServiceID int64                   `json:"id_servicio"`
	Status    valueobject.OrderStatus `json:"estado"`
	Total     decimal.Decimal         `json:"monto_total"`
	Notes     string                  `json:"notas,omitempty"`
	CreatedAt time.Time               `json:"fecha_creacion"`
	Archived  bool                    `json:"archivado"`
	Review    *Review                 `json:"resena"`
}

// Review - отзыв клиента о выполненном заказе.
type Review struct {
	ID        int64     `json:"id"`
	OrderID   int64     `json:"id_pedido"`
	ServiceID int64     `json:"id_servicio"`
	Rating    int       `json:"calificacion"`
	Comment   string    `json:"comentario"`
	CreatedAt time.Time `json:"fecha_creacion"`
}

// ContinuationActions действия, которые предлагаются вместо повторного заказа.
var ContinuationActions = []string{"contact", "chat"}

// IsActive true, если заказ блокирует создание нового заказа на ту же услугу.
func (o *Order) IsActive() bool {
	return !o.Archived && !o.Status.IsTerminal()
}

// PlanAction проверяет действие исполнителя и возвращает целевой статус.
// Сам статус не меняется: его выставляет ApplyStatus после подтверждения сервером.
func (o *Order) PlanAction(action valueobject.OrderAction) (valueobject.OrderStatus, error) {
	if !action.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "acción de pedido desconocida")
	}
	if !action.AllowedFrom(o.Status) {
		return "", apperror.New(apperror.ErrCodeBadRequest, "la transición no está permitida desde el estado "+string(o.Status))
	}
	return action.Target(), nil
}

// ApplyStatus выставляет подтверждённый статус.
func (o *Order) ApplyStatus(status valueobject.OrderStatus) {
	o.Status = status
}

// CanReview проверяет, может ли пользователь оставить отзыв.
func (o *Order) CanReview(userID int64) error {
	if o.ClientID != userID {
		return apperror.New(apperror.ErrCodeForbidden, "solo el cliente del pedido puede calificarlo")
	}
	if o.Status != valueobject.OrderStatusCompleted {
		return apperror.New(apperror.ErrCodeBadRequest, "solo se puede calificar un pedido completado")
	}
	if o.Review != nil {
		return apperror.New(apperror.ErrCodeConflict, "el pedido ya tiene una reseña")
	}
	return nil
}

// NeedsReviewPrompt true для завершённого заказа без отзыва.
func (o *Order) NeedsReviewPrompt() bool {
	return o.Status == valueobject.OrderStatusCompleted && o.Review == nil
}

func (o *Order) AttachReview(review *Review) {
	o.Review = review
}

func (o *Order) GetID() int64 {
	return o.ID
}

func (o *Order) IsArchived() bool {
	return o.Archived
}

func (o *Order) SetArchived(archived bool) {
	o.Archived = archived
}

// ArchiveAllowed: архивировать можно только завершённый или отменённый заказ.
func (o *Order) ArchiveAllowed() error {
	if !o.Status.IsTerminal() {
		return apperror.New(apperror.ErrCodeBadRequest, "solo se pueden archivar pedidos completados o cancelados")
	}
	return nil
}

// CheckInvariants проверяет согласованность заказа, полученного от бэкенда.
func (o *Order) CheckInvariants() error {
	if !o.Status.IsValid() {
		return apperror.New(apperror.ErrCodeValidation, "estado de pedido inválido")
	}
	if o.Review != nil && o.Status != valueobject.OrderStatusCompleted {
		return apperror.New(apperror.ErrCodeValidation, "reseña en un pedido no completado")
	}
	if o.Archived && !o.Status.IsTerminal() {
		return apperror.New(apperror.ErrCodeValidation, "pedido archivado en estado no terminal")
	}
	return nil
}

func (o *Order) SearchText() string {
	return o.Notes
}

func (o *Order) CategoryName() string {
	return ""
}
