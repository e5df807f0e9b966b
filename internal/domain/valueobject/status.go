package valueobject

import "github.com/ignatzorin/campus-gateway/internal/pkg/apperror"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDIENTE"
	OrderStatusInProgress OrderStatus = "EN_PROCESO"
	OrderStatusAlmostDone OrderStatus = "CASI_TERMINADO"
	OrderStatusCompleted  OrderStatus = "COMPLETADO"
	OrderStatusCancelled  OrderStatus = "CANCELADO"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusInProgress, OrderStatusCancelled},
	OrderStatusInProgress: {OrderStatusAlmostDone, OrderStatusCompleted, OrderStatusCancelled},
	OrderStatusAlmostDone: {OrderStatusCompleted, OrderStatusCancelled},
	OrderStatusCompleted:  {},
	OrderStatusCancelled:  {},
}

func (s OrderStatus) IsValid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// IsTerminal true для COMPLETADO и CANCELADO.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

func (s OrderStatus) CanTransitionTo(newStatus OrderStatus) bool {
	for _, status := range orderTransitions[s] {
		if status == newStatus {
			return true
		}
	}
	return false
}

func NewOrderStatus(status string) (OrderStatus, error) {
	s := OrderStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "estado de pedido inválido")
	}
	return s, nil
}

// OrderAction действие исполнителя над заказом.
type OrderAction string

const (
	OrderActionApprove      OrderAction = "approve"
	OrderActionMarkInReview OrderAction = "mark_in_review"
	OrderActionFinalize     OrderAction = "finalize"
	OrderActionReject       OrderAction = "reject"
	OrderActionCancel       OrderAction = "cancel"
)

var orderActionRules = map[OrderAction]struct {
	from   []OrderStatus
	target OrderStatus
}{
	OrderActionApprove:      {from: []OrderStatus{OrderStatusPending}, target: OrderStatusInProgress},
	OrderActionMarkInReview: {from: []OrderStatus{OrderStatusInProgress}, target: OrderStatusAlmostDone},
	OrderActionFinalize:     {from: []OrderStatus{OrderStatusInProgress, OrderStatusAlmostDone}, target: OrderStatusCompleted},
	OrderActionReject:       {from: []OrderStatus{OrderStatusPending}, target: OrderStatusCancelled},
	OrderActionCancel:       {from: []OrderStatus{OrderStatusInProgress, OrderStatusAlmostDone}, target: OrderStatusCancelled},
}

func (a OrderAction) IsValid() bool {
	_, ok := orderActionRules[a]
	return ok
}

// Target возвращает статус, в который переводит действие.
func (a OrderAction) Target() OrderStatus {
	return orderActionRules[a].target
}

// AllowedFrom проверяет, применимо ли действие к текущему статусу.
func (a OrderAction) AllowedFrom(current OrderStatus) bool {
	rule, ok := orderActionRules[a]
	if !ok {
		return false
	}
	for _, s := range rule.from {
		if s == current {
			return current.CanTransitionTo(rule.target)
		}
	}
	return false
}

type RequirementStatus string

const (
	RequirementStatusOpen   RequirementStatus = "ABIERTO"
	RequirementStatusClosed RequirementStatus = "CERRADO"
)

func (s RequirementStatus) IsValid() bool {
	return s == RequirementStatusOpen || s == RequirementStatusClosed
}

type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "PENDIENTE"
	ApplicationStatusAccepted ApplicationStatus = "ACEPTADA"
	ApplicationStatusRejected ApplicationStatus = "RECHAZADA"
)

func (s ApplicationStatus) IsValid() bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusAccepted, ApplicationStatusRejected:
		return true
	}
	return false
}

func (s ApplicationStatus) IsTerminal() bool {
	return s == ApplicationStatusAccepted || s == ApplicationStatusRejected
}

// Role роль пользователя в маркетплейсе.
type Role string

const (
	RoleStudent Role = "estudiante"
	RoleClient  Role = "cliente"
	RoleAdmin   Role = "admin"
)
