package order

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/campus-gateway/internal/action"
	"github.com/ignatzorin/campus-gateway/internal/domain/entity"
	"github.com/ignatzorin/campus-gateway/internal/domain/repository"
	"github.com/ignatzorin/campus-gateway/internal/domain/valueobject"
	"github.com/ignatzorin/campus-gateway/internal/logger"
	"github.com/ignatzorin/campus-gateway/internal/metrics"
	"github.com/ignatzorin/campus-gateway/internal/pkg/apperror"
	"github.com/ignatzorin/campus-gateway/internal/session"
)

// TransitionOrderUseCase выполняет действие исполнителя над заказом:
// approve, mark_in_review, finalize, reject, cancel.
type TransitionOrderUseCase struct {
	orderRepo   repository.OrderRepository
	serviceRepo repository.ServiceRepository
}

func NewTransitionOrderUseCase(orderRepo repository.OrderRepository, serviceRepo repository.ServiceRepository) *TransitionOrderUseCase {
	return &TransitionOrderUseCase{orderRepo: orderRepo, serviceRepo: serviceRepo}
}

// Execute проверяет права и переход, отправляет новый статус и только после
// подтверждения бэкендом меняет локальную копию.
func (uc *TransitionOrderUseCase) Execute(ctx context.Context, s *session.Session, orderID int64, act valueobject.OrderAction) (*entity.Order, error) {
	if !act.IsValid() {
		return nil, apperror.New(apperror.ErrCodeValidation, "acción de pedido desconocida")
	}

	o, err := uc.orderRepo.GetByID(ctx, s.Token, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, apperror.ErrOrderNotFound
	}

	service, err := uc.serviceRepo.GetByID(ctx, s.Token, o.ServiceID)
	if err != nil {
		return nil, err
	}
	if !service.IsOwnedBy(s.UserID()) {
		return nil, apperror.New(apperror.ErrCodeForbidden, "solo el proveedor del servicio puede cambiar el estado del pedido")
	}

	next, err := o.PlanAction(act)
	if err != nil {
		return nil, err
	}

	key := action.Key(string(entity.KindOrder), o.ID, string(act))
	err = s.Actions.Run(ctx, key, func(ctx context.Context) error {
		return uc.orderRepo.UpdateStatus(ctx, s.Token, o.ID, next)
	})
	if err != nil {
		return nil, err
	}

	previous := o.Status
	o.ApplyStatus(next)
	if !s.Views.PatchOrder(o.ID, func(cached *entity.Order) { cached.ApplyStatus(next) }) {
		s.Views.UpsertOrder(o)
	}
	metrics.OrderTransitionsTotal.WithLabelValues(string(next)).Inc()

	logger.Component("order").WithFields(logrus.Fields{
		"order_id": o.ID,
		"from":     previous,
		"to":       next,
	}).Info("order: статус изменён")

	return o, nil
}
