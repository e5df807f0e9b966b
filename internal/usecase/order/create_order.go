package order

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ignatzorin/campus-gateway/internal/action"
	"github.com/ignatzorin/campus-gateway/internal/domain/entity"
	"github.com/ignatzorin/campus-gateway/internal/domain/repository"
	"github.com/ignatzorin/campus-gateway/internal/domain/valueobject"
	"github.com/ignatzorin/campus-gateway/internal/logger"
	"github.com/ignatzorin/campus-gateway/internal/pkg/apperror"
	"github.com/ignatzorin/campus-gateway/internal/session"
)

type CreateOrderInput struct {
	ServiceID int64
	// Total: если не задан, берётся цена услуги.
	Total decimal.Decimal
	Notes string
}

type CreateOrderUseCase struct {
	orderRepo   repository.OrderRepository
	serviceRepo repository.ServiceRepository
}

func NewCreateOrderUseCase(orderRepo repository.OrderRepository, serviceRepo repository.ServiceRepository) *CreateOrderUseCase {
	return &CreateOrderUseCase{orderRepo: orderRepo, serviceRepo: serviceRepo}
}

// Execute создаёт заказ на услугу. Нельзя заказать свою услугу
// и нельзя создать второй активный заказ на ту же услугу.
func (uc *CreateOrderUseCase) Execute(ctx context.Context, s *session.Session, input CreateOrderInput) (*entity.Order, error) {
	service, err := uc.serviceRepo.GetByID(ctx, s.Token, input.ServiceID)
	if err != nil {
		return nil, err
	}
	if service.IsOwnedBy(s.UserID()) {
		return nil, apperror.New(apperror.ErrCodeForbidden, "no puedes contratar tu propio servicio")
	}
	if service.Archived {
		return nil, apperror.New(apperror.ErrCodeBadRequest, "el servicio no está disponible")
	}

	current, err := uc.orderRepo.CurrentForService(ctx, s.Token, input.ServiceID)
	if err != nil {
		return nil, err
	}
	if current != nil && current.IsActive() {
		return nil, apperror.New(apperror.ErrCodeConflict, "ya tienes un pedido activo para este servicio").
			WithDetails(map[string]any{
				"id_pedido": current.ID,
				"estado":    current.Status,
				"actions":   entity.ContinuationActions,
			})
	}

	total := input.Total
	if total.IsZero() {
		total = service.Price
	}
	total, err = valueobject.NewAmount(total)
	if err != nil {
		return nil, err
	}

	var created *entity.Order
	key := action.Key(string(entity.KindService), service.ID, "order")
	err = s.Actions.Run(ctx, key, func(ctx context.Context) error {
		o, err := uc.orderRepo.Create(ctx, s.Token, repository.CreateOrderInput{
			ServiceID: service.ID,
			Total:     total,
			Notes:     strings.TrimSpace(input.Notes),
		})
		if err != nil {
			return err
		}
		created = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	if created.Status == "" {
		created.Status = valueobject.OrderStatusPending
	}
	if created.ClientID == 0 {
		created.ClientID = s.UserID()
	}
	s.Views.UpsertOrder(created)

	logger.Component("order").WithField("order_id", created.ID).Info("order: pedido creado")
	return created, nil
}
