package order

import (
	"context"

	"github.com/ignatzorin/campus-gateway/internal/domain/entity"
	"github.com/ignatzorin/campus-gateway/internal/domain/repository"
	"github.com/ignatzorin/campus-gateway/internal/pkg/apperror"
	"github.com/ignatzorin/campus-gateway/internal/projection"
	"github.com/ignatzorin/campus-gateway/internal/session"
)

// ServiceOrderState - состояние карточки услуги для текущего пользователя.
type ServiceOrderState struct {
	Service *entity.Service `json:"servicio"`
	Order   *entity.Order   `json:"pedido"`
	IsOwner bool            `json:"es_propietario"`
	// CanOrder: можно создать новый заказ.
	CanOrder bool `json:"puede_contratar"`
	// Actions предлагаются вместо нового заказа, если есть активный.
	Actions      []string `json:"acciones,omitempty"`
	ReviewPrompt bool     `json:"solicitar_resena"`
}

type GetServiceOrderUseCase struct {
	orderRepo   repository.OrderRepository
	serviceRepo repository.ServiceRepository
}

func NewGetServiceOrderUseCase(orderRepo repository.OrderRepository, serviceRepo repository.ServiceRepository) *GetServiceOrderUseCase {
	return &GetServiceOrderUseCase{orderRepo: orderRepo, serviceRepo: serviceRepo}
}

func (uc *GetServiceOrderUseCase) Execute(ctx context.Context, s *session.Session, serviceID int64) (*ServiceOrderState, error) {
	service, err := uc.serviceRepo.GetByID(ctx, s.Token, serviceID)
	if err != nil {
		return nil, err
	}

	state := &ServiceOrderState{
		Service: service,
		IsOwner: service.IsOwnedBy(s.UserID()),
	}
	if state.IsOwner {
		return state, nil
	}

	current, err := uc.orderRepo.CurrentForService(ctx, s.Token, serviceID)
	if err != nil {
		return nil, err
	}
	state.Order = current

	switch {
	case current != nil && current.IsActive():
		state.Actions = entity.ContinuationActions
	default:
		state.CanOrder = !service.Archived
	}
	if current != nil {
		state.ReviewPrompt = current.ClientID == s.UserID() && current.NeedsReviewPrompt()
		s.Views.UpsertOrder(current)
	}
	return state, nil
}

type GetOrderUseCase struct {
	orderRepo repository.OrderRepository
}

func NewGetOrderUseCase(orderRepo repository.OrderRepository) *GetOrderUseCase {
	return &GetOrderUseCase{orderRepo: orderRepo}
}

func (uc *GetOrderUseCase) Execute(ctx context.Context, s *session.Session, orderID int64) (*entity.Order, error) {
	o, err := uc.orderRepo.GetByID(ctx, s.Token, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, apperror.ErrOrderNotFound
	}
	s.Views.UpsertOrder(o)
	return o, nil
}

// Роли для списка заказов.
const (
	RoleClient   = "cliente"
	RoleProvider = "proveedor"
)

type ListOrdersInput struct {
	Role   string
	Search string
}

type ListOrdersUseCase struct {
	orderRepo repository.OrderRepository
}

func NewListOrdersUseCase(orderRepo repository.OrderRepository) *ListOrdersUseCase {
	return &ListOrdersUseCase{orderRepo: orderRepo}
}

// Execute загружает заказы целиком (вместе с архивом) и строит проекцию
// по переключателю экрана my_orders.
func (uc *ListOrdersUseCase) Execute(ctx context.Context, s *session.Session, input ListOrdersInput) ([]projection.Row[*entity.Order], error) {
	role := input.Role
	if role == "" {
		role = RoleClient
	}
	if role != RoleClient && role != RoleProvider {
		return nil, apperror.New(apperror.ErrCodeValidation, "rol de listado inválido")
	}

	orders, err := uc.orderRepo.ListMine(ctx, s.Token, repository.OrderFilter{Role: role, ShowArchived: true})
	if err != nil {
		return nil, err
	}
	s.Views.SetOrders(orders)

	return projection.Apply(s.Views.Orders(), projection.Filter{
		ShowArchived: s.Views.ShowArchived(session.ViewMyOrders),
		Search:       input.Search,
	}), nil
}
