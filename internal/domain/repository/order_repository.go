package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/ignatzorin/campus-gateway/internal/domain/entity"
	"github.com/ignatzorin/campus-gateway/internal/domain/valueobject"
)

// OrderRepository - заказы на стороне бэкенда маркетплейса.
// Токен передаётся явно: он берётся из сессии пользователя.
type OrderRepository interface {
	// CurrentForService возвращает текущий заказ пользователя на услугу или nil.
	CurrentForService(ctx context.Context, token string, serviceID int64) (*entity.Order, error)
	Create(ctx context.Context, token string, input CreateOrderInput) (*entity.Order, error)
	GetByID(ctx context.Context, token string, id int64) (*entity.Order, error)
	ListMine(ctx context.Context, token string, filter OrderFilter) ([]*entity.Order, error)
	UpdateStatus(ctx context.Context, token string, id int64, status valueobject.OrderStatus) error
	SetArchived(ctx context.Context, token string, id int64, archived bool) error
}

type CreateOrderInput struct {
	ServiceID int64
	Total     decimal.Decimal
	Notes     string
}

type OrderFilter struct {
	// Role: "cliente" - мои заказы, "proveedor" - заказы на мои услуги.
	Role         string
	ShowArchived bool
}

type ReviewRepository interface {
	Create(ctx context.Context, token string, input CreateReviewInput) (*entity.Review, error)
}

type CreateReviewInput struct {
	ServiceID int64
	OrderID   int64
	Rating    int
	Comment   string
}
