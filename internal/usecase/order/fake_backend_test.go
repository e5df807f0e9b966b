package order_test

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/ignatzorin/campus-gateway/internal/domain/entity"
	"github.com/ignatzorin/campus-gateway/internal/domain/repository"
	"github.com/ignatzorin/campus-gateway/internal/domain/valueobject"
	"github.com/ignatzorin/campus-gateway/internal/pkg/apperror"
	"github.com/ignatzorin/campus-gateway/internal/session"
)

// fakeBackend - бэкенд маркетплейса в памяти. Токен равен id пользователя.
type fakeBackend struct {
	mu       sync.Mutex
	nextID   int64
	services map[int64]*entity.Service
	orders   map[int64]*entity.Order
	users    map[string]int64
	calls    map[string]int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		nextID:   100,
		services: make(map[int64]*entity.Service),
		orders:   make(map[int64]*entity.Order),
		users:    map[string]int64{"client": 10, "provider": 20, "other": 30},
		calls:    make(map[string]int),
	}
}

func (b *fakeBackend) addService(id, owner int64, price int64) {
	b.services[id] = &entity.Service{ID: id, OwnerID: owner, Title: "Servicio", Price: decimal.NewFromInt(price)}
}

func (b *fakeBackend) user(token string) (int64, error) {
	id, ok := b.users[token]
	if !ok {
		return 0, apperror.ErrUnauthorized
	}
	return id, nil
}

func (b *fakeBackend) CurrentForService(ctx context.Context, token string, serviceID int64) (*entity.Order, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls["current"]++

	userID, err := b.user(token)
	if err != nil {
		return nil, err
	}
	var latest *entity.Order
	for _, o := range b.orders {
		if o.ServiceID == serviceID && o.ClientID == userID && (latest == nil || o.ID > latest.ID) {
			latest = o
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (b *fakeBackend) Create(ctx context.Context, token string, input repository.CreateOrderInput) (*entity.Order, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls["create"]++

	userID, err := b.user(token)
	if err != nil {
		return nil, err
	}
	b.nextID++
	o := &entity.Order{
		ID:        b.nextID,
		ClientID:  userID,
		ServiceID: input.ServiceID,
		Status:    valueobject.OrderStatusPending,
		Total:     input.Total,
		Notes:     input.Notes,
		CreatedAt: time.Now(),
	}
	b.orders[o.ID] = o
	cp := *o
	return &cp, nil
}

func (b *fakeBackend) GetByID(ctx context.Context, token string, id int64) (*entity.Order, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	o, ok := b.orders[id]
	if !ok {
		return nil, apperror.ErrOrderNotFound
	}
	cp := *o
	if o.Review != nil {
		r := *o.Review
		cp.Review = &r
	}
	return &cp, nil
}

func (b *fakeBackend) ListMine(ctx context.Context, token string, filter repository.OrderFilter) ([]*entity.Order, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	userID, err := b.user(token)
	if err != nil {
		return nil, err
	}
	var out []*entity.Order
	for id := int64(0); id <= b.nextID; id++ {
		o, ok := b.orders[id]
		if !ok {
			continue
		}
		mine := o.ClientID == userID
		if filter.Role == "proveedor" {
			mine = b.services[o.ServiceID] != nil && b.services[o.ServiceID].OwnerID == userID
		}
		if mine && (filter.ShowArchived || !o.Archived) {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (b *fakeBackend) UpdateStatus(ctx context.Context, token string, id int64, status valueobject.OrderStatus) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls["status"]++

	o, ok := b.orders[id]
	if !ok {
		return apperror.ErrOrderNotFound
	}
	o.Status = status
	return nil
}

func (b *fakeBackend) SetArchived(ctx context.Context, token string, id int64, archived bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls["archive"]++

	o, ok := b.orders[id]
	if !ok {
		return apperror.ErrOrderNotFound
	}
	o.Archived = archived
	return nil
}

type fakeServices struct {
	b *fakeBackend
}

func (f fakeServices) List(ctx context.Context, token string, filter repository.ServiceFilter) ([]*entity.Service, error) {
	return nil, nil
}

func (f fakeServices) GetByID(ctx context.Context, token string, id int64) (*entity.Service, error) {
	f.b.mu.Lock()
	defer f.b.mu.Unlock()

	s, ok := f.b.services[id]
	if !ok {
		return nil, apperror.ErrServiceNotFound
	}
	cp := *s
	return &cp, nil
}

func (f fakeServices) SetArchived(ctx context.Context, token string, id int64, archived bool) error {
	return nil
}

type fakeReviews struct {
	b *fakeBackend
}

func (f fakeReviews) Create(ctx context.Context, token string, input repository.CreateReviewInput) (*entity.Review, error) {
	f.b.mu.Lock()
	defer f.b.mu.Unlock()
	f.b.calls["review"]++

	o := f.b.orders[input.OrderID]
	r := &entity.Review{ID: 1, OrderID: input.OrderID, ServiceID: input.ServiceID, Rating: input.Rating, Comment: input.Comment}
	o.Review = r
	cp := *r
	return &cp, nil
}

// mockOrderRepository для проверки ошибок бэкенда.
type mockOrderRepository struct {
	mock.Mock
}

func (m *mockOrderRepository) CurrentForService(ctx context.Context, token string, serviceID int64) (*entity.Order, error) {
	args := m.Called(ctx, token, serviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Order), args.Error(1)
}

func (m *mockOrderRepository) Create(ctx context.Context, token string, input repository.CreateOrderInput) (*entity.Order, error) {
	args := m.Called(ctx, token, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Order), args.Error(1)
}

func (m *mockOrderRepository) GetByID(ctx context.Context, token string, id int64) (*entity.Order, error) {
	args := m.Called(ctx, token, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Order), args.Error(1)
}

func (m *mockOrderRepository) ListMine(ctx context.Context, token string, filter repository.OrderFilter) ([]*entity.Order, error) {
	args := m.Called(ctx, token, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Order), args.Error(1)
}

func (m *mockOrderRepository) UpdateStatus(ctx context.Context, token string, id int64, status valueobject.OrderStatus) error {
	args := m.Called(ctx, token, id, status)
	return args.Error(0)
}

func (m *mockOrderRepository) SetArchived(ctx context.Context, token string, id int64, archived bool) error {
	args := m.Called(ctx, token, id, archived)
	return args.Error(0)
}

func newSession(token string, userID int64) *session.Session {
	return session.New(context.Background(), token, entity.User{ID: userID}, time.Now().Add(time.Hour))
}
