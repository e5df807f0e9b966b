package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/ignatzorin/campus-gateway/internal/domain/entity"
	"github.com/ignatzorin/campus-gateway/internal/domain/repository"
	"github.com/ignatzorin/campus-gateway/internal/domain/valueobject"
	"github.com/ignatzorin/campus-gateway/internal/pkg/apperror"
)

type createOrderRequest struct {
	ServiceID int64           `json:"id_servicio"`
	Total     decimal.Decimal `json:"monto_total"`
	Notes     string          `json:"notas"`
}

type updateStatusRequest struct {
	Status valueobject.OrderStatus `json:"estado"`
}

type archiveRequest struct {
	Archived bool `json:"archivado"`
}

type createReviewRequest struct {
	ServiceID int64  `json:"id_servicio"`
	OrderID   int64  `json:"id_pedido"`
	Rating    int    `json:"calificacion"`
	Comment   string `json:"comentario"`
}

// Orders возвращает реализацию repository.OrderRepository.
func (c *Client) Orders() *OrderAPI {
	return &OrderAPI{c: c}
}

type OrderAPI struct {
	c *Client
}

var _ repository.OrderRepository = (*OrderAPI)(nil)

// CurrentForService GET /api/pedidos/estado/{serviceId}. Ответ null или 404 - заказа нет.
func (a *OrderAPI) CurrentForService(ctx context.Context, token string, serviceID int64) (*entity.Order, error) {
	var out *entity.Order
	err := a.c.do(ctx, request{
		operation:    "order_current",
		method:       http.MethodGet,
		path:         fmt.Sprintf("/api/pedidos/estado/%d", serviceID),
		token:        token,
		authRequired: true,
		out:          &out,
	})
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return out, nil
}

// Create POST /api/pedidos.
func (a *OrderAPI) Create(ctx context.Context, token string, input repository.CreateOrderInput) (*entity.Order, error) {
	var out *entity.Order
	err := a.c.do(ctx, request{
		operation:    "order_create",
		method:       http.MethodPost,
		path:         "/api/pedidos",
		token:        token,
		authRequired: true,
		body: createOrderRequest{
			ServiceID: input.ServiceID,
			Total:     input.Total,
			Notes:     input.Notes,
		},
		out: &out,
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, apperror.New(apperror.ErrCodeUpstream, "respuesta del servidor vacía")
	}
	return out, nil
}

// GetByID GET /api/pedidos/{id}.
func (a *OrderAPI) GetByID(ctx context.Context, token string, id int64) (*entity.Order, error) {
	var out *entity.Order
	err := a.c.do(ctx, request{
		operation:    "order_get",
		method:       http.MethodGet,
		path:         fmt.Sprintf("/api/pedidos/%d", id),
		token:        token,
		authRequired: true,
		out:          &out,
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, apperror.ErrOrderNotFound
	}
	return out, nil
}

// ListMine GET /api/pedidos?rol=...&ver_archivados=true.
func (a *OrderAPI) ListMine(ctx context.Context, token string, filter repository.OrderFilter) ([]*entity.Order, error) {
	query := url.Values{}
	if filter.Role != "" {
		query.Set("rol", filter.Role)
	}
	if filter.ShowArchived {
		query.Set("ver_archivados", "true")
	}

	var out []*entity.Order
	err := a.c.do(ctx, request{
		operation:    "order_list",
		method:       http.MethodGet,
		path:         withQuery("/api/pedidos", query),
		token:        token,
		authRequired: true,
		out:          &out,
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStatus PATCH /api/pedidos/{id}/estado.
func (a *OrderAPI) UpdateStatus(ctx context.Context, token string, id int64, status valueobject.OrderStatus) error {
	return a.c.do(ctx, request{
		operation:    "order_status",
		method:       http.MethodPatch,
		path:         fmt.Sprintf("/api/pedidos/%d/estado", id),
		token:        token,
		authRequired: true,
		body:         updateStatusRequest{Status: status},
	})
}

// SetArchived PATCH /api/pedidos/{id}/archivar.
func (a *OrderAPI) SetArchived(ctx context.Context, token string, id int64, archived bool) error {
	return a.c.do(ctx, request{
		operation:    "order_archive",
		method:       http.MethodPatch,
		path:         fmt.Sprintf("/api/pedidos/%d/archivar", id),
		token:        token,
		authRequired: true,
		body:         archiveRequest{Archived: archived},
	})
}

// Reviews возвращает реализацию repository.ReviewRepository.
func (c *Client) Reviews() *ReviewAPI {
	return &ReviewAPI{c: c}
}

type ReviewAPI struct {
	c *Client
}

var _ repository.ReviewRepository = (*ReviewAPI)(nil)

// Create POST /api/resenas.
func (a *ReviewAPI) Create(ctx context.Context, token string, input repository.CreateReviewInput) (*entity.Review, error) {
	var out *entity.Review
	err := a.c.do(ctx, request{
		operation:    "review_create",
		method:       http.MethodPost,
		path:         "/api/resenas",
		token:        token,
		authRequired: true,
		body: createReviewRequest{
			ServiceID: input.ServiceID,
			OrderID:   input.OrderID,
			Rating:    input.Rating,
			Comment:   input.Comment,
		},
		out: &out,
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, apperror.New(apperror.ErrCodeUpstream, "respuesta del servidor vacía")
	}
	return out, nil
}

func withQuery(path string, query url.Values) string {
	if len(query) == 0 {
		return path
	}
	return path + "?" + query.Encode()
}
