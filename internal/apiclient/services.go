package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ignatzorin/campus-gateway/internal/domain/entity"
	"github.com/ignatzorin/campus-gateway/internal/domain/repository"
	"github.com/ignatzorin/campus-gateway/internal/pkg/apperror"
)

func (c *Client) Services() *ServiceAPI {
	return &ServiceAPI{c: c}
}

type ServiceAPI struct {
	c *Client
}

var _ repository.ServiceRepository = (*ServiceAPI)(nil)

// List GET /api/servicios[?mis_servicios=true&ver_archivados=true].
func (a *ServiceAPI) List(ctx context.Context, token string, filter repository.ServiceFilter) ([]*entity.Service, error) {
	query := url.Values{}
	if filter.Mine {
		query.Set("mis_servicios", "true")
	}
	if filter.ShowArchived {
		query.Set("ver_archivados", "true")
	}

	var out []*entity.Service
	err := a.c.do(ctx, request{
		operation:    "service_list",
		method:       http.MethodGet,
		path:         withQuery("/api/servicios", query),
		token:        token,
		authRequired: filter.Mine,
		out:          &out,
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID GET /api/servicios/{id}.
func (a *ServiceAPI) GetByID(ctx context.Context, token string, id int64) (*entity.Service, error) {
	var out *entity.Service
	err := a.c.do(ctx, request{
		operation: "service_get",
		method:    http.MethodGet,
		path:      fmt.Sprintf("/api/servicios/%d", id),
		token:     token,
		out:       &out,
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, apperror.ErrServiceNotFound
	}
	return out, nil
}

// SetArchived PATCH /api/servicios/{id}/archivar.
func (a *ServiceAPI) SetArchived(ctx context.Context, token string, id int64, archived bool) error {
	return a.c.do(ctx, request{
		operation:    "service_archive",
		method:       http.MethodPatch,
		path:         fmt.Sprintf("/api/servicios/%d/archivar", id),
		token:        token,
		authRequired: true,
		body:         archiveRequest{Archived: archived},
	})
}
