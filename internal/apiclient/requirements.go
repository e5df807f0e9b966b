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

type createRequirementRequest struct {
	Title        string  `json:"titulo"`
	Description  string  `json:"descripcion"`
	TargetCareer *string `json:"carrera_objetivo,omitempty"`
}

func (c *Client) Requirements() *RequirementAPI {
	return &RequirementAPI{c: c}
}

type RequirementAPI struct {
	c *Client
}

var _ repository.RequirementRepository = (*RequirementAPI)(nil)

// List GET /api/requerimientos[?mis_requerimientos=true&ver_archivados=true].
// Публичный список доступен без токена.
func (a *RequirementAPI) List(ctx context.Context, token string, filter repository.RequirementFilter) ([]*entity.Requirement, error) {
	query := url.Values{}
	if filter.Mine {
		query.Set("mis_requerimientos", "true")
	}
	if filter.ShowArchived {
		query.Set("ver_archivados", "true")
	}

	var out []*entity.Requirement
	err := a.c.do(ctx, request{
		operation:    "requirement_list",
		method:       http.MethodGet,
		path:         withQuery("/api/requerimientos", query),
		token:        token,
		authRequired: filter.Mine,
		out:          &out,
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID GET /api/requerimientos/{id}.
func (a *RequirementAPI) GetByID(ctx context.Context, token string, id int64) (*entity.Requirement, error) {
	var out *entity.Requirement
	err := a.c.do(ctx, request{
		operation: "requirement_get",
		method:    http.MethodGet,
		path:      fmt.Sprintf("/api/requerimientos/%d", id),
		token:     token,
		out:       &out,
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, apperror.ErrRequirementNotFound
	}
	return out, nil
}

// Create POST /api/requerimientos.
func (a *RequirementAPI) Create(ctx context.Context, token string, req *entity.Requirement) (*entity.Requirement, error) {
	var out *entity.Requirement
	err := a.c.do(ctx, request{
		operation:    "requirement_create",
		method:       http.MethodPost,
		path:         "/api/requerimientos",
		token:        token,
		authRequired: true,
		body: createRequirementRequest{
			Title:        req.Title,
			Description:  req.Description,
			TargetCareer: req.TargetCareer,
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

// Apply POST /api/requerimientos/{id}/postular.
func (a *RequirementAPI) Apply(ctx context.Context, token string, id int64) error {
	return a.c.do(ctx, request{
		operation:    "requirement_apply",
		method:       http.MethodPost,
		path:         fmt.Sprintf("/api/requerimientos/%d/postular", id),
		token:        token,
		authRequired: true,
	})
}

// ListApplications GET /api/requerimientos/{id}/postulaciones.
func (a *RequirementAPI) ListApplications(ctx context.Context, token string, id int64) ([]*entity.Application, error) {
	var out []*entity.Application
	err := a.c.do(ctx, request{
		operation:    "application_list",
		method:       http.MethodGet,
		path:         fmt.Sprintf("/api/requerimientos/%d/postulaciones", id),
		token:        token,
		authRequired: true,
		out:          &out,
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SelectApplication PATCH /api/requerimientos/{id}/seleccionar/{applicationId}.
// Бэкенд атомарно принимает отклик и закрывает требование.
func (a *RequirementAPI) SelectApplication(ctx context.Context, token string, id, applicationID int64) error {
	return a.c.do(ctx, request{
		operation:    "application_select",
		method:       http.MethodPatch,
		path:         fmt.Sprintf("/api/requerimientos/%d/seleccionar/%d", id, applicationID),
		token:        token,
		authRequired: true,
		body:         struct{}{},
	})
}

// SetArchived PATCH /api/requerimientos/{id}/archivar.
func (a *RequirementAPI) SetArchived(ctx context.Context, token string, id int64, archived bool) error {
	return a.c.do(ctx, request{
		operation:    "requirement_archive",
		method:       http.MethodPatch,
		path:         fmt.Sprintf("/api/requerimientos/%d/archivar", id),
		token:        token,
		authRequired: true,
		body:         archiveRequest{Archived: archived},
	})
}
