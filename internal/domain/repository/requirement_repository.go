package repository

import (
	"context"

	"github.com/ignatzorin/campus-gateway/internal/domain/entity"
)

type RequirementRepository interface {
	List(ctx context.Context, token string, filter RequirementFilter) ([]*entity.Requirement, error)
	GetByID(ctx context.Context, token string, id int64) (*entity.Requirement, error)
	Create(ctx context.Context, token string, req *entity.Requirement) (*entity.Requirement, error)
	Apply(ctx context.Context, token string, id int64) error
	ListApplications(ctx context.Context, token string, id int64) ([]*entity.Application, error)
	SelectApplication(ctx context.Context, token string, id, applicationID int64) error
	SetArchived(ctx context.Context, token string, id int64, archived bool) error
}

type RequirementFilter struct {
	Mine         bool
	ShowArchived bool
}
