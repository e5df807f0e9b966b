package requirement

import (
	"context"
	"strconv"

	"github.com/ignatzorin/campus-gateway/internal/action"
	"github.com/ignatzorin/campus-gateway/internal/domain/entity"
	"github.com/ignatzorin/campus-gateway/internal/domain/repository"
	"github.com/ignatzorin/campus-gateway/internal/metrics"
	"github.com/ignatzorin/campus-gateway/internal/pkg/apperror"
	"github.com/ignatzorin/campus-gateway/internal/projection"
	"github.com/ignatzorin/campus-gateway/internal/session"
)

type ListMyRequirementsUseCase struct {
	repo repository.RequirementRepository
}

func NewListMyRequirementsUseCase(repo repository.RequirementRepository) *ListMyRequirementsUseCase {
	return &ListMyRequirementsUseCase{repo: repo}
}

func (uc *ListMyRequirementsUseCase) Execute(ctx context.Context, s *session.Session, f projection.Filter) ([]projection.Row[*entity.Requirement], error) {
	reqs, err := uc.repo.List(ctx, s.Token, repository.RequirementFilter{Mine: true, ShowArchived: true})
	if err != nil {
		return nil, err
	}
	s.Views.SetRequirements(reqs)

	f.ShowArchived = s.Views.ShowArchived(session.ViewMyRequirements)
	return projection.Apply(s.Views.Requirements(), f), nil
}

// BoardUseCase - публичная доска заданий.
type BoardUseCase struct {
	repo repository.RequirementRepository
}

func NewBoardUseCase(repo repository.RequirementRepository) *BoardUseCase {
	return &BoardUseCase{repo: repo}
}

// Execute token может быть пустым: доска доступна без входа.
func (uc *BoardUseCase) Execute(ctx context.Context, token string, f projection.Filter) ([]projection.Row[*entity.Requirement], error) {
	reqs, err := uc.repo.List(ctx, token, repository.RequirementFilter{})
	if err != nil {
		return nil, err
	}
	return projection.Board(reqs, f), nil
}

type ArchiveRequirementUseCase struct {
	repo repository.RequirementRepository
}

func NewArchiveRequirementUseCase(repo repository.RequirementRepository) *ArchiveRequirementUseCase {
	return &ArchiveRequirementUseCase{repo: repo}
}

// Execute архивирует или восстанавливает требование независимо от estado.
func (uc *ArchiveRequirementUseCase) Execute(ctx context.Context, s *session.Session, requirementID int64, archived bool) (*entity.Requirement, error) {
	req, err := uc.repo.GetByID(ctx, s.Token, requirementID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, apperror.ErrRequirementNotFound
	}
	if !req.IsOwnedBy(s.UserID()) {
		return nil, apperror.ErrForbidden
	}

	needed, err := entity.PlanArchive(req, archived)
	if err != nil {
		return nil, err
	}
	if !needed {
		return req, nil
	}

	key := action.Key(string(entity.KindRequirement), req.ID, "archive")
	err = s.Actions.Run(ctx, key, func(ctx context.Context) error {
		return uc.repo.SetArchived(ctx, s.Token, req.ID, archived)
	})
	if err != nil {
		return nil, err
	}

	req.SetArchived(archived)
	if !s.Views.PatchRequirement(req.ID, func(cached *entity.Requirement) { cached.SetArchived(archived) }) {
		s.Views.UpsertRequirement(req)
	}
	metrics.ArchiveTogglesTotal.WithLabelValues(string(entity.KindRequirement), strconv.FormatBool(archived)).Inc()
	return req, nil
}
