package requirement

import (
	"context"

	"github.com/ignatzorin/campus-gateway/internal/action"
	"github.com/ignatzorin/campus-gateway/internal/domain/entity"
	"github.com/ignatzorin/campus-gateway/internal/domain/repository"
	"github.com/ignatzorin/campus-gateway/internal/domain/valueobject"
	"github.com/ignatzorin/campus-gateway/internal/logger"
	"github.com/ignatzorin/campus-gateway/internal/pkg/apperror"
	"github.com/ignatzorin/campus-gateway/internal/session"
)

type PublishInput struct {
	Title        string
	Description  string
	TargetCareer *string
}

type PublishRequirementUseCase struct {
	repo repository.RequirementRepository
}

func NewPublishRequirementUseCase(repo repository.RequirementRepository) *PublishRequirementUseCase {
	return &PublishRequirementUseCase{repo: repo}
}

func (uc *PublishRequirementUseCase) Execute(ctx context.Context, s *session.Session, input PublishInput) (*entity.Requirement, error) {
	switch valueobject.Role(s.Role()) {
	case valueobject.RoleClient, valueobject.RoleAdmin:
	default:
		return nil, apperror.New(apperror.ErrCodeForbidden, "solo los clientes pueden publicar requerimientos")
	}

	draft, err := entity.NewRequirement(s.UserID(), input.Title, input.Description, input.TargetCareer)
	if err != nil {
		return nil, err
	}

	// Один ключ на сессию: повторная публикация до ответа первой отклоняется.
	var created *entity.Requirement
	key := action.Key(string(entity.KindRequirement), 0, "publish")
	err = s.Actions.Run(ctx, key, func(ctx context.Context) error {
		r, err := uc.repo.Create(ctx, s.Token, draft)
		if err != nil {
			return err
		}
		created = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	if created.Status == "" {
		created.Status = valueobject.RequirementStatusOpen
	}
	if created.ClientID == 0 {
		created.ClientID = s.UserID()
	}
	s.Views.UpsertRequirement(created)

	logger.Component("requirement").WithField("requirement_id", created.ID).Info("requirement: требование опубликовано")
	return created, nil
}
