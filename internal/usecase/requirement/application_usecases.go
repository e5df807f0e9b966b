package requirement

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/campus-gateway/internal/action"
	"github.com/ignatzorin/campus-gateway/internal/domain/entity"
	"github.com/ignatzorin/campus-gateway/internal/domain/repository"
	"github.com/ignatzorin/campus-gateway/internal/domain/valueobject"
	"github.com/ignatzorin/campus-gateway/internal/logger"
	"github.com/ignatzorin/campus-gateway/internal/metrics"
	"github.com/ignatzorin/campus-gateway/internal/pkg/apperror"
	"github.com/ignatzorin/campus-gateway/internal/session"
)

type ApplyUseCase struct {
	repo repository.RequirementRepository
}

func NewApplyUseCase(repo repository.RequirementRepository) *ApplyUseCase {
	return &ApplyUseCase{repo: repo}
}

// Execute откликает студента на открытое требование.
func (uc *ApplyUseCase) Execute(ctx context.Context, s *session.Session, requirementID int64) error {
	if valueobject.Role(s.Role()) != valueobject.RoleStudent {
		return apperror.New(apperror.ErrCodeForbidden, "solo los estudiantes pueden postularse")
	}

	req, err := uc.repo.GetByID(ctx, s.Token, requirementID)
	if err != nil {
		return err
	}
	if req == nil {
		return apperror.ErrRequirementNotFound
	}
	if err := req.CanApply(s.UserID()); err != nil {
		return err
	}

	key := action.Key(string(entity.KindRequirement), req.ID, "apply")
	return s.Actions.Run(ctx, key, func(ctx context.Context) error {
		return uc.repo.Apply(ctx, s.Token, req.ID)
	})
}

// Candidates - требование с откликами для экрана выбора кандидата.
type Candidates struct {
	Requirement   *entity.Requirement   `json:"requerimiento"`
	Applications  []*entity.Application `json:"postulaciones"`
	SelectEnabled bool                  `json:"seleccion_habilitada"`
}

type ListApplicationsUseCase struct {
	repo repository.RequirementRepository
}

func NewListApplicationsUseCase(repo repository.RequirementRepository) *ListApplicationsUseCase {
	return &ListApplicationsUseCase{repo: repo}
}

func (uc *ListApplicationsUseCase) Execute(ctx context.Context, s *session.Session, requirementID int64) (*Candidates, error) {
	req, err := uc.repo.GetByID(ctx, s.Token, requirementID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, apperror.ErrRequirementNotFound
	}
	if !req.IsOwnedBy(s.UserID()) {
		return nil, apperror.New(apperror.ErrCodeForbidden, "solo el autor del requerimiento puede ver las postulaciones")
	}

	apps, err := uc.repo.ListApplications(ctx, s.Token, req.ID)
	if err != nil {
		return nil, err
	}
	if err := entity.CheckSelection(req, apps); err != nil {
		logger.Component("requirement").WithError(err).WithField("requirement_id", req.ID).
			Warn("requirement: бэкенд вернул несогласованный выбор кандидата")
	}

	s.Views.UpsertRequirement(req)
	s.Views.SetApplications(req.ID, apps)

	return &Candidates{
		Requirement:   req,
		Applications:  apps,
		SelectEnabled: req.SelectEnabled(s.UserID()),
	}, nil
}

type SelectCandidateUseCase struct {
	repo repository.RequirementRepository
}

func NewSelectCandidateUseCase(repo repository.RequirementRepository) *SelectCandidateUseCase {
	return &SelectCandidateUseCase{repo: repo}
}

// Execute принимает отклик: он становится ACEPTADA, требование CERRADO.
// Остальные отклики остаются как были, дальнейший выбор недоступен.
func (uc *SelectCandidateUseCase) Execute(ctx context.Context, s *session.Session, requirementID, applicationID int64) (*Candidates, error) {
	req, err := uc.repo.GetByID(ctx, s.Token, requirementID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, apperror.ErrRequirementNotFound
	}
	if !req.IsOwnedBy(s.UserID()) {
		return nil, apperror.New(apperror.ErrCodeForbidden, "solo el autor del requerimiento puede seleccionar un candidato")
	}

	apps, err := uc.repo.ListApplications(ctx, s.Token, req.ID)
	if err != nil {
		return nil, err
	}

	var chosen *entity.Application
	for _, app := range apps {
		if app.ID == applicationID {
			chosen = app
			break
		}
	}
	if err := req.CanSelect(s.UserID(), chosen); err != nil {
		return nil, err
	}

	key := action.Key(string(entity.KindRequirement), req.ID, "select")
	err = s.Actions.Run(ctx, key, func(ctx context.Context) error {
		return uc.repo.SelectApplication(ctx, s.Token, req.ID, chosen.ID)
	})
	if err != nil {
		return nil, err
	}

	req.ApplySelection(chosen)
	s.Views.UpsertRequirement(req)
	s.Views.SetApplications(req.ID, apps)
	metrics.CandidatesSelectedTotal.Inc()

	logger.Component("requirement").WithFields(logrus.Fields{
		"requirement_id": req.ID,
		"application_id": chosen.ID,
	}).Info("requirement: кандидат выбран")

	return &Candidates{
		Requirement:   req,
		Applications:  apps,
		SelectEnabled: req.SelectEnabled(s.UserID()),
	}, nil
}
