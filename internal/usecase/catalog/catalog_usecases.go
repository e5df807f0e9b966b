package catalog

import (
	"context"
	"strconv"

	"github.com/ignatzorin/campus-gateway/internal/action"
	"github.com/ignatzorin/campus-gateway/internal/cache"
	"github.com/ignatzorin/campus-gateway/internal/domain/entity"
	"github.com/ignatzorin/campus-gateway/internal/domain/repository"
	"github.com/ignatzorin/campus-gateway/internal/logger"
	"github.com/ignatzorin/campus-gateway/internal/metrics"
	"github.com/ignatzorin/campus-gateway/internal/pkg/apperror"
	"github.com/ignatzorin/campus-gateway/internal/projection"
	"github.com/ignatzorin/campus-gateway/internal/session"
)

// Listing - страница каталога с категориями для фильтра.
type Listing struct {
	Rows       []projection.Row[*entity.Service] `json:"rows"`
	Categories []string                          `json:"categories"`
}

// PublicCacheKey ключ анонимного каталога в кэше.
const PublicCacheKey = "catalogue:public"

// ServiceCache общий кэш публичного каталога.
type ServiceCache = cache.TTL[[]*entity.Service]

type BrowseUseCase struct {
	repo   repository.ServiceRepository
	cached *ServiceCache
}

func NewBrowseUseCase(repo repository.ServiceRepository) *BrowseUseCase {
	return &BrowseUseCase{repo: repo}
}

// WithCache включает кэш для анонимных запросов.
func (uc *BrowseUseCase) WithCache(c *ServiceCache) *BrowseUseCase {
	uc.cached = c
	return uc
}

// Execute публичный каталог: архивные услуги не показываются.
func (uc *BrowseUseCase) Execute(ctx context.Context, token string, f projection.Filter) (*Listing, error) {
	load := func(ctx context.Context) ([]*entity.Service, error) {
		return uc.repo.List(ctx, token, repository.ServiceFilter{})
	}

	var (
		services []*entity.Service
		err      error
	)
	if token == "" {
		services, err = uc.cached.GetOrLoad(ctx, PublicCacheKey, load)
	} else {
		services, err = load(ctx)
	}
	if err != nil {
		return nil, err
	}
	return &Listing{
		Rows:       projection.Catalogue(services, f),
		Categories: projection.Categories(services),
	}, nil
}

type ListMyServicesUseCase struct {
	repo repository.ServiceRepository
}

func NewListMyServicesUseCase(repo repository.ServiceRepository) *ListMyServicesUseCase {
	return &ListMyServicesUseCase{repo: repo}
}

// Execute загружает свои услуги вместе с архивом; видимость архива берётся
// из переключателя экрана my_services.
func (uc *ListMyServicesUseCase) Execute(ctx context.Context, s *session.Session, f projection.Filter) (*Listing, error) {
	services, err := uc.repo.List(ctx, s.Token, repository.ServiceFilter{Mine: true, ShowArchived: true})
	if err != nil {
		return nil, err
	}
	s.Views.SetServices(services)

	f.ShowArchived = s.Views.ShowArchived(session.ViewMyServices)
	cached := s.Views.Services()
	return &Listing{
		Rows:       projection.Apply(cached, f),
		Categories: projection.Categories(cached),
	}, nil
}

type ArchiveServiceUseCase struct {
	repo   repository.ServiceRepository
	cached *ServiceCache
}

func NewArchiveServiceUseCase(repo repository.ServiceRepository) *ArchiveServiceUseCase {
	return &ArchiveServiceUseCase{repo: repo}
}

// WithCache: после смены флага архива публичный каталог сбрасывается.
func (uc *ArchiveServiceUseCase) WithCache(c *ServiceCache) *ArchiveServiceUseCase {
	uc.cached = c
	return uc
}

func (uc *ArchiveServiceUseCase) Execute(ctx context.Context, s *session.Session, serviceID int64, archived bool) (*entity.Service, error) {
	service, err := uc.repo.GetByID(ctx, s.Token, serviceID)
	if err != nil {
		return nil, err
	}
	if service == nil {
		return nil, apperror.ErrServiceNotFound
	}
	if !service.IsOwnedBy(s.UserID()) {
		return nil, apperror.ErrForbidden
	}

	needed, err := entity.PlanArchive(service, archived)
	if err != nil {
		return nil, err
	}
	if !needed {
		return service, nil
	}

	key := action.Key(string(entity.KindService), service.ID, "archive")
	err = s.Actions.Run(ctx, key, func(ctx context.Context) error {
		return uc.repo.SetArchived(ctx, s.Token, service.ID, archived)
	})
	if err != nil {
		return nil, err
	}

	service.SetArchived(archived)
	uc.cached.Delete(PublicCacheKey)
	s.Views.PatchService(service.ID, func(cached *entity.Service) { cached.SetArchived(archived) })
	metrics.ArchiveTogglesTotal.WithLabelValues(string(entity.KindService), strconv.FormatBool(archived)).Inc()

	logger.Component("catalog").WithField("service_id", service.ID).Debug("catalog: флаг архива изменён")
	return service, nil
}
