package order

import (
	"context"
	"strconv"
	"strings"

	"github.com/ignatzorin/campus-gateway/internal/action"
	"github.com/ignatzorin/campus-gateway/internal/domain/entity"
	"github.com/ignatzorin/campus-gateway/internal/domain/repository"
	"github.com/ignatzorin/campus-gateway/internal/domain/valueobject"
	"github.com/ignatzorin/campus-gateway/internal/logger"
	"github.com/ignatzorin/campus-gateway/internal/metrics"
	"github.com/ignatzorin/campus-gateway/internal/pkg/apperror"
	"github.com/ignatzorin/campus-gateway/internal/session"
)

type ArchiveOrderUseCase struct {
	orderRepo   repository.OrderRepository
	serviceRepo repository.ServiceRepository
}

func NewArchiveOrderUseCase(orderRepo repository.OrderRepository, serviceRepo repository.ServiceRepository) *ArchiveOrderUseCase {
	return &ArchiveOrderUseCase{orderRepo: orderRepo, serviceRepo: serviceRepo}
}

// Execute архивирует или восстанавливает заказ. Архивировать можно только
// завершённый или отменённый заказ; повторный вызов ничего не отправляет.
func (uc *ArchiveOrderUseCase) Execute(ctx context.Context, s *session.Session, orderID int64, archived bool) (*entity.Order, error) {
	o, err := uc.orderRepo.GetByID(ctx, s.Token, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, apperror.ErrOrderNotFound
	}

	if o.ClientID != s.UserID() {
		service, err := uc.serviceRepo.GetByID(ctx, s.Token, o.ServiceID)
		if err != nil {
			return nil, err
		}
		if !service.IsOwnedBy(s.UserID()) {
			return nil, apperror.ErrForbidden
		}
	}

	needed, err := entity.PlanArchive(o, archived)
	if err != nil {
		return nil, err
	}
	if !needed {
		return o, nil
	}

	key := action.Key(string(entity.KindOrder), o.ID, "archive")
	err = s.Actions.Run(ctx, key, func(ctx context.Context) error {
		return uc.orderRepo.SetArchived(ctx, s.Token, o.ID, archived)
	})
	if err != nil {
		return nil, err
	}

	o.SetArchived(archived)
	if !s.Views.PatchOrder(o.ID, func(cached *entity.Order) { cached.SetArchived(archived) }) {
		s.Views.UpsertOrder(o)
	}
	metrics.ArchiveTogglesTotal.WithLabelValues(string(entity.KindOrder), strconv.FormatBool(archived)).Inc()
	return o, nil
}

type SubmitReviewInput struct {
	OrderID int64
	Rating  int
	Comment string
}

type SubmitReviewUseCase struct {
	orderRepo  repository.OrderRepository
	reviewRepo repository.ReviewRepository
}

func NewSubmitReviewUseCase(orderRepo repository.OrderRepository, reviewRepo repository.ReviewRepository) *SubmitReviewUseCase {
	return &SubmitReviewUseCase{orderRepo: orderRepo, reviewRepo: reviewRepo}
}

// Execute отправляет отзыв клиента на завершённый заказ.
func (uc *SubmitReviewUseCase) Execute(ctx context.Context, s *session.Session, input SubmitReviewInput) (*entity.Order, error) {
	rating, err := valueobject.NewRating(input.Rating)
	if err != nil {
		return nil, err
	}

	o, err := uc.orderRepo.GetByID(ctx, s.Token, input.OrderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, apperror.ErrOrderNotFound
	}
	if err := o.CanReview(s.UserID()); err != nil {
		return nil, err
	}

	var review *entity.Review
	key := action.Key(string(entity.KindOrder), o.ID, "review")
	err = s.Actions.Run(ctx, key, func(ctx context.Context) error {
		r, err := uc.reviewRepo.Create(ctx, s.Token, repository.CreateReviewInput{
			ServiceID: o.ServiceID,
			OrderID:   o.ID,
			Rating:    int(rating),
			Comment:   strings.TrimSpace(input.Comment),
		})
		if err != nil {
			return err
		}
		review = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	if review == nil {
		review = &entity.Review{}
	}
	review.OrderID = o.ID
	review.ServiceID = o.ServiceID
	if review.Rating == 0 {
		review.Rating = int(rating)
		review.Comment = strings.TrimSpace(input.Comment)
	}

	o.AttachReview(review)
	if !s.Views.PatchOrder(o.ID, func(cached *entity.Order) {
		cp := *review
		cached.AttachReview(&cp)
	}) {
		s.Views.UpsertOrder(o)
	}

	logger.Component("order").WithField("order_id", o.ID).Info("order: отзыв отправлен")
	return o, nil
}
