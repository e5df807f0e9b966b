package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/campus-gateway/internal/logger"
	"github.com/ignatzorin/campus-gateway/internal/models"
	"github.com/ignatzorin/campus-gateway/internal/pkg/apperror"
	"github.com/ignatzorin/campus-gateway/internal/repository"
	"github.com/ignatzorin/campus-gateway/internal/session"
)

// EventToast - имя события WebSocket для уведомлений.
const EventToast = "toast"

const defaultListLimit = 20

// ToastStore описывает хранилище уведомлений.
type ToastStore interface {
	Create(ctx context.Context, toast *models.Toast) error
	List(ctx context.Context, userID int64, limit int, unreadOnly bool) ([]models.Toast, error)
	MarkAsRead(ctx context.Context, id uuid.UUID, userID int64) error
	MarkAllAsRead(ctx context.Context, userID int64) error
	CountUnread(ctx context.Context, userID int64) (int, error)
}

// Broadcaster доставляет событие подключениям сессии.
type Broadcaster interface {
	BroadcastToSession(sessionID uuid.UUID, event string, data any) error
}

// Service сохраняет уведомления о результатах действий и рассылает их.
type Service struct {
	store ToastStore
	hub   Broadcaster
}

func NewService(store ToastStore, hub Broadcaster) *Service {
	return &Service{store: store, hub: hub}
}

// Success фиксирует успешное действие.
func (s *Service) Success(ctx context.Context, sess *session.Session, message string, data any) *models.Toast {
	return s.emit(ctx, sess, models.ToastSuccess, message, data)
}

// Failure фиксирует ошибку действия. Текст берётся из apperror.UserMessage.
func (s *Service) Failure(ctx context.Context, sess *session.Session, err error) *models.Toast {
	details := map[string]any{"code": apperror.CodeOf(err)}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) && len(appErr.Details) > 0 {
		details["details"] = appErr.Details
	}
	return s.emit(ctx, sess, models.ToastError, apperror.UserMessage(err), details)
}

// Info - служебное уведомление (например, приглашение оставить отзыв).
func (s *Service) Info(ctx context.Context, sess *session.Session, message string, data any) *models.Toast {
	return s.emit(ctx, sess, models.ToastInfo, message, data)
}

func (s *Service) emit(ctx context.Context, sess *session.Session, kind, message string, data any) *models.Toast {
	log := logger.Component("notify").WithFields(logrus.Fields{
		"session_id": sess.ID,
		"user_id":    sess.UserID(),
		"kind":       kind,
	})

	toast := &models.Toast{
		UserID:  sess.UserID(),
		Kind:    kind,
		Message: message,
	}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			log.WithError(err).Warn("notify: не удалось сериализовать данные уведомления")
		} else {
			toast.Payload = raw
		}
	}

	// Уведомление доставляется даже если сохранить его не удалось.
	if err := s.store.Create(ctx, toast); err != nil {
		log.WithError(err).Error("notify: не удалось сохранить уведомление")
	}
	if s.hub != nil {
		if err := s.hub.BroadcastToSession(sess.ID, EventToast, toast); err != nil {
			log.WithError(err).Debug("notify: не удалось отправить уведомление")
		}
	}
	return toast
}

// List возвращает последние уведомления пользователя.
func (s *Service) List(ctx context.Context, sess *session.Session, limit int, unreadOnly bool) ([]models.Toast, error) {
	if limit <= 0 || limit > repository.MaxToastsPerUser {
		limit = defaultListLimit
	}
	toasts, err := s.store.List(ctx, sess.UserID(), limit, unreadOnly)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "no se pudieron cargar las notificaciones")
	}
	return toasts, nil
}

func (s *Service) MarkAsRead(ctx context.Context, sess *session.Session, id uuid.UUID) error {
	if err := s.store.MarkAsRead(ctx, id, sess.UserID()); err != nil {
		if errors.Is(err, repository.ErrToastNotFound) {
			return apperror.New(apperror.ErrCodeNotFound, "notificación no encontrada")
		}
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "no se pudo actualizar la notificación")
	}
	return nil
}

func (s *Service) MarkAllAsRead(ctx context.Context, sess *session.Session) error {
	if err := s.store.MarkAllAsRead(ctx, sess.UserID()); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "no se pudieron actualizar las notificaciones")
	}
	return nil
}

func (s *Service) CountUnread(ctx context.Context, sess *session.Session) (int, error) {
	count, err := s.store.CountUnread(ctx, sess.UserID())
	if err != nil {
		return 0, fmt.Errorf("notify: count unread %w", err)
	}
	return count, nil
}
