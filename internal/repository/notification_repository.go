package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/campus-gateway/internal/models"
	"github.com/ignatzorin/campus-gateway/internal/repository/common"
)

// ErrToastNotFound возвращается, когда уведомление не найдено.
var ErrToastNotFound = errors.New("toast not found")

// MaxToastsPerUser - сколько последних уведомлений хранится на пользователя.
const MaxToastsPerUser = 100

// ToastRepository отвечает за историю уведомлений в PostgreSQL.
type ToastRepository struct {
	db *sqlx.DB
}

func NewToastRepository(db *sqlx.DB) *ToastRepository {
	return &ToastRepository{db: db}
}

// Create сохраняет уведомление и удаляет самые старые сверх лимита.
func (r *ToastRepository) Create(ctx context.Context, toast *models.Toast) error {
	if len(toast.Payload) == 0 {
		toast.Payload = json.RawMessage(`{}`)
	}

	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO toasts (user_id, kind, message, payload, is_read)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at
		`
		if err := tx.QueryRowxContext(
			ctx,
			query,
			toast.UserID,
			toast.Kind,
			toast.Message,
			toast.Payload,
			toast.IsRead,
		).Scan(&toast.ID, &toast.CreatedAt); err != nil {
			return fmt.Errorf("create %w", err)
		}

		trim := `
			DELETE FROM toasts
			WHERE user_id = $1 AND id NOT IN (
				SELECT id FROM toasts WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2
			)
		`
		if _, err := tx.ExecContext(ctx, trim, toast.UserID, MaxToastsPerUser); err != nil {
			return fmt.Errorf("trim %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("toast repository: %w", err)
	}
	return nil
}

// GetByID возвращает уведомление по идентификатору.
func (r *ToastRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Toast, error) {
	return common.GetOne[models.Toast](ctx, r.db, ErrToastNotFound, `SELECT * FROM toasts WHERE id = $1`, id)
}

// List возвращает последние уведомления пользователя.
func (r *ToastRepository) List(ctx context.Context, userID int64, limit int, unreadOnly bool) ([]models.Toast, error) {
	query := `SELECT * FROM toasts WHERE user_id = $1`
	if unreadOnly {
		query += ` AND is_read = FALSE`
	}
	query += ` ORDER BY created_at DESC LIMIT $2`

	var toasts []models.Toast
	if err := r.db.SelectContext(ctx, &toasts, query, userID, limit); err != nil {
		return nil, fmt.Errorf("toast repository: list %w", err)
	}
	return toasts, nil
}

// MarkAsRead отмечает уведомление пользователя как прочитанное.
func (r *ToastRepository) MarkAsRead(ctx context.Context, id uuid.UUID, userID int64) error {
	result, err := r.db.ExecContext(ctx, `UPDATE toasts SET is_read = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("toast repository: mark as read %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("toast repository: mark as read rows affected %w", err)
	}
	if rowsAffected == 0 {
		return ErrToastNotFound
	}
	return nil
}

// MarkAllAsRead отмечает все уведомления пользователя как прочитанные.
func (r *ToastRepository) MarkAllAsRead(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE toasts SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE`, userID)
	if err != nil {
		return fmt.Errorf("toast repository: mark all as read %w", err)
	}
	return nil
}

// CountUnread возвращает количество непрочитанных уведомлений пользователя.
func (r *ToastRepository) CountUnread(ctx context.Context, userID int64) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM toasts WHERE user_id = $1 AND is_read = FALSE`, userID); err != nil {
		return 0, fmt.Errorf("toast repository: count unread %w", err)
	}
	return count, nil
}
