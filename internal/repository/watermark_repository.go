package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/campus-gateway/internal/models"
)

// WatermarkRepository хранит последний увиденный наблюдателем статус заказа.
type WatermarkRepository struct {
	db *sqlx.DB
}

func NewWatermarkRepository(db *sqlx.DB) *WatermarkRepository {
	return &WatermarkRepository{db: db}
}

// Get возвращает nil, если пользователь ещё не наблюдал услугу.
func (r *WatermarkRepository) Get(ctx context.Context, userID, serviceID int64) (*models.Watermark, error) {
	var wm models.Watermark
	query := `SELECT * FROM poll_watermarks WHERE user_id = $1 AND service_id = $2`
	if err := r.db.GetContext(ctx, &wm, query, userID, serviceID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("watermark repository: get %w", err)
	}
	return &wm, nil
}

// Save создаёт или обновляет водяной знак.
func (r *WatermarkRepository) Save(ctx context.Context, wm *models.Watermark) error {
	query := `
		INSERT INTO poll_watermarks (user_id, service_id, order_id, last_status, prompted, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (user_id, service_id) DO UPDATE
		SET order_id = EXCLUDED.order_id,
			last_status = EXCLUDED.last_status,
			prompted = EXCLUDED.prompted,
			updated_at = NOW()
		RETURNING updated_at
	`
	if err := r.db.QueryRowxContext(
		ctx,
		query,
		wm.UserID,
		wm.ServiceID,
		wm.OrderID,
		wm.LastStatus,
		wm.Prompted,
	).Scan(&wm.UpdatedAt); err != nil {
		return fmt.Errorf("watermark repository: save %w", err)
	}
	return nil
}
