package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Типы уведомлений.
const (
	ToastSuccess = "success"
	ToastError   = "error"
	ToastInfo    = "info"
)

// Toast - уведомление пользователю о результате действия.
type Toast struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	UserID    int64           `db:"user_id" json:"user_id"`
	Kind      string          `db:"kind" json:"kind"`
	Message   string          `db:"message" json:"message"`
	Payload   json.RawMessage `db:"payload" json:"payload,omitempty"`
	IsRead    bool            `db:"is_read" json:"is_read"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

// Watermark - последний статус заказа, который видел наблюдатель услуги.
type Watermark struct {
	UserID     int64     `db:"user_id" json:"user_id"`
	ServiceID  int64     `db:"service_id" json:"service_id"`
	OrderID    int64     `db:"order_id" json:"order_id"`
	LastStatus string    `db:"last_status" json:"last_status"`
	Prompted   bool      `db:"prompted" json:"prompted"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}
