package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/campus-gateway/internal/models"
)

// MemoryToastRepository - хранилище уведомлений без базы (DATABASE_URL не задан).
type MemoryToastRepository struct {
	mu     sync.Mutex
	toasts map[int64][]models.Toast
}

func NewMemoryToastRepository() *MemoryToastRepository {
	return &MemoryToastRepository{toasts: make(map[int64][]models.Toast)}
}

func (r *MemoryToastRepository) Create(ctx context.Context, toast *models.Toast) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	toast.ID = uuid.New()
	toast.CreatedAt = time.Now()

	list := append(r.toasts[toast.UserID], *toast)
	if len(list) > MaxToastsPerUser {
		list = list[len(list)-MaxToastsPerUser:]
	}
	r.toasts[toast.UserID] = list
	return nil
}

func (r *MemoryToastRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Toast, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, list := range r.toasts {
		for i := range list {
			if list[i].ID == id {
				t := list[i]
				return &t, nil
			}
		}
	}
	return nil, ErrToastNotFound
}

func (r *MemoryToastRepository) List(ctx context.Context, userID int64, limit int, unreadOnly bool) ([]models.Toast, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Новые в конце списка, отдаём от новых к старым.
	list := r.toasts[userID]
	out := make([]models.Toast, 0, len(list))
	for i := len(list) - 1; i >= 0; i-- {
		if unreadOnly && list[i].IsRead {
			continue
		}
		out = append(out, list[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *MemoryToastRepository) MarkAsRead(ctx context.Context, id uuid.UUID, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.toasts[userID]
	for i := range list {
		if list[i].ID == id {
			list[i].IsRead = true
			return nil
		}
	}
	return ErrToastNotFound
}

func (r *MemoryToastRepository) MarkAllAsRead(ctx context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.toasts[userID]
	for i := range list {
		list[i].IsRead = true
	}
	return nil
}

func (r *MemoryToastRepository) CountUnread(ctx context.Context, userID int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, t := range r.toasts[userID] {
		if !t.IsRead {
			count++
		}
	}
	return count, nil
}

type watermarkKey struct {
	userID    int64
	serviceID int64
}

// MemoryWatermarkRepository - водяные знаки наблюдателей в памяти процесса.
type MemoryWatermarkRepository struct {
	mu    sync.Mutex
	marks map[watermarkKey]models.Watermark
}

func NewMemoryWatermarkRepository() *MemoryWatermarkRepository {
	return &MemoryWatermarkRepository{marks: make(map[watermarkKey]models.Watermark)}
}

func (r *MemoryWatermarkRepository) Get(ctx context.Context, userID, serviceID int64) (*models.Watermark, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wm, ok := r.marks[watermarkKey{userID, serviceID}]
	if !ok {
		return nil, nil
	}
	return &wm, nil
}

func (r *MemoryWatermarkRepository) Save(ctx context.Context, wm *models.Watermark) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	wm.UpdatedAt = time.Now()
	r.marks[watermarkKey{wm.UserID, wm.ServiceID}] = *wm
	return nil
}
