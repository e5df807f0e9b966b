package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/campus-gateway/internal/http/handlers/common"
	"github.com/ignatzorin/campus-gateway/internal/models"
	"github.com/ignatzorin/campus-gateway/internal/projection"
	"github.com/ignatzorin/campus-gateway/internal/session"
)

// Toaster фиксирует результат действия в уведомлениях пользователя.
type Toaster interface {
	Success(ctx context.Context, sess *session.Session, message string, data any) *models.Toast
	Failure(ctx context.Context, sess *session.Session, err error) *models.Toast
}

// actionResponder отвечает на изменяющие действия: каждое действие
// заканчивается уведомлением об успехе или ошибке.
type actionResponder struct {
	toasts Toaster
}

func (r actionResponder) fail(c *gin.Context, sess *session.Session, err error) {
	if sess != nil && r.toasts != nil {
		r.toasts.Failure(c.Request.Context(), sess, err)
	}
	common.RespondError(c, err)
}

func (r actionResponder) succeed(c *gin.Context, sess *session.Session, status int, message string, data any) {
	if r.toasts != nil {
		r.toasts.Success(c.Request.Context(), sess, message, data)
	}
	common.RespondSuccess(c, status, message, data)
}

// listFilter читает q, category и show_archived. Переданный show_archived
// запоминается в переключателе экрана сессии.
func listFilter(c *gin.Context, sess *session.Session, view session.View) projection.Filter {
	f := projection.Filter{
		Search:   c.Query("q"),
		Category: c.Query("category"),
	}
	if sess != nil {
		if show, ok := common.ParseBoolQuery(c, "show_archived"); ok {
			sess.Views.SetShowArchived(view, show)
		}
		f.ShowArchived = sess.Views.ShowArchived(view)
	}
	return f
}

type archiveRequest struct {
	Archived *bool `json:"archivado" binding:"required"`
}

func archiveMessage(archived bool, archivedMsg, restoredMsg string) string {
	if archived {
		return archivedMsg
	}
	return restoredMsg
}
