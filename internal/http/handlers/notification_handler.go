package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/campus-gateway/internal/http/handlers/common"
	"github.com/ignatzorin/campus-gateway/internal/notify"
	"github.com/ignatzorin/campus-gateway/internal/pkg/apperror"
)

// NotificationHandler обслуживает историю уведомлений пользователя.
type NotificationHandler struct {
	toasts *notify.Service
}

func NewNotificationHandler(toasts *notify.Service) *NotificationHandler {
	return &NotificationHandler{toasts: toasts}
}

// List обрабатывает GET /api/notifications?limit=&unread=.
func (h *NotificationHandler) List(c *gin.Context) {
	sess, err := common.CurrentSession(c)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	unread, _ := common.ParseBoolQuery(c, "unread")

	toasts, err := h.toasts.List(c.Request.Context(), sess, common.ParseIntQuery(c, "limit", 0), unread)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	count, err := h.toasts.CountUnread(c.Request.Context(), sess)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.RespondJSON(c, http.StatusOK, gin.H{"notifications": toasts, "unread": count})
}

// MarkAsRead обрабатывает POST /api/notifications/:id/read.
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	sess, err := common.CurrentSession(c)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondError(c, apperror.New(apperror.ErrCodeBadRequest, "identificador de notificación inválido"))
		return
	}

	if err := h.toasts.MarkAsRead(c.Request.Context(), sess, id); err != nil {
		common.RespondError(c, err)
		return
	}
	common.RespondNoContent(c)
}

// MarkAllAsRead обрабатывает POST /api/notifications/read-all.
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	sess, err := common.CurrentSession(c)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	if err := h.toasts.MarkAllAsRead(c.Request.Context(), sess); err != nil {
		common.RespondError(c, err)
		return
	}
	common.RespondNoContent(c)
}
