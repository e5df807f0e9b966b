package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/campus-gateway/internal/http/handlers/common"
	"github.com/ignatzorin/campus-gateway/internal/pkg/apperror"
	"github.com/ignatzorin/campus-gateway/internal/session"
)

// ViewHandler управляет состоянием экранов сессии и диалогами действий.
type ViewHandler struct{}

func NewViewHandler() *ViewHandler {
	return &ViewHandler{}
}

type showArchivedRequest struct {
	Show *bool `json:"show" binding:"required"`
}

// SetShowArchived обрабатывает PUT /api/views/:view/show-archived.
func (h *ViewHandler) SetShowArchived(c *gin.Context) {
	sess, err := common.CurrentSession(c)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	view := session.View(c.Param("view"))
	if !view.IsValid() {
		common.RespondError(c, apperror.New(apperror.ErrCodeNotFound, "vista desconocida"))
		return
	}
	var req showArchivedRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.RespondError(c, err)
		return
	}

	sess.Views.SetShowArchived(view, *req.Show)
	common.RespondJSON(c, http.StatusOK, gin.H{"view": view, "show_archived": *req.Show})
}

// ActionState обрабатывает GET /api/actions/:key: состояние диалога действия,
// по нему клиент блокирует кнопку, пока действие выполняется.
func (h *ViewHandler) ActionState(c *gin.Context) {
	sess, err := common.CurrentSession(c)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.RespondJSON(c, http.StatusOK, sess.Actions.State(c.Param("key")))
}

// OpenAction обрабатывает POST /api/actions/:key/open: показ подтверждения.
func (h *ViewHandler) OpenAction(c *gin.Context) {
	h.transition(c, func(sess *session.Session, key string) error { return sess.Actions.Open(key) })
}

// CancelAction обрабатывает POST /api/actions/:key/cancel.
func (h *ViewHandler) CancelAction(c *gin.Context) {
	h.transition(c, func(sess *session.Session, key string) error { return sess.Actions.Cancel(key) })
}

func (h *ViewHandler) transition(c *gin.Context, fn func(*session.Session, string) error) {
	sess, err := common.CurrentSession(c)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	key := c.Param("key")
	if err := fn(sess, key); err != nil {
		common.RespondError(c, err)
		return
	}
	common.RespondJSON(c, http.StatusOK, sess.Actions.State(key))
}
