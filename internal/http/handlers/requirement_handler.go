package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/campus-gateway/internal/http/handlers/common"
	"github.com/ignatzorin/campus-gateway/internal/session"
	"github.com/ignatzorin/campus-gateway/internal/usecase/requirement"
)

// RequirementUseCases - сценарии требований и откликов.
type RequirementUseCases struct {
	Board        *requirement.BoardUseCase
	Mine         *requirement.ListMyRequirementsUseCase
	Publish      *requirement.PublishRequirementUseCase
	Apply        *requirement.ApplyUseCase
	Applications *requirement.ListApplicationsUseCase
	Select       *requirement.SelectCandidateUseCase
	Archive      *requirement.ArchiveRequirementUseCase
}

// RequirementHandler обслуживает доску заданий, публикацию и выбор кандидата.
type RequirementHandler struct {
	actionResponder
	uc RequirementUseCases
}

func NewRequirementHandler(toasts Toaster, uc RequirementUseCases) *RequirementHandler {
	return &RequirementHandler{actionResponder: actionResponder{toasts: toasts}, uc: uc}
}

type publishRequest struct {
	Title        string  `json:"titulo" binding:"required"`
	Description  string  `json:"descripcion" binding:"required"`
	TargetCareer *string `json:"carrera_objetivo"`
}

// Board обрабатывает GET /api/requirements/board.
func (h *RequirementHandler) Board(c *gin.Context) {
	rows, err := h.uc.Board.Execute(c.Request.Context(), "", listFilter(c, nil, ""))
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.RespondJSON(c, http.StatusOK, rows)
}

// Mine обрабатывает GET /api/requirements/my.
func (h *RequirementHandler) Mine(c *gin.Context) {
	sess, err := common.CurrentSession(c)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	rows, err := h.uc.Mine.Execute(c.Request.Context(), sess, listFilter(c, sess, session.ViewMyRequirements))
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.RespondJSON(c, http.StatusOK, rows)
}

// Publish обрабатывает POST /api/requirements.
func (h *RequirementHandler) Publish(c *gin.Context) {
	sess, err := common.CurrentSession(c)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	var req publishRequest
	if err := common.BindJSON(c, &req); err != nil {
		h.fail(c, sess, err)
		return
	}

	created, err := h.uc.Publish.Execute(c.Request.Context(), sess, requirement.PublishInput{
		Title:        req.Title,
		Description:  req.Description,
		TargetCareer: req.TargetCareer,
	})
	if err != nil {
		h.fail(c, sess, err)
		return
	}
	h.succeed(c, sess, http.StatusCreated, "Requerimiento publicado", created)
}

// Apply обрабатывает POST /api/requirements/:id/apply.
func (h *RequirementHandler) Apply(c *gin.Context) {
	sess, err := common.CurrentSession(c)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		common.RespondError(c, err)
		return
	}

	if err := h.uc.Apply.Execute(c.Request.Context(), sess, id); err != nil {
		h.fail(c, sess, err)
		return
	}
	h.succeed(c, sess, http.StatusCreated, "Postulación enviada", nil)
}

// Applications обрабатывает GET /api/requirements/:id/applications.
func (h *RequirementHandler) Applications(c *gin.Context) {
	sess, err := common.CurrentSession(c)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		common.RespondError(c, err)
		return
	}

	candidates, err := h.uc.Applications.Execute(c.Request.Context(), sess, id)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.RespondJSON(c, http.StatusOK, candidates)
}

// Select обрабатывает POST /api/requirements/:id/applications/:appId/select.
func (h *RequirementHandler) Select(c *gin.Context) {
	sess, err := common.CurrentSession(c)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		common.RespondError(c, err)
		return
	}
	appID, err := common.ParseIDParam(c, "appId")
	if err != nil {
		common.RespondError(c, err)
		return
	}

	candidates, err := h.uc.Select.Execute(c.Request.Context(), sess, id, appID)
	if err != nil {
		h.fail(c, sess, err)
		return
	}
	h.succeed(c, sess, http.StatusOK, "Candidato seleccionado", candidates)
}

// Archive обрабатывает PATCH /api/requirements/:id/archive.
func (h *RequirementHandler) Archive(c *gin.Context) {
	sess, err := common.CurrentSession(c)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		common.RespondError(c, err)
		return
	}
	var req archiveRequest
	if err := common.BindJSON(c, &req); err != nil {
		h.fail(c, sess, err)
		return
	}

	updated, err := h.uc.Archive.Execute(c.Request.Context(), sess, id, *req.Archived)
	if err != nil {
		h.fail(c, sess, err)
		return
	}
	h.succeed(c, sess, http.StatusOK, archiveMessage(*req.Archived, "Requerimiento archivado", "Requerimiento restaurado"), updated)
}
