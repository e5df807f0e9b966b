package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/campus-gateway/internal/http/handlers/common"
	"github.com/ignatzorin/campus-gateway/internal/session"
	"github.com/ignatzorin/campus-gateway/internal/usecase/catalog"
)

// CatalogHandler обслуживает каталог и собственные услуги.
type CatalogHandler struct {
	actionResponder
	browse   *catalog.BrowseUseCase
	mine     *catalog.ListMyServicesUseCase
	archiver *catalog.ArchiveServiceUseCase
}

func NewCatalogHandler(toasts Toaster, browse *catalog.BrowseUseCase, mine *catalog.ListMyServicesUseCase, archiver *catalog.ArchiveServiceUseCase) *CatalogHandler {
	return &CatalogHandler{
		actionResponder: actionResponder{toasts: toasts},
		browse:          browse,
		mine:            mine,
		archiver:        archiver,
	}
}

// Browse обрабатывает GET /api/services.
func (h *CatalogHandler) Browse(c *gin.Context) {
	listing, err := h.browse.Execute(c.Request.Context(), "", listFilter(c, nil, ""))
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.RespondJSON(c, http.StatusOK, listing)
}

// MyServices обрабатывает GET /api/services/my.
func (h *CatalogHandler) MyServices(c *gin.Context) {
	sess, err := common.CurrentSession(c)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	listing, err := h.mine.Execute(c.Request.Context(), sess, listFilter(c, sess, session.ViewMyServices))
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.RespondJSON(c, http.StatusOK, listing)
}

// Archive обрабатывает PATCH /api/services/:id/archive.
func (h *CatalogHandler) Archive(c *gin.Context) {
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

	svc, err := h.archiver.Execute(c.Request.Context(), sess, id, *req.Archived)
	if err != nil {
		h.fail(c, sess, err)
		return
	}
	h.succeed(c, sess, http.StatusOK, archiveMessage(*req.Archived, "Servicio archivado", "Servicio restaurado"), svc)
}
