package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/ignatzorin/campus-gateway/internal/domain/valueobject"
	"github.com/ignatzorin/campus-gateway/internal/http/handlers/common"
	"github.com/ignatzorin/campus-gateway/internal/pkg/apperror"
	"github.com/ignatzorin/campus-gateway/internal/session"
	"github.com/ignatzorin/campus-gateway/internal/usecase/order"
)

// OrderUseCases - набор сценариев заказа для OrderHandler.
type OrderUseCases struct {
	ServiceOrder *order.GetServiceOrderUseCase
	Get          *order.GetOrderUseCase
	List         *order.ListOrdersUseCase
	Create       *order.CreateOrderUseCase
	Transition   *order.TransitionOrderUseCase
	Archive      *order.ArchiveOrderUseCase
	Review       *order.SubmitReviewUseCase
}

// OrderHandler обслуживает заказы: создание, переходы статуса, архив и отзыв.
type OrderHandler struct {
	actionResponder
	uc OrderUseCases
}

func NewOrderHandler(toasts Toaster, uc OrderUseCases) *OrderHandler {
	return &OrderHandler{actionResponder: actionResponder{toasts: toasts}, uc: uc}
}

type createOrderRequest struct {
	Total *decimal.Decimal `json:"monto_total"`
	Notes string           `json:"notas"`
}

type reviewRequest struct {
	Rating  int    `json:"calificacion" binding:"required"`
	Comment string `json:"comentario"`
}

// ServiceOrder обрабатывает GET /api/services/:id/order.
func (h *OrderHandler) ServiceOrder(c *gin.Context) {
	sess, err := common.CurrentSession(c)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	serviceID, err := common.ParseIDParam(c, "id")
	if err != nil {
		common.RespondError(c, err)
		return
	}

	state, err := h.uc.ServiceOrder.Execute(c.Request.Context(), sess, serviceID)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.RespondJSON(c, http.StatusOK, state)
}

// Create обрабатывает POST /api/services/:id/orders.
func (h *OrderHandler) Create(c *gin.Context) {
	sess, err := common.CurrentSession(c)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	serviceID, err := common.ParseIDParam(c, "id")
	if err != nil {
		common.RespondError(c, err)
		return
	}

	var req createOrderRequest
	if c.Request.ContentLength != 0 {
		if err := common.BindJSON(c, &req); err != nil {
			h.fail(c, sess, err)
			return
		}
	}

	input := order.CreateOrderInput{ServiceID: serviceID, Notes: req.Notes}
	if req.Total != nil {
		input.Total = *req.Total
	}

	created, err := h.uc.Create.Execute(c.Request.Context(), sess, input)
	if err != nil {
		h.fail(c, sess, err)
		return
	}
	h.succeed(c, sess, http.StatusCreated, "Pedido creado", created)
}

// MyOrders обрабатывает GET /api/orders/my?role=client|provider.
func (h *OrderHandler) MyOrders(c *gin.Context) {
	sess, err := common.CurrentSession(c)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	role := order.RoleClient
	switch c.Query("role") {
	case "", "client", order.RoleClient:
	case "provider", order.RoleProvider:
		role = order.RoleProvider
	default:
		common.RespondError(c, apperror.New(apperror.ErrCodeValidation, "rol de listado inválido"))
		return
	}

	listFilter(c, sess, session.ViewMyOrders)
	rows, err := h.uc.List.Execute(c.Request.Context(), sess, order.ListOrdersInput{
		Role:   role,
		Search: c.Query("q"),
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.RespondJSON(c, http.StatusOK, rows)
}

// Get обрабатывает GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
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

	o, err := h.uc.Get.Execute(c.Request.Context(), sess, id)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.RespondJSON(c, http.StatusOK, o)
}

var transitionMessages = map[valueobject.OrderAction]string{
	valueobject.OrderActionApprove:      "Pedido aprobado",
	valueobject.OrderActionMarkInReview: "Pedido marcado como casi terminado",
	valueobject.OrderActionFinalize:     "Pedido finalizado",
	valueobject.OrderActionReject:       "Pedido rechazado",
	valueobject.OrderActionCancel:       "Pedido cancelado",
}

// Transition возвращает обработчик POST /api/orders/:id/<действие>.
func (h *OrderHandler) Transition(act valueobject.OrderAction) gin.HandlerFunc {
	return func(c *gin.Context) {
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

		updated, err := h.uc.Transition.Execute(c.Request.Context(), sess, id, act)
		if err != nil {
			h.fail(c, sess, err)
			return
		}
		h.succeed(c, sess, http.StatusOK, transitionMessages[act], updated)
	}
}

// Archive обрабатывает PATCH /api/orders/:id/archive.
func (h *OrderHandler) Archive(c *gin.Context) {
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
	h.succeed(c, sess, http.StatusOK, archiveMessage(*req.Archived, "Pedido archivado", "Pedido restaurado"), updated)
}

// Review обрабатывает POST /api/orders/:id/review.
func (h *OrderHandler) Review(c *gin.Context) {
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
	var req reviewRequest
	if err := common.BindJSON(c, &req); err != nil {
		h.fail(c, sess, err)
		return
	}

	updated, err := h.uc.Review.Execute(c.Request.Context(), sess, order.SubmitReviewInput{
		OrderID: id,
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		h.fail(c, sess, err)
		return
	}
	h.succeed(c, sess, http.StatusCreated, "¡Gracias por tu reseña!", updated)
}
