package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ignatzorin/campus-gateway/internal/config"
	"github.com/ignatzorin/campus-gateway/internal/domain/valueobject"
	"github.com/ignatzorin/campus-gateway/internal/http/handlers"
	"github.com/ignatzorin/campus-gateway/internal/http/middleware"
	"github.com/ignatzorin/campus-gateway/internal/session"
)

// authRateLimit - запросов на вход за период RATE_LIMIT_PERIOD с одного IP.
const authRateLimit = 5

// Handlers - обработчики, которые подключает роутер.
type Handlers struct {
	Auth          *handlers.AuthHandler
	Catalog       *handlers.CatalogHandler
	Orders        *handlers.OrderHandler
	Requirements  *handlers.RequirementHandler
	Views         *handlers.ViewHandler
	Notifications *handlers.NotificationHandler
	WS            *handlers.WSHandler
	Health        *handlers.HealthHandler
}

func SetupRouter(cfg *config.Config, sessions *session.Manager, h Handlers) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", h.Health.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware(authRateLimit, cfg.RateLimitPeriod))
	{
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/verify-2fa", h.Auth.VerifyCode)
	}

	// Публичные маршруты
	api.GET("/services", h.Catalog.Browse)
	api.GET("/requirements/board", h.Requirements.Board)

	protected := api.Group("/")
	protected.Use(middleware.SessionAuth(sessions))
	protected.Use(middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod))
	{
		protected.POST("/auth/logout", h.Auth.Logout)
		protected.GET("/me", h.Auth.Me)
		protected.PUT("/me", h.Auth.UpdateProfile)

		protected.GET("/services/my", h.Catalog.MyServices)
		protected.PATCH("/services/:id/archive", middleware.IDValidator("id"), h.Catalog.Archive)
		protected.GET("/services/:id/order", middleware.IDValidator("id"), h.Orders.ServiceOrder)
		protected.POST("/services/:id/orders", middleware.IDValidator("id"), h.Orders.Create)

		protected.GET("/orders/my", h.Orders.MyOrders)
		protected.GET("/orders/:id", middleware.IDValidator("id"), h.Orders.Get)
		protected.POST("/orders/:id/approve", middleware.IDValidator("id"), h.Orders.Transition(valueobject.OrderActionApprove))
		protected.POST("/orders/:id/in-review", middleware.IDValidator("id"), h.Orders.Transition(valueobject.OrderActionMarkInReview))
		protected.POST("/orders/:id/finalize", middleware.IDValidator("id"), h.Orders.Transition(valueobject.OrderActionFinalize))
		protected.POST("/orders/:id/reject", middleware.IDValidator("id"), h.Orders.Transition(valueobject.OrderActionReject))
		protected.POST("/orders/:id/cancel", middleware.IDValidator("id"), h.Orders.Transition(valueobject.OrderActionCancel))
		protected.PATCH("/orders/:id/archive", middleware.IDValidator("id"), h.Orders.Archive)
		protected.POST("/orders/:id/review", middleware.IDValidator("id"), h.Orders.Review)

		protected.GET("/requirements/my", h.Requirements.Mine)
		protected.POST("/requirements", h.Requirements.Publish)
		protected.POST("/requirements/:id/apply", middleware.IDValidator("id"), h.Requirements.Apply)
		protected.GET("/requirements/:id/applications", middleware.IDValidator("id"), h.Requirements.Applications)
		protected.POST("/requirements/:id/applications/:appId/select", middleware.IDValidator("id", "appId"), h.Requirements.Select)
		protected.PATCH("/requirements/:id/archive", middleware.IDValidator("id"), h.Requirements.Archive)

		protected.PUT("/views/:view/show-archived", h.Views.SetShowArchived)
		protected.GET("/actions/:key", h.Views.ActionState)
		protected.POST("/actions/:key/open", h.Views.OpenAction)
		protected.POST("/actions/:key/cancel", h.Views.CancelAction)

		protected.GET("/notifications", h.Notifications.List)
		protected.POST("/notifications/read-all", h.Notifications.MarkAllAsRead)
		protected.POST("/notifications/:id/read", h.Notifications.MarkAsRead)
	}

	// WebSocket: сессия передаётся в ?token=, лимит запросов не применяется.
	wsGroup := api.Group("/ws")
	wsGroup.Use(middleware.SessionAuth(sessions))
	wsGroup.GET("/services/:id/status", middleware.IDValidator("id"), h.WS.ServiceStatus)

	return r
}
