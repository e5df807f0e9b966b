package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/ignatzorin/campus-gateway/internal/goroutine"
	"github.com/ignatzorin/campus-gateway/internal/http/handlers/common"
	"github.com/ignatzorin/campus-gateway/internal/poller"
	"github.com/ignatzorin/campus-gateway/internal/ws"
)

// WSHandler открывает WebSocket страницы услуги: пока соединение открыто,
// заказ пользователя на услугу опрашивается, события приходят в это соединение.
// Уведомления сессии приходят во все её соединения.
type WSHandler struct {
	hub      *ws.Hub
	poller   *poller.Poller
	upgrader websocket.Upgrader
}

func NewWSHandler(hub *ws.Hub, p *poller.Poller, allowedOrigins []string) *WSHandler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = struct{}{}
	}

	return &WSHandler{
		hub:    hub,
		poller: p,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || len(allowed) == 0 {
					return true
				}
				_, ok := allowed[origin]
				return ok
			},
		},
	}
}

// ServiceStatus обслуживает GET /api/ws/services/:id/status?token=<session id>.
func (h *WSHandler) ServiceStatus(c *gin.Context) {
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

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade уже ответил клиенту.
		return
	}

	client := ws.NewClient(conn, h.hub, sess.ID)
	h.hub.Register(client)

	// Наблюдение живёт, пока открыто соединение и жива сессия.
	ctx, cancel := context.WithCancel(sess.Context())
	defer cancel()
	goroutine.SafeGo("ws-watch", func() {
		h.poller.Watch(ctx, sess, serviceID, client)
	})

	client.Run(ctx)
}
