// internal/handlers/ws/ws_handler.go
package ws

import (
	"net/http"
	"strings"

	"fitcoach-service/internal/pkg/response"
	"fitcoach-service/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSHandler upgrades dashboard connections onto the live booking feed.
type WSHandler struct {
	hub    *ws.Hub
	logger *zap.Logger
}

func NewWSHandler(hub *ws.Hub, logger *zap.Logger) *WSHandler {
	return &WSHandler{
		hub:    hub,
		logger: logger,
	}
}

// Events authenticates and attaches one dashboard connection. Browsers cannot
// set headers on websocket requests, so the token may arrive as a query param.
func (h *WSHandler) Events(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
			token = strings.TrimPrefix(auth, "Bearer ")
		}
	}
	if token == "" {
		response.Unauthorized(c, "missing token")
		return
	}

	trainerID, err := h.hub.Authenticate(token)
	if err != nil {
		response.Unauthorized(c, "invalid token")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", zap.Error(err))
		return
	}

	client := ws.NewClient(h.hub, conn, trainerID, h.logger)
	client.Start()
}
