package handlers

import (
	"github.com/gin-gonic/gin"

	"relay-service/internal/transport"
)

type WSHandler struct {
	handler transport.Handler
}

func NewWSHandler(handler transport.Handler) *WSHandler {
	return &WSHandler{handler: handler}
}

// RegisterRoutes maps HTTP methods to handler functions
func (h *WSHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/ws", h.HandleWebSocket)
}

// HandleWebSocket upgrades the request to a WebSocket connection and hands it
// to the relay. Everything after the upgrade happens on the connection's own
// goroutines.
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	transport.ServeWS(h.handler, c.Writer, c.Request)
}
