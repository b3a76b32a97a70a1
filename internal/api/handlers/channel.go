package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"relay-service/internal/relay"
)

type ChannelHandler struct {
	router *relay.Router
}

func NewChannelHandler(router *relay.Router) *ChannelHandler {
	return &ChannelHandler{router: router}
}

// RegisterRoutes maps HTTP methods to handler functions
func (h *ChannelHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/channels", h.ListChannels)
}

// ListChannels returns the fixed channel set over plain HTTP, mirroring the
// get_channels WebSocket request for clients that only need the list.
func (h *ChannelHandler) ListChannels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"channels": h.router.Channels()})
}
