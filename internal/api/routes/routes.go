package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"relay-service/internal/api/handlers"
	"relay-service/internal/api/middleware"
	"relay-service/internal/relay"
)

type Router struct {
	engine         *gin.Engine
	wsHandler      *handlers.WSHandler
	channelHandler *handlers.ChannelHandler
}

func NewRouter(relayRouter *relay.Router) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	// Add middlewares
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS())
	engine.Use(middleware.LogApi())

	return &Router{
		engine:         engine,
		wsHandler:      handlers.NewWSHandler(relayRouter),
		channelHandler: handlers.NewChannelHandler(relayRouter),
	}
}

func (r *Router) SetupRoutes() {
	root := r.engine.Group("")
	r.wsHandler.RegisterRoutes(root)
	r.channelHandler.RegisterRoutes(root)

	// Plain HTTP requests get a status line, matching what non-WebSocket
	// clients of the relay have always seen.
	r.engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "WebSocket server running")
	})
	r.engine.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
}

func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
