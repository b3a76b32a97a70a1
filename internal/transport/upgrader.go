package transport

import (
	"net/http"
	"os"
	"strings"

	"github.com/gorilla/websocket"
)

// Upgrader performs the HTTP to WebSocket upgrade for the relay endpoint.
var Upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     checkOrigin,
}

func checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")

	// Non-browser clients (CLI tools, editor plugins) send no Origin header.
	if origin == "" {
		return true
	}

	allowedOrigins := []string{
		"http://localhost:3000",
		"https://localhost:3000",
		"http://localhost",
		"https://localhost",
		"http://127.0.0.1:3000",
		"http://127.0.0.1",
	}

	// Add custom origins from environment variable if set
	if customOrigins := os.Getenv("ALLOWED_ORIGINS"); customOrigins != "" {
		for _, customOrigin := range strings.Split(customOrigins, ",") {
			allowedOrigins = append(allowedOrigins, strings.TrimSpace(customOrigin))
		}
	}

	for _, allowedOrigin := range allowedOrigins {
		if origin == allowedOrigin {
			return true
		}
	}

	// Allow any localhost variation for local development
	if strings.Contains(origin, "localhost") || strings.Contains(origin, "127.0.0.1") {
		return true
	}

	return false
}
