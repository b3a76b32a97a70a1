package transport

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckOrigin(t *testing.T) {
	tests := []struct {
		name    string
		origin  string
		allowed bool
	}{
		{"no origin header", "", true},
		{"localhost dev server", "http://localhost:3000", true},
		{"localhost any port", "http://localhost:9999", true},
		{"loopback", "http://127.0.0.1:3000", true},
		{"foreign origin", "https://evil.example.com", false},
		{"custom origin from env", "https://relay.example.com", true},
	}

	t.Setenv("ALLOWED_ORIGINS", "https://relay.example.com")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/ws", nil)
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.allowed, checkOrigin(r))
		})
	}
}
