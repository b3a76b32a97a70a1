package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "3055", cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, 60*time.Second, cfg.Server.IdleTimeout)
	assert.Equal(t, DefaultChannels, cfg.Channels)
	assert.Len(t, cfg.Channels, 10)
}

func TestLoadConfigChannelOverride(t *testing.T) {
	t.Setenv("RELAY_CHANNELS", "alpha, beta ,gamma")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, []string{"alpha", "beta", "gamma"}, cfg.Channels)
}

func TestLoadConfigServerOverride(t *testing.T) {
	t.Setenv("RELAY_PORT", "9000")
	t.Setenv("RELAY_HOST", "0.0.0.0")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
}
