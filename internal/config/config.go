package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultChannels is the reference deployment's fixed channel set. The
// relay's channel list is configuration; it never changes at runtime.
var DefaultChannels = []string{
	"1_🐶_fluffy_puppy",
	"2_🐱_playful_kitten",
	"3_🐰_tiny_bunny",
	"4_🦔cuddly_hedgehog",
	"5_🐼_sleepy_panda",
	"6_🐨_gentle_koala",
	"7_🦁_curious_lion",
	"8_🐧_lazy_penguin",
	"9_🐬_soft_dolphin",
	"10_🦦_happy_otter",
}

type Config struct {
	Server   ServerConfig
	Channels []string
}

type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

func LoadConfig() (*Config, error) {
	viper.SetDefault("RELAY_HOST", "")
	viper.SetDefault("RELAY_PORT", "3055")
	viper.SetDefault("RELAY_READ_TIMEOUT", 30*time.Second)
	viper.SetDefault("RELAY_WRITE_TIMEOUT", 30*time.Second)
	viper.SetDefault("RELAY_IDLE_TIMEOUT", 60*time.Second)
	viper.SetDefault("RELAY_CHANNELS", "")
	viper.AutomaticEnv()

	channels := DefaultChannels
	if raw := viper.GetString("RELAY_CHANNELS"); raw != "" {
		channels = nil
		for _, name := range strings.Split(raw, ",") {
			if name = strings.TrimSpace(name); name != "" {
				channels = append(channels, name)
			}
		}
	}

	return &Config{
		Server: ServerConfig{
			Host:         viper.GetString("RELAY_HOST"),
			Port:         viper.GetString("RELAY_PORT"),
			ReadTimeout:  viper.GetDuration("RELAY_READ_TIMEOUT"),
			WriteTimeout: viper.GetDuration("RELAY_WRITE_TIMEOUT"),
			IdleTimeout:  viper.GetDuration("RELAY_IDLE_TIMEOUT"),
		},
		Channels: channels,
	}, nil
}
