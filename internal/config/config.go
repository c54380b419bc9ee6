package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds server configuration read from the environment. The session length
// is a fixed constant and deliberately not configurable.
type Config struct {
	Port           string        `envconfig:"PORT" default:"8080"`
	BaseURL        string        `envconfig:"BASE_URL" default:""`
	IconRetries    int           `envconfig:"ICON_RETRIES" default:"2"`
	IconRetryDelay time.Duration `envconfig:"ICON_RETRY_DELAY" default:"150ms"`
}

// Load reads configuration from the environment, applying defaults.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
