package e2e

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// SERVER_ADDR points the scenario at an already running server.
	// Empty means the test boots its own instance on an ephemeral port.
	ServerAddr string `envconfig:"SERVER_ADDR"`
	// E2E_IO_TIMEOUT bounds every read in the scenario.
	IOTimeout time.Duration `envconfig:"E2E_IO_TIMEOUT" default:"2s"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
