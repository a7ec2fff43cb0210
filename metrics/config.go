package metrics

import (
	"code.helixprotocol.io/helix/config/encoding"
	"code.helixprotocol.io/helix/logging"
)

// Config represents the configuration of the metric package.
type Config struct {
	Level   encoding.LogLevel
	Enabled bool
	Port    int
	Path    string
}

// NewDefaultConfig creates an instance of the package specific configuration.
func NewDefaultConfig() Config {
	return Config{
		Level:   encoding.LogLevel{Level: logging.InfoLevel},
		Enabled: false,
		Port:    2112,
		Path:    "/metrics",
	}
}
