package funding

import (
	"code.helixprotocol.io/helix/config/encoding"
	"code.helixprotocol.io/helix/logging"
)

const namedLogger = "funding"

// Config represents the funding engine specific configuration.
type Config struct {
	Level encoding.LogLevel
}

// NewDefaultConfig creates an instance of the package specific configuration.
func NewDefaultConfig() Config {
	return Config{
		Level: encoding.LogLevel{Level: logging.InfoLevel},
	}
}
