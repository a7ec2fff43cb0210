package access

import (
	"code.helixprotocol.io/helix/config/encoding"
	"code.helixprotocol.io/helix/logging"
)

const namedLogger = "access"

// Config represents the access policy specific configuration.
type Config struct {
	Level encoding.LogLevel `long:"log-level"`
	// RootParty bootstraps the grant table, every other capability is
	// handed out by it.
	RootParty string `long:"root-party"`
}

// NewDefaultConfig creates an instance of the package specific configuration.
func NewDefaultConfig() Config {
	return Config{
		Level:     encoding.LogLevel{Level: logging.InfoLevel},
		RootParty: "root",
	}
}
