package broker

import (
	"code.helixprotocol.io/helix/config/encoding"
	"code.helixprotocol.io/helix/logging"
)

const namedLogger = "broker"

// Config represents the configuration of the broker.
type Config struct {
	Level  encoding.LogLevel `long:"log-level"`
	Socket SocketConfig      `group:"Socket" namespace:"socket"`
}

// SocketConfig configures the socket on which accepted events are streamed
// to an external indexer.
type SocketConfig struct {
	Enabled       encoding.Bool `long:"enabled" description:"set to true to stream events over a socket"`
	Address       string        `long:"address" description:"address of the socket receiver"`
	Port          int           `long:"port" description:"port of the socket receiver"`
	TransportType string        `long:"transport-type"`
}

// NewDefaultConfig creates an instance of config with default values.
func NewDefaultConfig() Config {
	return Config{
		Level: encoding.LogLevel{Level: logging.InfoLevel},
		Socket: SocketConfig{
			Enabled:       false,
			Address:       "127.0.0.1",
			Port:          3005,
			TransportType: "tcp",
		},
	}
}
