package keeper

import (
	"time"

	"code.helixprotocol.io/helix/config/encoding"
	"code.helixprotocol.io/helix/logging"
)

const namedLogger = "keeper"

// Config represents the configuration of the keeper service
type Config struct {
	Level encoding.LogLevel `long:"log-level"`
	// Interval is the cadence at which every tracked pair is serviced.
	Interval encoding.Duration `long:"interval"`
	// MaxRetries bounds the price refresh retry loop on each cycle.
	MaxRetries uint64 `long:"max-retries"`
	// RebalanceToleranceBps is the mark/index divergence above which the
	// curve is re-anchored to the index price.
	RebalanceToleranceBps uint64 `long:"rebalance-tolerance-bps"`
	// Party is the identity the keeper acts as against the engines.
	Party string `long:"party"`
}

// NewDefaultConfig creates an instance of the package specific configuration,
// given a pointer to a logger instance to be used for logging within the
// package.
func NewDefaultConfig() Config {
	return Config{
		Level:                 encoding.LogLevel{Level: logging.InfoLevel},
		Interval:              encoding.Duration{Duration: 30 * time.Second},
		MaxRetries:            3,
		RebalanceToleranceBps: 100,
		Party:                 "keeper",
	}
}
