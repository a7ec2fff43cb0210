package config

import (
	"bytes"
	"os"
	"path/filepath"

	"code.helixprotocol.io/helix/access"
	"code.helixprotocol.io/helix/broker"
	"code.helixprotocol.io/helix/funding"
	"code.helixprotocol.io/helix/htime"
	"code.helixprotocol.io/helix/keeper"
	"code.helixprotocol.io/helix/logging"
	"code.helixprotocol.io/helix/metrics"
	"code.helixprotocol.io/helix/pricing"
	"code.helixprotocol.io/helix/vamm"

	"github.com/BurntSushi/toml"
)

// Config ties together all other application configuration types.
type Config struct {
	Logging logging.Config `group:"Logging" namespace:"logging"`
	Access  access.Config  `group:"Access" namespace:"access"`
	Broker  broker.Config  `group:"Broker" namespace:"broker"`
	Time    htime.Config   `group:"Time" namespace:"time"`
	VAMM    vamm.Config    `group:"VAMM" namespace:"vamm"`
	Funding funding.Config `group:"Funding" namespace:"funding"`
	Pricing pricing.Config `group:"Pricing" namespace:"pricing"`
	Keeper  keeper.Config  `group:"Keeper" namespace:"keeper"`
	Metrics metrics.Config `group:"Metrics" namespace:"metrics"`
}

// NewDefaultConfig returns a set of default configs for all packages, as
// specified at the per package config level.
func NewDefaultConfig() Config {
	return Config{
		Logging: logging.NewDefaultConfig(),
		Access:  access.NewDefaultConfig(),
		Broker:  broker.NewDefaultConfig(),
		Time:    htime.NewDefaultConfig(),
		VAMM:    vamm.NewDefaultConfig(),
		Funding: funding.NewDefaultConfig(),
		Pricing: pricing.NewDefaultConfig(),
		Keeper:  keeper.NewDefaultConfig(),
		Metrics: metrics.NewDefaultConfig(),
	}
}

// Read loads the configuration file from the given root path, on top of
// the defaults.
func Read(rootPath string) (*Config, error) {
	path := filepath.Join(rootPath, configFileName)
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := NewDefaultConfig()
	if _, err := toml.Decode(string(buf), &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Write serialises the configuration into the given root path.
func Write(rootPath string, cfg Config) error {
	buf := &bytes.Buffer{}
	if err := toml.NewEncoder(buf).Encode(cfg); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(rootPath, configFileName), buf.Bytes(), 0o644)
}
