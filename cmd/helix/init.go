package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"code.helixprotocol.io/helix/config"
	"code.helixprotocol.io/helix/logging"

	"github.com/jessevdk/go-flags"
)

type InitCmd struct {
	config.HomeFlag

	Force bool `short:"f" long:"force" description:"Overwrite an existing configuration at the specified path"`
}

var initCmd InitCmd

func (opts *InitCmd) Execute(_ []string) error {
	logger := logging.NewLoggerFromEnv("dev")
	defer logger.AtExit()

	rootPath := opts.RootPath()
	cfgPath := filepath.Join(rootPath, "config.toml")

	if _, err := os.Stat(cfgPath); err == nil && !opts.Force {
		return fmt.Errorf("configuration already exists at `%s` please remove it first or re-run using -f", cfgPath)
	}
	if err := os.MkdirAll(rootPath, 0o755); err != nil {
		return fmt.Errorf("couldn't create the home directory: %w", err)
	}

	cfg := config.NewDefaultConfig()
	if err := config.Write(rootPath, cfg); err != nil {
		return fmt.Errorf("couldn't save configuration file: %w", err)
	}

	logger.Info("configuration generated successfully", logging.String("path", cfgPath))
	return nil
}

func Init(ctx context.Context, parser *flags.Parser) error {
	initCmd = InitCmd{}

	short := "Initializes a helix node"
	long := "Generate the minimal configuration required for a helix node to start"

	_, err := parser.AddCommand("init", short, long, &initCmd)
	return err
}
