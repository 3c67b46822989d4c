// Package localnet provides CLI commands that start a local interchain token localnet and run
// interchain token operations against it.
package localnet

import (
	"context"
	"fmt"

	lnet "github.com/smartcontractkit/its-localnet/localnet"
	"github.com/smartcontractkit/its-localnet/pkg/logger"
)

// ConfigLoaderFunc loads the localnet configuration from a file. An empty path loads the
// defaults and the environment only.
type ConfigLoaderFunc func(filePath string) (*lnet.Config, error)

// StarterFunc starts the networks of a localnet.
type StarterFunc func(ctx context.Context, cfg lnet.Config, lggr logger.Logger) (*lnet.Localnet, error)

// Deps holds the injectable dependencies of the localnet commands.
// All fields are optional; nil values will use production defaults.
type Deps struct {
	// ConfigLoader loads the localnet configuration.
	// Default: localnet.Load
	ConfigLoader ConfigLoaderFunc

	// Starter starts the localnet.
	// Default: localnet.New
	Starter StarterFunc
}

// applyDefaults fills in nil dependencies with production defaults.
func (d *Deps) applyDefaults() {
	if d.ConfigLoader == nil {
		d.ConfigLoader = lnet.Load
	}
	if d.Starter == nil {
		d.Starter = lnet.New
	}
}

// Config holds the configuration of the localnet commands.
type Config struct {
	// Optional: Logger defaults to a logger built from the log settings of the localnet
	// configuration.
	Logger logger.Logger

	// Optional: Deps overrides the production dependencies.
	Deps *Deps
}

func (c *Config) deps() {
	if c.Deps == nil {
		c.Deps = &Deps{}
	}
	c.Deps.applyDefaults()
}

// start loads the configuration at configPath and starts the localnet it describes.
func (c Config) start(ctx context.Context, configPath string) (*lnet.Localnet, error) {
	lcfg, err := c.Deps.ConfigLoader(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load localnet config: %w", err)
	}

	lggr := c.Logger
	if lggr == nil {
		logCfg, err := lcfg.LoggerConfig()
		if err != nil {
			return nil, err
		}
		if lggr, err = logCfg.New(); err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
	}

	l, err := c.Deps.Starter(ctx, *lcfg, lggr)
	if err != nil {
		return nil, fmt.Errorf("failed to start localnet: %w", err)
	}

	return l, nil
}
