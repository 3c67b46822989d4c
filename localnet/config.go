package localnet

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"
	"time"

	chainsel "github.com/smartcontractkit/chain-selectors"
	"github.com/spf13/viper"

	"github.com/smartcontractkit/its-localnet/chain/utils"
	"github.com/smartcontractkit/its-localnet/pkg/logger"
)

// NetworkConfig describes one simulated network.
type NetworkConfig struct {
	// The name used to address the network in cross-chain messages.
	Name string `mapstructure:"name" yaml:"name"`
	// An EVM chain selector, unique across the localnet.
	ChainSelector uint64 `mapstructure:"chain_selector" yaml:"chain_selector"`
}

type LogConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`             // debug, info, warn or error
	Development bool   `mapstructure:"development" yaml:"development"` // Human readable console output
}

// Config is the configuration of a localnet.
type Config struct {
	Log LogConfig `mapstructure:"log" yaml:"log"`
	// Secret: The hex private key of the owner of every network. Generated when empty.
	DeployerKey string `mapstructure:"deployer_key" yaml:"deployer_key,omitempty"`
	// Automatic block interval. 0 mines a block on every confirmation.
	BlockTime time.Duration `mapstructure:"block_time" yaml:"block_time"`
	// Prefunded accounts besides the owner. The first one executes relayed messages.
	NumAdditionalAccounts uint            `mapstructure:"num_additional_accounts" yaml:"num_additional_accounts"`
	Networks              []NetworkConfig `mapstructure:"networks" yaml:"networks"`
}

// DefaultNetworks are the networks of a localnet when none are configured.
var DefaultNetworks = []NetworkConfig{
	{Name: "Ethereum", ChainSelector: chainsel.TEST_90000001.Selector},
	{Name: "Avalanche", ChainSelector: chainsel.TEST_90000002.Selector},
}

// DefaultConfig returns the configuration of a two network localnet.
func DefaultConfig() Config {
	return Config{
		Log:                   LogConfig{Level: "info"},
		NumAdditionalAccounts: 1,
		Networks:              slices.Clone(DefaultNetworks),
	}
}

// Load reads the configuration from the YAML file at filePath, if it exists, and from the
// environment. Environment variables take precedence over the file.
func Load(filePath string) (*Config, error) {
	v := newViper()
	if filePath != "" {
		v.SetConfigFile(filePath)
		if _, err := os.Stat(filePath); !errors.Is(err, fs.ErrNotExist) {
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config file %s: %w", filePath, err)
			}
		}
	}

	if err := bindEnvs(v); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if len(cfg.Networks) == 0 {
		cfg.Networks = slices.Clone(DefaultNetworks)
	}

	return cfg, cfg.Validate()
}

func newViper() *viper.Viper {
	defaults := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.development", defaults.Log.Development)
	v.SetDefault("block_time", defaults.BlockTime)
	v.SetDefault("num_additional_accounts", defaults.NumAdditionalAccounts)

	return v
}

var (
	envBindings = map[string][]string{
		"log.level":               {"ITS_LOCALNET_LOG_LEVEL"},
		"log.development":         {"ITS_LOCALNET_LOG_DEVELOPMENT"},
		"deployer_key":            {"ITS_LOCALNET_DEPLOYER_KEY"},
		"block_time":              {"ITS_LOCALNET_BLOCK_TIME"},
		"num_additional_accounts": {"ITS_LOCALNET_NUM_ADDITIONAL_ACCOUNTS"},
	}
)

func bindEnvs(v *viper.Viper) error {
	for key, envs := range envBindings {
		inputs := slices.Insert(envs, 0, key)

		if err := v.BindEnv(inputs...); err != nil {
			return err
		}
	}

	return nil
}

// Validate checks that the networks are unique EVM chains and that the log level is known.
func (c Config) Validate() error {
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if c.BlockTime < 0 {
		return fmt.Errorf("block time must not be negative: %s", c.BlockTime)
	}
	if len(c.Networks) == 0 {
		return errors.New("at least one network is required")
	}

	names := make(map[string]struct{}, len(c.Networks))
	selectors := make(map[uint64]struct{}, len(c.Networks))
	for _, n := range c.Networks {
		if n.Name == "" {
			return fmt.Errorf("network with selector %d has no name", n.ChainSelector)
		}
		key := strings.ToLower(n.Name)
		if _, ok := names[key]; ok {
			return fmt.Errorf("duplicate network name %s", n.Name)
		}
		if _, ok := selectors[n.ChainSelector]; ok {
			return fmt.Errorf("duplicate chain selector %d", n.ChainSelector)
		}
		names[key] = struct{}{}
		selectors[n.ChainSelector] = struct{}{}

		if _, err := utils.EVMChainInfo(n.ChainSelector); err != nil {
			return fmt.Errorf("network %s: %w", n.Name, err)
		}
	}

	return nil
}

// LoggerConfig returns the logger configuration.
func (c Config) LoggerConfig() (logger.Config, error) {
	lvl, err := logger.ParseLevel(c.Log.Level)
	if err != nil {
		return logger.Config{}, err
	}

	return logger.Config{Level: lvl, Development: c.Log.Development}, nil
}
