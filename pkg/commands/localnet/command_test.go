package localnet

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/smartcontractkit/its-localnet/its"
	"github.com/smartcontractkit/its-localnet/its/simulated"
	lnet "github.com/smartcontractkit/its-localnet/localnet"
	"github.com/smartcontractkit/its-localnet/pkg/logger"
)

func newTestCommand(t *testing.T, loader ConfigLoaderFunc) *Config {
	t.Helper()

	if loader == nil {
		loader = func(string) (*lnet.Config, error) {
			cfg := lnet.DefaultConfig()
			return &cfg, nil
		}
	}

	return &Config{
		Logger: logger.Test(t),
		Deps:   &Deps{ConfigLoader: loader},
	}
}

func execute(t *testing.T, cfg *Config, args ...string) (string, error) {
	t.Helper()

	cmd := NewCommand(*cfg)
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(t.Context())

	return out.String(), err
}

// TestNewCommand_Structure verifies the command structure is correct.
func TestNewCommand_Structure(t *testing.T) {
	t.Parallel()

	cmd := NewCommand(Config{Logger: logger.Nop()})

	assert.Equal(t, "localnet", cmd.Use)

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "c", configFlag.Shorthand)
	assert.Empty(t, configFlag.Value.String())

	subs := cmd.Commands()
	require.Len(t, subs, 2)
	uses := []string{subs[0].Use, subs[1].Use}
	assert.ElementsMatch(t, []string{"networks", "demo"}, uses)

	for _, sub := range subs {
		if sub.Use != "demo" {
			continue
		}
		source := sub.Flags().Lookup("source")
		require.NotNil(t, source)
		assert.Equal(t, "s", source.Shorthand)
		assert.Equal(t, "Ethereum", source.Value.String())
		assert.Equal(t, "18", sub.Flags().Lookup("decimals").Value.String())
	}
}

func TestNetworks(t *testing.T) {
	t.Parallel()

	var gotPath string
	cfg := newTestCommand(t, func(path string) (*lnet.Config, error) {
		gotPath = path
		c := lnet.DefaultConfig()

		return &c, nil
	})

	out, err := execute(t, cfg, "networks", "-c", "localnet.yml")
	require.NoError(t, err)
	assert.Equal(t, "localnet.yml", gotPath)

	var got struct {
		Networks []networkView `yaml:"networks"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	require.Len(t, got.Networks, 2)

	names := []string{got.Networks[0].Name, got.Networks[1].Name}
	assert.ElementsMatch(t, []string{"Ethereum", "Avalanche"}, names)
	for _, n := range got.Networks {
		assert.Equal(t, "evm", n.Family)
		assert.Equal(t, simulated.FactoryAddress.Hex(), n.TokenFactory)
		assert.Equal(t, simulated.ServiceAddress.Hex(), n.TokenService)
		assert.Equal(t, simulated.GatewayAddress.Hex(), n.Gateway)
	}
	assert.Equal(t, got.Networks[0].Owner, got.Networks[1].Owner)
}

func TestDemo(t *testing.T) {
	t.Parallel()

	out, err := execute(t, newTestCommand(t, nil), "demo", "--symbol", "TST", "--supply", "500", "--salt", "test")
	require.NoError(t, err)

	var got demoView
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.Equal(t, its.NewSalt("test").Hex(), got.Salt)
	require.Len(t, got.Tokens, 2)

	for _, tok := range got.Tokens {
		assert.Equal(t, "TST", tok.Symbol)
		assert.True(t, tok.Distributor)
		assert.Equal(t, got.Tokens[0].Address, tok.Address, "token address is the same on every network")
		if tok.Network == "Ethereum" {
			assert.Equal(t, "500", tok.TotalSupply)
		} else {
			assert.Equal(t, "0", tok.TotalSupply)
		}
	}
}

func TestDemo_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		loader  ConfigLoaderFunc
		args    []string
		wantErr string
	}{
		{
			name:    "invalid supply",
			args:    []string{"demo", "--supply", "lots"},
			wantErr: `invalid supply "lots"`,
		},
		{
			name:    "unknown source",
			args:    []string{"demo", "--source", "Fantom"},
			wantErr: "Fantom",
		},
		{
			name: "config error",
			loader: func(string) (*lnet.Config, error) {
				return nil, errors.New("boom")
			},
			args:    []string{"networks"},
			wantErr: "failed to load localnet config: boom",
		},
		{
			name:    "unexpected argument",
			args:    []string{"networks", "extra"},
			wantErr: "unknown command",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := execute(t, newTestCommand(t, tt.loader), tt.args...)
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestStart_LoggerFromConfig(t *testing.T) {
	t.Parallel()

	var gotLogger logger.Logger
	cfg := Config{
		Deps: &Deps{
			ConfigLoader: func(string) (*lnet.Config, error) {
				c := lnet.DefaultConfig()
				c.Log.Level = "warn"

				return &c, nil
			},
			Starter: func(_ context.Context, _ lnet.Config, lggr logger.Logger) (*lnet.Localnet, error) {
				gotLogger = lggr
				return nil, errors.New("not started")
			},
		},
	}
	cfg.deps()

	_, err := cfg.start(t.Context(), "")
	require.EqualError(t, err, "failed to start localnet: not started")
	assert.NotNil(t, gotLogger)
}
