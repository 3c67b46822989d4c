package localnet

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/smartcontractkit/its-localnet/its"
	"github.com/smartcontractkit/its-localnet/network"
)

type demoFlags struct {
	source   string
	salt     string
	name     string
	symbol   string
	decimals uint8
	supply   string
}

type tokenView struct {
	Network     string `yaml:"network"`
	Address     string `yaml:"address"`
	Symbol      string `yaml:"symbol"`
	TotalSupply string `yaml:"totalSupply"`
	Distributor bool   `yaml:"ownerIsDistributor"`
}

type demoView struct {
	TokenID string      `yaml:"tokenId"`
	Salt    string      `yaml:"salt"`
	Tokens  []tokenView `yaml:"tokens"`
}

func newDemoCmd(cfg Config) *cobra.Command {
	var flags demoFlags

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Deploy an interchain token and deploy it to every other network",
		Long: `Starts the localnet, deploys an interchain token on the source network and deploys it
remotely to every other network concurrently. The token of each network is printed once all
deployments are relayed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configPath, _ := cmd.Flags().GetString("config")

			supply, ok := new(big.Int).SetString(flags.supply, 10)
			if !ok || supply.Sign() < 0 {
				return fmt.Errorf("invalid supply %q", flags.supply)
			}

			l, err := cfg.start(cmd.Context(), configPath)
			if err != nil {
				return err
			}
			defer l.Close()

			source, err := l.Network(flags.source)
			if err != nil {
				return err
			}

			return runDemo(cmd, source, l.Networks(), flags, supply)
		},
	}

	cmd.Flags().StringVarP(&flags.source, "source", "s", "Ethereum", "Network the token is deployed on first")
	cmd.Flags().StringVar(&flags.salt, "salt", "its-localnet-demo", "Salt of the token address")
	cmd.Flags().StringVar(&flags.name, "name", "Demo Token", "Token name")
	cmd.Flags().StringVar(&flags.symbol, "symbol", "DEMO", "Token symbol")
	cmd.Flags().Uint8Var(&flags.decimals, "decimals", 18, "Token decimals")
	cmd.Flags().StringVar(&flags.supply, "supply", "1000000", "Amount minted to the owner on the source network")

	return cmd
}

func runDemo(
	cmd *cobra.Command, source *network.Network, networks []*network.Network, flags demoFlags, supply *big.Int,
) error {
	ctx := cmd.Context()
	salt := its.NewSalt(flags.salt)
	owner := source.Owner().From

	token, err := source.ITS.DeployInterchainToken(ctx, its.InterchainTokenParams{
		Salt:       salt,
		Name:       flags.name,
		Symbol:     flags.symbol,
		Decimals:   flags.decimals,
		MintAmount: supply,
	})
	if err != nil {
		return err
	}

	tokenID, err := token.InterchainTokenID(nil)
	if err != nil {
		return err
	}

	tokens := make([]its.InterchainToken, len(networks))
	g, gctx := errgroup.WithContext(ctx)
	for i, n := range networks {
		if strings.EqualFold(n.Name(), source.Name()) {
			tokens[i] = token
			continue
		}

		g.Go(func() error {
			remote, err := source.ITS.DeployRemoteInterchainToken(gctx, salt, owner, its.DestinationNetwork(n), nil)
			if err != nil {
				return fmt.Errorf("failed to deploy %s to %s: %w", flags.symbol, n.Name(), err)
			}
			tokens[i] = remote

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	view := demoView{
		TokenID: tokenID.Hex(),
		Salt:    salt.Hex(),
		Tokens:  make([]tokenView, 0, len(networks)),
	}
	for i, n := range networks {
		tv, err := viewToken(n.Name(), tokens[i], owner)
		if err != nil {
			return err
		}
		view.Tokens = append(view.Tokens, tv)
	}

	return writeYAML(cmd, view)
}

func viewToken(networkName string, token its.InterchainToken, owner common.Address) (tokenView, error) {
	symbol, symErr := token.Symbol(nil)
	supply, supplyErr := token.TotalSupply(nil)
	distributor, distErr := token.IsDistributor(nil, owner)
	if err := errors.Join(symErr, supplyErr, distErr); err != nil {
		return tokenView{}, fmt.Errorf("failed to read token on %s: %w", networkName, err)
	}

	return tokenView{
		Network:     networkName,
		Address:     token.Address().Hex(),
		Symbol:      symbol,
		TotalSupply: supply.String(),
		Distributor: distributor,
	}, nil
}
