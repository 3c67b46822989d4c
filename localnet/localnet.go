// Package localnet starts a set of simulated EVM networks with the interchain token suite
// deployed on each of them, a relayer connecting them, and an interchain token orchestrator
// attached to every network.
package localnet

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/smartcontractkit/its-localnet/chain/evm"
	"github.com/smartcontractkit/its-localnet/chain/evm/provider"
	"github.com/smartcontractkit/its-localnet/datastore"
	"github.com/smartcontractkit/its-localnet/its"
	"github.com/smartcontractkit/its-localnet/its/simulated"
	"github.com/smartcontractkit/its-localnet/network"
	"github.com/smartcontractkit/its-localnet/pkg/logger"
	"github.com/smartcontractkit/its-localnet/relay"
)

var _ its.DeliveryReporter = (*relay.Relayer)(nil)

// Localnet is a running set of simulated networks.
type Localnet struct {
	Registry    *network.Registry
	Relayer     *relay.Relayer
	AddressBook *datastore.MemoryAddressRefStore

	providers []*provider.SimChainProvider
	suites    map[uint64]*simulated.Suite
	lggr      logger.Logger
}

// New starts the networks of cfg. Automatic mining, when configured, stops when ctx is done;
// Close releases the networks.
func New(ctx context.Context, cfg Config, lggr logger.Logger) (*Localnet, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid localnet config: %w", err)
	}
	if lggr == nil {
		lggr = logger.Nop()
	}

	key, err := deployerKey(cfg.DeployerKey)
	if err != nil {
		return nil, err
	}

	l := &Localnet{
		Relayer:     relay.NewRelayer(lggr),
		AddressBook: datastore.NewMemoryAddressRefStore(),
		suites:      make(map[uint64]*simulated.Suite, len(cfg.Networks)),
		lggr:        lggr.Named("localnet"),
	}

	networks, err := l.startNetworks(ctx, cfg, key)
	if err != nil {
		return nil, errors.Join(err, l.Close())
	}

	l.Registry, err = network.NewRegistry(networks...)
	if err != nil {
		return nil, errors.Join(err, l.Close())
	}

	names := l.Registry.Names()
	for _, n := range networks {
		suite := l.suites[n.ChainSelector()]
		suite.TrustChain(names...)

		if err := l.Relayer.Register(suite); err != nil {
			return nil, errors.Join(err, l.Close())
		}

		n.ITS = its.New(n, its.Config{
			Registry:    l.Registry,
			Relayer:     l.Relayer,
			Logger:      lggr,
			AddressBook: l.AddressBook,
		})
	}

	l.lggr.Infow("Localnet started", "networks", names, "owner", crypto.PubkeyToAddress(key.PublicKey))

	return l, nil
}

func (l *Localnet) startNetworks(ctx context.Context, cfg Config, key *ecdsa.PrivateKey) ([]*network.Network, error) {
	networks := make([]*network.Network, 0, len(cfg.Networks))
	for _, nc := range cfg.Networks {
		p := provider.NewSimChainProvider(nc.ChainSelector, provider.SimChainProviderConfig{
			DeployerKey:           key,
			NumAdditionalAccounts: cfg.NumAdditionalAccounts,
			BlockTime:             cfg.BlockTime,
		})
		l.providers = append(l.providers, p)

		bc, err := p.Initialize(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to start network %s: %w", nc.Name, err)
		}
		c, ok := bc.(evm.Chain)
		if !ok {
			return nil, fmt.Errorf("network %s: expected an EVM chain, got %T", nc.Name, bc)
		}

		executor := c.DeployerKey
		if len(c.Users) > 0 {
			executor = c.Users[0]
		}

		suite, err := simulated.NewSuite(simulated.SuiteConfig{
			ChainName: nc.Name,
			Chain:     c,
			Executor:  executor,
			Logger:    l.lggr,
		})
		if err != nil {
			return nil, err
		}
		l.suites[nc.ChainSelector] = suite

		n, err := network.New(nc.Name, c, network.Contracts{
			Factory: suite.Factory(),
			Service: suite.Service(),
			Binder:  suite,
		})
		if err != nil {
			return nil, err
		}
		networks = append(networks, n)

		l.lggr.Infow("Network started", "name", nc.Name, "selector", nc.ChainSelector, "blockTime", cfg.BlockTime)
	}

	return networks, nil
}

func deployerKey(hexKey string) (*ecdsa.PrivateKey, error) {
	if hexKey == "" {
		key, err := crypto.GenerateKey()
		if err != nil {
			return nil, fmt.Errorf("failed to generate deployer key: %w", err)
		}

		return key, nil
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid deployer key: %w", err)
	}

	return key, nil
}

// Network returns the network named name, ignoring case.
func (l *Localnet) Network(name string) (*network.Network, error) {
	return l.Registry.Get(name)
}

// Networks returns every network in ascending chain selector order.
func (l *Localnet) Networks() []*network.Network {
	return l.Registry.Networks()
}

// Suite returns the interchain token suite of the network named name.
func (l *Localnet) Suite(name string) (*simulated.Suite, error) {
	n, err := l.Network(name)
	if err != nil {
		return nil, err
	}

	return l.suites[n.ChainSelector()], nil
}

// DeployERC20 deploys a plain ERC20 token owned by the network owner, mints supply to the owner
// and waits for the deployment to be included.
func (l *Localnet) DeployERC20(
	networkName, name, symbol string, decimals uint8, supply *big.Int,
) (*simulated.Token, error) {
	n, err := l.Network(networkName)
	if err != nil {
		return nil, err
	}
	suite := l.suites[n.ChainSelector()]

	address, tx, err := suite.DeployERC20(n.Owner(), name, symbol, decimals, supply)
	if err != nil {
		return nil, err
	}
	if _, err := n.Confirm(tx); err != nil {
		return nil, fmt.Errorf("failed to confirm ERC20 deployment on %s: %w", n.Name(), err)
	}

	return suite.BindToken(address, n.Client()), nil
}

// Close stops every network.
func (l *Localnet) Close() error {
	var errs []error
	for _, p := range l.providers {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
