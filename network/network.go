// Package network holds the networks of a localnet and the registry they are looked up in.
package network

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/smartcontractkit/its-localnet/chain"
	"github.com/smartcontractkit/its-localnet/chain/evm"
	"github.com/smartcontractkit/its-localnet/its"
)

var (
	_ chain.BlockChain = (*Network)(nil)
	_ its.Network      = (*Network)(nil)
)

// Contracts are the interchain token contracts deployed on a network.
type Contracts struct {
	Factory its.TokenFactory
	Service its.TokenService
	Binder  its.ContractBinder
}

// Network is a named simulated chain with the interchain token contracts deployed on it.
type Network struct {
	name      string
	chain     evm.Chain
	contracts Contracts

	// ITS runs interchain token operations from this network. It is attached when the localnet
	// is set up.
	ITS *its.Orchestrator
}

// New returns a Network. name is the chain name used by cross-chain messages.
func New(name string, c evm.Chain, contracts Contracts) (*Network, error) {
	if name == "" {
		return nil, errors.New("network name is required")
	}
	if c.Client == nil || c.DeployerKey == nil || c.Confirm == nil {
		return nil, fmt.Errorf("network %s: chain is not initialized", name)
	}
	if contracts.Factory == nil || contracts.Service == nil || contracts.Binder == nil {
		return nil, fmt.Errorf("network %s: interchain token contracts are required", name)
	}

	return &Network{name: name, chain: c, contracts: contracts}, nil
}

// Name returns the network name.
func (n *Network) Name() string { return n.name }

// ChainSelector returns the chain selector of the network.
func (n *Network) ChainSelector() uint64 { return n.chain.Selector }

// String returns "<name> (<selector>)".
func (n *Network) String() string {
	return fmt.Sprintf("%s (%d)", n.name, n.chain.Selector)
}

// Family returns the chain family of the network.
func (n *Network) Family() string { return n.chain.Family() }

// Client returns the connection to the network.
func (n *Network) Client() bind.ContractBackend { return n.chain.Client }

// Owner returns the prefunded owner wallet of the network.
func (n *Network) Owner() *bind.TransactOpts { return n.chain.DeployerKey }

// Users returns the additional prefunded wallets of the network.
func (n *Network) Users() []*bind.TransactOpts { return n.chain.Users }

// Confirm waits until tx is included and returns its block number.
func (n *Network) Confirm(tx *types.Transaction) (uint64, error) {
	return n.chain.Confirm(tx)
}

// TokenFactory returns the interchain token factory of the network.
func (n *Network) TokenFactory() its.TokenFactory { return n.contracts.Factory }

// TokenService returns the interchain token service of the network.
func (n *Network) TokenService() its.TokenService { return n.contracts.Service }

// Binder returns the binder of interchain token handles on the network.
func (n *Network) Binder() its.ContractBinder { return n.contracts.Binder }
