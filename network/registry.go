package network

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	chainsel "github.com/smartcontractkit/chain-selectors"

	"github.com/smartcontractkit/its-localnet/chain"
	"github.com/smartcontractkit/its-localnet/its"
)

var (
	ErrNetworkNotFound  = errors.New("network not found")
	ErrDuplicateNetwork = errors.New("duplicate network")
	ErrUnsupportedChain = errors.New("unsupported chain family")
)

var _ its.NetworkFinder = (*Registry)(nil)

// Registry is the read-only set of networks of a localnet. Names are unique ignoring case.
type Registry struct {
	chains chain.BlockChains
}

// NewRegistry returns a Registry of networks.
func NewRegistry(networks ...*Network) (*Registry, error) {
	names := make(map[string]struct{}, len(networks))
	chains := make([]chain.BlockChain, 0, len(networks))
	selectors := make(map[uint64]struct{}, len(networks))

	for _, n := range networks {
		key := strings.ToLower(n.Name())
		if _, ok := names[key]; ok {
			return nil, fmt.Errorf("%w: name %s", ErrDuplicateNetwork, n.Name())
		}
		if _, ok := selectors[n.ChainSelector()]; ok {
			return nil, fmt.Errorf("%w: selector %d of %s", ErrDuplicateNetwork, n.ChainSelector(), n.Name())
		}
		names[key] = struct{}{}
		selectors[n.ChainSelector()] = struct{}{}
		chains = append(chains, n)
	}

	bc := chain.NewBlockChainsFromSlice(chains)
	if evmSelectors := bc.ListChainSelectors(chain.WithFamily(chainsel.FamilyEVM)); len(evmSelectors) != bc.Len() {
		for _, n := range networks {
			if !slices.Contains(evmSelectors, n.ChainSelector()) {
				return nil, fmt.Errorf("%w: %s is %q", ErrUnsupportedChain, n, n.Family())
			}
		}
	}

	return &Registry{chains: bc}, nil
}

// FindNetworkByName returns the network named name, ignoring case.
func (r *Registry) FindNetworkByName(name string) (its.Network, bool) {
	n, err := r.Get(name)
	if err != nil {
		return nil, false
	}

	return n, true
}

// Get returns the network named name, ignoring case.
func (r *Registry) Get(name string) (*Network, error) {
	c, err := r.chains.GetByName(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNetworkNotFound, name)
	}

	return c.(*Network), nil
}

// GetBySelector returns the network of a chain selector.
func (r *Registry) GetBySelector(selector uint64) (*Network, error) {
	c, err := r.chains.GetBySelector(selector)
	if err != nil {
		return nil, fmt.Errorf("%w: selector %d", ErrNetworkNotFound, selector)
	}

	return c.(*Network), nil
}

// Networks returns every network in ascending chain selector order.
func (r *Registry) Networks() []*Network {
	networks := make([]*Network, 0, r.chains.Len())
	for _, c := range r.chains.All() {
		networks = append(networks, c.(*Network))
	}

	return networks
}

// Names returns the names of every network in ascending chain selector order.
func (r *Registry) Names() []string {
	networks := r.Networks()
	names := make([]string, 0, len(networks))
	for _, n := range networks {
		names = append(names, n.Name())
	}

	return names
}
