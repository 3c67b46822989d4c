package chain

import (
	"errors"
	"iter"
	"slices"
	"strings"

	"github.com/smartcontractkit/its-localnet/chain/evm"
)

var ErrBlockChainNotFound = errors.New("blockchain not found")

var _ BlockChain = evm.Chain{}

// BlockChain is an interface that represents a chain.
type BlockChain interface {
	// String returns chain name and selector "<name> (<selector>)"
	String() string
	// Name returns the name of the chain
	Name() string
	ChainSelector() uint64
	Family() string
}

// BlockChains represents an immutable collection of chains keyed by chain selector. Every chain
// of a localnet is created once at startup, so the collection is safe for concurrent reads.
type BlockChains struct {
	chains map[uint64]BlockChain
}

// NewBlockChainsFromSlice initializes a new BlockChains instance from a slice of BlockChain.
func NewBlockChainsFromSlice(chains []BlockChain) BlockChains {
	chainsMap := make(map[uint64]BlockChain, len(chains))
	for _, chain := range chains {
		chainsMap[chain.ChainSelector()] = chain
	}

	return BlockChains{chains: chainsMap}
}

// GetBySelector returns a blockchain by its selector.
func (b BlockChains) GetBySelector(selector uint64) (BlockChain, error) {
	if chain, ok := b.chains[selector]; ok {
		return chain, nil
	}

	return nil, ErrBlockChainNotFound
}

// GetByName returns the blockchain whose Name matches name, ignoring case. Chains are searched
// in ascending selector order so that the result is stable if two chains share a name.
func (b BlockChains) GetByName(name string) (BlockChain, error) {
	for _, selector := range b.ListChainSelectors() {
		chain := b.chains[selector]
		if strings.EqualFold(chain.Name(), name) {
			return chain, nil
		}
	}

	return nil, ErrBlockChainNotFound
}

// Len returns the number of chains in the collection.
func (b BlockChains) Len() int {
	return len(b.chains)
}

// All returns an iterator over all chains with their selectors in ascending selector order.
func (b BlockChains) All() iter.Seq2[uint64, BlockChain] {
	return func(yield func(uint64, BlockChain) bool) {
		for _, selector := range b.ListChainSelectors() {
			if !yield(selector, b.chains[selector]) {
				return
			}
		}
	}
}

// ChainSelectorsOption defines a function type for configuring ChainSelectors
type ChainSelectorsOption func(*chainSelectorsOptions)

type chainSelectorsOptions struct {
	includedFamilies map[string]struct{}
}

// WithFamily returns an option to filter chains by family.
// Use constants from chainsel package eg WithFamily(chainsel.FamilyEVM)
func WithFamily(family string) ChainSelectorsOption {
	return func(o *chainSelectorsOptions) {
		if o.includedFamilies == nil {
			o.includedFamilies = make(map[string]struct{})
		}
		o.includedFamilies[family] = struct{}{}
	}
}

// ListChainSelectors returns all chain selectors, sorted, with optional filtering.
func (b BlockChains) ListChainSelectors(options ...ChainSelectorsOption) []uint64 {
	opts := chainSelectorsOptions{}
	for _, option := range options {
		option(&opts)
	}

	selectors := make([]uint64, 0, len(b.chains))
	for selector, chain := range b.chains {
		if opts.includedFamilies != nil {
			if _, ok := opts.includedFamilies[chain.Family()]; !ok {
				continue
			}
		}
		selectors = append(selectors, selector)
	}

	slices.Sort(selectors)

	return selectors
}
