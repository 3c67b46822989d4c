// Package utils holds chain-selectors lookups shared by the chain packages.
package utils

import (
	"errors"
	"fmt"

	chainsel "github.com/smartcontractkit/chain-selectors"
)

// ErrUnsupportedFamily is returned for selectors of chains the localnet cannot simulate.
var ErrUnsupportedFamily = errors.New("unsupported chain family")

// ChainInfo returns the chain details registered for selector.
func ChainInfo(selector uint64) (chainsel.ChainDetails, error) {
	family, err := chainsel.GetSelectorFamily(selector)
	if err != nil {
		return chainsel.ChainDetails{}, err
	}
	id, err := chainsel.GetChainIDFromSelector(selector)
	if err != nil {
		return chainsel.ChainDetails{}, err
	}

	return chainsel.GetChainDetailsByChainIDAndFamily(id, family)
}

// EVMChainInfo returns the chain details of an EVM selector. Selectors of other families fail
// with ErrUnsupportedFamily.
func EVMChainInfo(selector uint64) (chainsel.ChainDetails, error) {
	family, err := chainsel.GetSelectorFamily(selector)
	if err != nil {
		return chainsel.ChainDetails{}, err
	}
	if family != chainsel.FamilyEVM {
		return chainsel.ChainDetails{}, fmt.Errorf("%w: %s", ErrUnsupportedFamily, family)
	}

	return ChainInfo(selector)
}
