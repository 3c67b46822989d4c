package datastore

import (
	"errors"

	"github.com/Masterminds/semver/v3"
)

var (
	ErrAddressRefNotFound = errors.New("no address ref record can be found for the provided key")
	ErrAddressRefExists   = errors.New("an address ref record with the supplied key already exists")
)

// ContractType is a simple string type for identifying contract types.
type ContractType string

// String returns the string representation of the ContractType.
func (ct ContractType) String() string {
	return string(ct)
}

// AddressRef represents a reference to a contract address on a specific chain.
type AddressRef struct {
	// Address is the address of the contract on the chain.
	Address string `json:"address" yaml:"address"`
	// ChainSelector is the chain-selector of the chain where the contract is deployed.
	ChainSelector uint64 `json:"chainSelector" yaml:"chain_selector"`
	// Labels are the labels associated with the AddressRef.
	Labels LabelSet `json:"labels,omitempty" yaml:"labels,omitempty"`
	// Qualifier is an optional qualifier for the contract.
	Qualifier string `json:"qualifier,omitempty" yaml:"qualifier,omitempty"`
	// Type is the type of the contract.
	Type ContractType `json:"type" yaml:"type"`
	// Version is the version of the contract.
	Version *semver.Version `json:"version" yaml:"version"`
}

// Validate checks that the fields forming the record key are set.
func (r AddressRef) Validate() error {
	if r.Address == "" {
		return errors.New("address is required")
	}
	if r.ChainSelector == 0 {
		return errors.New("chain selector is required")
	}
	if r.Type == "" {
		return errors.New("contract type is required")
	}
	if r.Version == nil {
		return errors.New("version is required")
	}

	return nil
}

// Clone creates a copy of the AddressRef.
func (r AddressRef) Clone() AddressRef {
	clone := r
	clone.Labels = r.Labels.Clone()
	if r.Version != nil {
		v := *r.Version
		clone.Version = &v
	}

	return clone
}

// Key returns the AddressRefKey for the AddressRef.
func (r AddressRef) Key() AddressRefKey {
	return NewAddressRefKey(r.ChainSelector, r.Type, r.Version, r.Qualifier)
}
