package datastore

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// AddressRefKey uniquely identifies a record in the AddressRefStore.
type AddressRefKey interface {
	// ChainSelector returns the chain-selector of the chain where the contract is deployed.
	ChainSelector() uint64
	// Type returns the contract type of the contract.
	Type() ContractType
	// Version returns the semantic version of the contract.
	Version() *semver.Version
	// Qualifier returns the optional qualifier for the contract.
	Qualifier() string
	// Equals returns true if both keys identify the same record.
	Equals(other AddressRefKey) bool
	// String returns a human readable representation of the key.
	String() string
}

var _ AddressRefKey = addressRefKey{}

type addressRefKey struct {
	chainSelector uint64
	contractType  ContractType
	version       *semver.Version
	qualifier     string
}

func (a addressRefKey) ChainSelector() uint64 { return a.chainSelector }

func (a addressRefKey) Type() ContractType { return a.contractType }

func (a addressRefKey) Version() *semver.Version { return a.version }

func (a addressRefKey) Qualifier() string { return a.qualifier }

func (a addressRefKey) Equals(other AddressRefKey) bool {
	if a.version == nil || other.Version() == nil {
		return false
	}

	return a.chainSelector == other.ChainSelector() &&
		a.contractType == other.Type() &&
		a.version.Equal(other.Version()) &&
		a.qualifier == other.Qualifier()
}

func (a addressRefKey) String() string {
	return fmt.Sprintf("%d:%s:%s:%s", a.chainSelector, a.contractType, a.version, a.qualifier)
}

// NewAddressRefKey creates a new AddressRefKey instance.
func NewAddressRefKey(
	chainSelector uint64, contractType ContractType, version *semver.Version, qualifier string,
) AddressRefKey {
	return addressRefKey{
		chainSelector: chainSelector,
		contractType:  contractType,
		version:       version,
		qualifier:     qualifier,
	}
}
