package its

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Network is a localnet chain as seen by the Orchestrator.
type Network interface {
	// Name is the network name used as destination chain name in cross-chain messages.
	Name() string
	ChainSelector() uint64
	// Client is the connection to the network that handles are bound through.
	Client() bind.ContractBackend
	// Owner is the default wallet of every operation.
	Owner() *bind.TransactOpts
	// Confirm waits until tx is included and returns the block number.
	Confirm(tx *types.Transaction) (uint64, error)

	TokenFactory() TokenFactory
	TokenService() TokenService
	Binder() ContractBinder
}

// NetworkFinder looks up registered networks by name, ignoring case.
type NetworkFinder interface {
	FindNetworkByName(name string) (Network, bool)
}

// Relayer delivers cross-chain messages.
type Relayer interface {
	// Relay blocks until every message in flight on the localnet, including messages emitted by
	// other callers, has been executed on its destination network. It is safe to call
	// concurrently.
	Relay(ctx context.Context) error
}

// DeliveryReporter is implemented by relayers that can tell which messages of a flush failed.
// With it, a flush that fails only for messages of other calls does not fail the call.
type DeliveryReporter interface {
	// DeliveryError returns the delivery failures of the messages emitted by sourceTx, nil if
	// none failed.
	DeliveryError(sourceTx common.Hash) error
}

// RelayFunc adapts a function to the Relayer interface.
type RelayFunc func(ctx context.Context) error

// Relay calls f(ctx).
func (f RelayFunc) Relay(ctx context.Context) error {
	return f(ctx)
}

// TokenFactory is the interchain token factory deployed on every network.
type TokenFactory interface {
	RegisterCanonicalInterchainToken(opts *bind.TransactOpts, tokenAddress common.Address) (*types.Transaction, error)
	CanonicalInterchainTokenID(opts *bind.CallOpts, tokenAddress common.Address) (TokenID, error)
	DeployRemoteCanonicalInterchainToken(
		opts *bind.TransactOpts,
		originalChain string,
		tokenAddress common.Address,
		destinationChain string,
		gasValue *big.Int,
	) (*types.Transaction, error)

	DeployInterchainToken(
		opts *bind.TransactOpts,
		salt Salt,
		name string,
		symbol string,
		decimals uint8,
		mintAmount *big.Int,
		distributor common.Address,
	) (*types.Transaction, error)
	InterchainTokenID(opts *bind.CallOpts, deployer common.Address, salt Salt) (TokenID, error)
	InterchainTokenAddress(opts *bind.CallOpts, deployer common.Address, salt Salt) (common.Address, error)
	DeployRemoteInterchainToken(
		opts *bind.TransactOpts,
		originalChain string,
		salt Salt,
		distributor common.Address,
		destinationChain string,
		gasValue *big.Int,
	) (*types.Transaction, error)
}

// TokenService is the interchain token service deployed on every network.
type TokenService interface {
	TokenManagerAddress(opts *bind.CallOpts, tokenID TokenID) (common.Address, error)
	InterchainTokenAddress(opts *bind.CallOpts, tokenID TokenID) (common.Address, error)
	// ValidTokenManagerAddress reverts if no token manager is deployed for tokenID.
	ValidTokenManagerAddress(opts *bind.CallOpts, tokenID TokenID) (common.Address, error)
}

// ContractBinder binds contract handles at an address through a chain connection.
type ContractBinder interface {
	NewTokenManager(address common.Address, backend bind.ContractBackend) (TokenManager, error)
	NewInterchainToken(address common.Address, backend bind.ContractBackend) (InterchainToken, error)
}

// TokenManager is a handle to a deployed token manager.
type TokenManager interface {
	Address() common.Address
	InterchainTokenID(opts *bind.CallOpts) (TokenID, error)
	TokenAddress(opts *bind.CallOpts) (common.Address, error)
	ImplementationType(opts *bind.CallOpts) (TokenManagerType, error)
}

// InterchainToken is a handle to a deployed interchain token.
type InterchainToken interface {
	Address() common.Address
	Name(opts *bind.CallOpts) (string, error)
	Symbol(opts *bind.CallOpts) (string, error)
	Decimals(opts *bind.CallOpts) (uint8, error)
	TotalSupply(opts *bind.CallOpts) (*big.Int, error)
	BalanceOf(opts *bind.CallOpts, account common.Address) (*big.Int, error)
	InterchainTokenID(opts *bind.CallOpts) (TokenID, error)
	IsDistributor(opts *bind.CallOpts, account common.Address) (bool, error)
}
