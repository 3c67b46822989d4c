package its

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

const defaultGasValue = 1_000_000

// DefaultGasValue returns the cross-chain gas payment, in wei, attached to remote deployments
// when WithGasValue is not given. Every call returns a new value.
func DefaultGasValue() *big.Int {
	return big.NewInt(defaultGasValue)
}

type callOptions struct {
	wallet      *bind.TransactOpts
	gasValue    *big.Int
	distributor *common.Address
}

// Option configures a single Orchestrator call.
type Option func(*callOptions)

// WithWallet signs the call with wallet instead of the network owner.
func WithWallet(wallet *bind.TransactOpts) Option {
	return func(o *callOptions) {
		o.wallet = wallet
	}
}

// WithGasValue overrides the cross-chain gas payment of a remote deployment.
func WithGasValue(gasValue *big.Int) Option {
	return func(o *callOptions) {
		o.gasValue = gasValue
	}
}

// WithDistributor sets the distributor of a new interchain token. The deploying wallet is the
// distributor by default.
func WithDistributor(distributor common.Address) Option {
	return func(o *callOptions) {
		o.distributor = &distributor
	}
}

func applyOptions(owner *bind.TransactOpts, opts []Option) callOptions {
	o := callOptions{
		wallet:   owner,
		gasValue: DefaultGasValue(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}
