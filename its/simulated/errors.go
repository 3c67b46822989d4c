package simulated

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/core/vm"
)

// Custom errors of the suite contracts. They wrap vm.ErrExecutionReverted and render as
// "execution reverted: <Error>()".
var (
	ErrAlreadyDeployed          = revert("AlreadyDeployed()")
	ErrTokenManagerDoesNotExist = revert("TokenManagerDoesNotExist()")
	ErrNotDistributor           = revert("NotDistributor()")
	ErrUntrustedChain           = revert("UntrustedChain()")
	ErrNotToken                 = revert("NotToken()")
	ErrCannotDeployToSelf       = revert("CannotDeployRemotelyToSelf()")
	ErrInsufficientBalance      = revert("InsufficientBalance()")
	ErrZeroAmount               = revert("ZeroAmount()")
	ErrAlreadyExecuted          = revert("AlreadyExecuted()")
	ErrInvalidPayload           = revert("InvalidMessageType()")
)

// ErrNoSender is returned by writes without a signing wallet.
var ErrNoSender = errors.New("no signer on transact opts")

func revert(reason string) error {
	return fmt.Errorf("%w: %s", vm.ErrExecutionReverted, reason)
}
