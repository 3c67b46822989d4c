package its

import "errors"

var (
	// ErrUnknownDestinationChain is returned before any transaction is submitted when a
	// destination name does not match a registered network.
	ErrUnknownDestinationChain = errors.New("unknown destination chain")
	// ErrLocalTransactionFailed is returned when a transaction on the local network could not be
	// submitted, reverted, or failed to confirm.
	ErrLocalTransactionFailed = errors.New("local transaction failed")
	// ErrRelayIncomplete is returned when the relay flush fails or the expected contract is not
	// deployed on the destination network once the flush returns.
	ErrRelayIncomplete = errors.New("relay incomplete")
)
