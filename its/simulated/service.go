package simulated

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/smartcontractkit/its-localnet/its"
)

var _ its.TokenService = (*Service)(nil)

// Service is the interchain token service of a Suite.
type Service struct {
	suite *Suite
}

// Address returns the service address, identical on every chain.
func (s *Service) Address() common.Address {
	return ServiceAddress
}

// TokenManagerAddress returns the address of the token manager of tokenID, deployed or not.
func (s *Service) TokenManagerAddress(_ *bind.CallOpts, tokenID its.TokenID) (common.Address, error) {
	return TokenManagerAddress(tokenID), nil
}

// InterchainTokenAddress returns the address of the interchain token of tokenID, deployed or
// not.
func (s *Service) InterchainTokenAddress(_ *bind.CallOpts, tokenID its.TokenID) (common.Address, error) {
	return InterchainTokenAddress(tokenID), nil
}

// ValidTokenManagerAddress returns the token manager address of tokenID, reverting with
// TokenManagerDoesNotExist if it is not deployed on the chain.
func (s *Service) ValidTokenManagerAddress(_ *bind.CallOpts, tokenID its.TokenID) (common.Address, error) {
	s.suite.mu.Lock()
	defer s.suite.mu.Unlock()

	if _, ok := s.suite.managers[tokenID]; !ok {
		return common.Address{}, ErrTokenManagerDoesNotExist
	}

	return TokenManagerAddress(tokenID), nil
}

// InterchainTransfer sends amount of the token of tokenID from the sender to recipient on
// destinationChain. Native interchain tokens are burnt, other tokens are locked in their token
// manager. The token is released to recipient when the message is relayed.
func (s *Service) InterchainTransfer(
	opts *bind.TransactOpts,
	tokenID its.TokenID,
	destinationChain string,
	recipient common.Address,
	amount *big.Int,
) (*types.Transaction, error) {
	return s.interchainTransfer(opts, nil, tokenID, destinationChain, recipient, amount)
}

func (s *Service) interchainTransfer(
	opts *bind.TransactOpts,
	backend bind.ContractBackend,
	tokenID its.TokenID,
	destinationChain string,
	recipient common.Address,
	amount *big.Int,
) (*types.Transaction, error) {
	if opts == nil {
		return nil, ErrNoSender
	}
	if amount == nil || amount.Sign() <= 0 {
		return nil, ErrZeroAmount
	}

	suite := s.suite
	suite.mu.Lock()
	defer suite.mu.Unlock()

	manager, ok := suite.managers[tokenID]
	if !ok {
		return nil, ErrTokenManagerDoesNotExist
	}
	if err := suite.checkDestination(destinationChain); err != nil {
		return nil, err
	}
	token := suite.tokens[manager.token]
	if token.balanceOf(opts.From).Cmp(amount) < 0 {
		return nil, ErrInsufficientBalance
	}

	payload, err := InterchainTransferPayload{
		TokenID:   tokenID,
		Sender:    opts.From,
		Recipient: recipient,
		Amount:    amount,
	}.encode()
	if err != nil {
		return nil, err
	}

	gasValue := valueOrZero(opts.Value)
	tx, err := suite.transact(opts, backend, ServiceAddress, "interchainTransfer",
		[32]byte(tokenID), destinationChain, recipient.Bytes(), amount, []byte{}, gasValue,
	)
	if err != nil {
		return nil, err
	}

	_ = token.debit(opts.From, amount)
	if manager.kind == its.TokenManagerLockUnlock {
		token.credit(TokenManagerAddress(tokenID), amount)
	} else {
		token.totalSupply.Sub(token.totalSupply, amount)
	}
	suite.emit(tx, opts.From, destinationChain, payload)

	return tx, nil
}
