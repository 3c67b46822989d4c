package simulated

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/smartcontractkit/its-localnet/its"
)

var _ its.TokenFactory = (*Factory)(nil)

// Factory is the interchain token factory of a Suite.
type Factory struct {
	suite *Suite
}

// Address returns the factory address, identical on every chain.
func (f *Factory) Address() common.Address {
	return FactoryAddress
}

// RegisterCanonicalInterchainToken registers an existing token on the chain under its canonical
// token ID, behind a lock/unlock token manager.
func (f *Factory) RegisterCanonicalInterchainToken(
	opts *bind.TransactOpts, tokenAddress common.Address,
) (*types.Transaction, error) {
	s := f.suite
	s.mu.Lock()
	defer s.mu.Unlock()

	token, ok := s.tokens[tokenAddress]
	if !ok {
		return nil, ErrNotToken
	}
	tokenID := CanonicalTokenID(tokenAddress)
	if _, exists := s.managers[tokenID]; exists {
		return nil, ErrAlreadyDeployed
	}

	tx, err := s.transact(opts, nil, FactoryAddress, "registerCanonicalInterchainToken", tokenAddress)
	if err != nil {
		return nil, err
	}

	token.tokenID = tokenID
	s.managers[tokenID] = &managerState{
		tokenID: tokenID,
		token:   tokenAddress,
		kind:    its.TokenManagerLockUnlock,
	}

	return tx, nil
}

// CanonicalInterchainTokenID returns the canonical token ID of tokenAddress.
func (f *Factory) CanonicalInterchainTokenID(_ *bind.CallOpts, tokenAddress common.Address) (its.TokenID, error) {
	return CanonicalTokenID(tokenAddress), nil
}

// DeployRemoteCanonicalInterchainToken sends a message deploying the interchain token of a
// registered canonical token to destinationChain. originalChain is ignored, the token is always
// taken from this chain.
func (f *Factory) DeployRemoteCanonicalInterchainToken(
	opts *bind.TransactOpts,
	originalChain string,
	tokenAddress common.Address,
	destinationChain string,
	gasValue *big.Int,
) (*types.Transaction, error) {
	s := f.suite
	s.mu.Lock()
	defer s.mu.Unlock()

	tokenID := CanonicalTokenID(tokenAddress)
	if _, exists := s.managers[tokenID]; !exists {
		return nil, ErrTokenManagerDoesNotExist
	}
	if err := s.checkDestination(destinationChain); err != nil {
		return nil, err
	}

	token := s.tokens[tokenAddress]
	payload, err := DeployInterchainTokenPayload{
		TokenID:  tokenID,
		Name:     token.name,
		Symbol:   token.symbol,
		Decimals: token.decimals,
	}.encode()
	if err != nil {
		return nil, err
	}

	tx, err := s.transact(opts, nil, FactoryAddress, "deployRemoteCanonicalInterchainToken",
		originalChain, tokenAddress, destinationChain, valueOrZero(gasValue),
	)
	if err != nil {
		return nil, err
	}
	s.emit(tx, opts.From, destinationChain, payload)

	return tx, nil
}

// DeployInterchainToken deploys a new interchain token on the chain and mints initialSupply to
// the sender. The token address is derived from the sender and salt.
func (f *Factory) DeployInterchainToken(
	opts *bind.TransactOpts,
	salt its.Salt,
	name string,
	symbol string,
	decimals uint8,
	initialSupply *big.Int,
	minter common.Address,
) (*types.Transaction, error) {
	if opts == nil {
		return nil, ErrNoSender
	}

	s := f.suite
	s.mu.Lock()
	defer s.mu.Unlock()

	tokenID := InterchainTokenID(opts.From, salt)
	if _, exists := s.managers[tokenID]; exists {
		return nil, ErrAlreadyDeployed
	}

	supply := valueOrZero(initialSupply)
	tx, err := s.transact(opts, nil, FactoryAddress, "deployInterchainToken",
		[32]byte(salt), name, symbol, decimals, supply, minter,
	)
	if err != nil {
		return nil, err
	}

	token := s.deployToken(tokenID, name, symbol, decimals, minter)
	token.totalSupply.Set(supply)
	token.credit(opts.From, supply)

	return tx, nil
}

// InterchainTokenID returns the token ID of the token deployed by deployer with salt.
func (f *Factory) InterchainTokenID(_ *bind.CallOpts, deployer common.Address, salt its.Salt) (its.TokenID, error) {
	return InterchainTokenID(deployer, salt), nil
}

// InterchainTokenAddress returns the address of the token deployed by deployer with salt. The
// address is the same on every chain, whether or not the token is deployed.
func (f *Factory) InterchainTokenAddress(
	_ *bind.CallOpts, deployer common.Address, salt its.Salt,
) (common.Address, error) {
	return InterchainTokenAddress(InterchainTokenID(deployer, salt)), nil
}

// DeployRemoteInterchainToken sends a message deploying the token the sender deployed with salt
// to destinationChain. A non zero minter must be the distributor of the local token and becomes
// the distributor of the remote token.
func (f *Factory) DeployRemoteInterchainToken(
	opts *bind.TransactOpts,
	originalChainName string,
	salt its.Salt,
	minter common.Address,
	destinationChain string,
	gasValue *big.Int,
) (*types.Transaction, error) {
	if opts == nil {
		return nil, ErrNoSender
	}

	s := f.suite
	s.mu.Lock()
	defer s.mu.Unlock()

	tokenID := InterchainTokenID(opts.From, salt)
	token, ok := s.tokens[InterchainTokenAddress(tokenID)]
	if !ok {
		return nil, ErrTokenManagerDoesNotExist
	}
	if minter != (common.Address{}) && token.distributor != minter {
		return nil, ErrNotDistributor
	}
	if err := s.checkDestination(destinationChain); err != nil {
		return nil, err
	}

	payload, err := DeployInterchainTokenPayload{
		TokenID:  tokenID,
		Name:     token.name,
		Symbol:   token.symbol,
		Decimals: token.decimals,
		Minter:   minter,
	}.encode()
	if err != nil {
		return nil, err
	}

	tx, err := s.transact(opts, nil, FactoryAddress, "deployRemoteInterchainToken",
		originalChainName, [32]byte(salt), minter, destinationChain, valueOrZero(gasValue),
	)
	if err != nil {
		return nil, err
	}
	s.emit(tx, opts.From, destinationChain, payload)

	return tx, nil
}

func valueOrZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}

	return v
}
