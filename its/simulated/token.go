package simulated

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/smartcontractkit/its-localnet/its"
)

var (
	_ its.InterchainToken = (*Token)(nil)
	_ its.TokenManager    = (*TokenManager)(nil)
)

// Token is a handle to an ERC20 or interchain token of a Suite. Reads of an address with no
// token fail with bind.ErrNoCode.
type Token struct {
	suite   *Suite
	address common.Address
	backend bind.ContractBackend
}

// Address returns the token address.
func (t *Token) Address() common.Address { return t.address }

// Backend returns the connection the token is bound through.
func (t *Token) Backend() bind.ContractBackend { return t.backend }

func (t *Token) Name(_ *bind.CallOpts) (string, error) {
	var name string
	err := t.suite.readToken(t.address, func(ts *tokenState) { name = ts.name })

	return name, err
}

func (t *Token) Symbol(_ *bind.CallOpts) (string, error) {
	var symbol string
	err := t.suite.readToken(t.address, func(ts *tokenState) { symbol = ts.symbol })

	return symbol, err
}

func (t *Token) Decimals(_ *bind.CallOpts) (uint8, error) {
	var decimals uint8
	err := t.suite.readToken(t.address, func(ts *tokenState) { decimals = ts.decimals })

	return decimals, err
}

func (t *Token) TotalSupply(_ *bind.CallOpts) (*big.Int, error) {
	supply := new(big.Int)
	err := t.suite.readToken(t.address, func(ts *tokenState) { supply.Set(ts.totalSupply) })

	return supply, err
}

func (t *Token) BalanceOf(_ *bind.CallOpts, account common.Address) (*big.Int, error) {
	var balance *big.Int
	err := t.suite.readToken(t.address, func(ts *tokenState) { balance = ts.balanceOf(account) })

	return balance, err
}

// InterchainTokenID returns the token ID the token is registered under. It reverts with
// TokenManagerDoesNotExist for tokens unknown to the service.
func (t *Token) InterchainTokenID(_ *bind.CallOpts) (its.TokenID, error) {
	var tokenID its.TokenID
	err := t.suite.readToken(t.address, func(ts *tokenState) { tokenID = ts.tokenID })
	if err == nil && tokenID.IsZero() {
		return its.TokenID{}, ErrTokenManagerDoesNotExist
	}

	return tokenID, err
}

// IsDistributor reports whether account may mint the token.
func (t *Token) IsDistributor(_ *bind.CallOpts, account common.Address) (bool, error) {
	var ok bool
	err := t.suite.readToken(t.address, func(ts *tokenState) {
		ok = ts.distributor != (common.Address{}) && ts.distributor == account
	})

	return ok, err
}

// Distributor returns the distributor of the token, zero if there is none.
func (t *Token) Distributor(_ *bind.CallOpts) (common.Address, error) {
	var distributor common.Address
	err := t.suite.readToken(t.address, func(ts *tokenState) { distributor = ts.distributor })

	return distributor, err
}

// Transfer moves amount from the sender to `to` on the chain of the token.
func (t *Token) Transfer(opts *bind.TransactOpts, to common.Address, amount *big.Int) (*types.Transaction, error) {
	if opts == nil {
		return nil, ErrNoSender
	}
	if amount == nil {
		amount = new(big.Int)
	}

	s := t.suite
	s.mu.Lock()
	defer s.mu.Unlock()

	token, ok := s.tokens[t.address]
	if !ok {
		return nil, bind.ErrNoCode
	}
	if token.balanceOf(opts.From).Cmp(amount) < 0 {
		return nil, ErrInsufficientBalance
	}

	tx, err := s.transact(opts, t.backend, t.address, "transfer", to, amount)
	if err != nil {
		return nil, err
	}
	_ = token.debit(opts.From, amount)
	token.credit(to, amount)

	return tx, nil
}

// InterchainTransfer sends amount to recipient on destinationChain through the token service.
func (t *Token) InterchainTransfer(
	opts *bind.TransactOpts, destinationChain string, recipient common.Address, amount *big.Int,
) (*types.Transaction, error) {
	tokenID, err := t.InterchainTokenID(nil)
	if err != nil {
		return nil, err
	}

	return t.suite.service.interchainTransfer(opts, t.backend, tokenID, destinationChain, recipient, amount)
}

// TokenManager is a handle to a token manager of a Suite.
type TokenManager struct {
	suite   *Suite
	address common.Address
	backend bind.ContractBackend
}

// Address returns the token manager address.
func (m *TokenManager) Address() common.Address { return m.address }

func (m *TokenManager) InterchainTokenID(_ *bind.CallOpts) (its.TokenID, error) {
	var tokenID its.TokenID
	err := m.suite.readManager(m.address, func(ms *managerState) { tokenID = ms.tokenID })

	return tokenID, err
}

func (m *TokenManager) TokenAddress(_ *bind.CallOpts) (common.Address, error) {
	var token common.Address
	err := m.suite.readManager(m.address, func(ms *managerState) { token = ms.token })

	return token, err
}

func (m *TokenManager) ImplementationType(_ *bind.CallOpts) (its.TokenManagerType, error) {
	var kind its.TokenManagerType
	err := m.suite.readManager(m.address, func(ms *managerState) { kind = ms.kind })

	return kind, err
}

// InterchainTransfer sends amount of the managed token to recipient on destinationChain.
func (m *TokenManager) InterchainTransfer(
	opts *bind.TransactOpts, destinationChain string, recipient common.Address, amount *big.Int,
) (*types.Transaction, error) {
	tokenID, err := m.InterchainTokenID(nil)
	if err != nil {
		return nil, err
	}

	return m.suite.service.interchainTransfer(opts, m.backend, tokenID, destinationChain, recipient, amount)
}
