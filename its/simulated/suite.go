// Package simulated runs an in-process interchain token service, token factory and gateway on a
// simulated chain.
//
// Every state change is carried by a real signed transaction sent to the chain: calldata is
// packed with the suite ABI and the transaction pays the attached value to the suite address.
// The suite keeps the contract state in memory and applies a write when its transaction is
// accepted by the chain. Writes that would revert are rejected before anything is sent, the same
// way gas estimation rejects a reverting call.
//
// Identifiers and addresses are derived from chain independent inputs, so a token has the same
// ID, token address and token manager address on every chain.
package simulated

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/smartcontractkit/its-localnet/chain/evm"
	"github.com/smartcontractkit/its-localnet/its"
	"github.com/smartcontractkit/its-localnet/pkg/logger"
	"github.com/smartcontractkit/its-localnet/relay"
)

// txGasLimit is set on every suite transaction so that no gas estimation is needed.
const txGasLimit = 1_000_000

var (
	_ its.ContractBinder = (*Suite)(nil)
	_ relay.Endpoint     = (*Suite)(nil)
)

// SuiteConfig holds the configuration of a Suite.
type SuiteConfig struct {
	// ChainName is the name other chains use to address this chain.
	ChainName string
	// Chain is the simulated chain the suite sends its transactions to.
	Chain evm.Chain
	// Optional: Executor signs the gateway execute transactions. Defaults to the chain deployer.
	Executor *bind.TransactOpts
	// Optional: Logger defaults to a no-op logger.
	Logger logger.Logger
}

// Suite is the interchain token suite of one chain.
type Suite struct {
	// mu serialises every submission, so that nonces of a shared wallet are assigned in order.
	mu sync.Mutex

	name     string
	chain    evm.Chain
	executor *bind.TransactOpts
	lggr     logger.Logger

	factory *Factory
	service *Service

	trusted  map[string]struct{}
	tokens   map[common.Address]*tokenState
	managers map[its.TokenID]*managerState
	outbox   []outboxEntry
	executed map[string]struct{}
}

type tokenState struct {
	name        string
	symbol      string
	decimals    uint8
	totalSupply *big.Int
	balances    map[common.Address]*big.Int
	// tokenID is zero for tokens not deployed by the service.
	tokenID     its.TokenID
	distributor common.Address
}

func (t *tokenState) balanceOf(account common.Address) *big.Int {
	if b, ok := t.balances[account]; ok {
		return new(big.Int).Set(b)
	}

	return new(big.Int)
}

func (t *tokenState) credit(account common.Address, amount *big.Int) {
	t.balances[account] = new(big.Int).Add(t.balanceOf(account), amount)
}

func (t *tokenState) debit(account common.Address, amount *big.Int) error {
	balance := t.balanceOf(account)
	if balance.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	t.balances[account] = balance.Sub(balance, amount)

	return nil
}

type managerState struct {
	tokenID its.TokenID
	token   common.Address
	kind    its.TokenManagerType
}

type outboxEntry struct {
	msg relay.Message
	tx  *types.Transaction
}

// NewSuite returns the suite of a chain. Every suite trusts its own chain only, use TrustChain to
// connect it to the other chains of the localnet.
func NewSuite(cfg SuiteConfig) (*Suite, error) {
	if cfg.ChainName == "" {
		return nil, errors.New("chain name is required")
	}
	if cfg.Chain.Client == nil || cfg.Chain.Confirm == nil {
		return nil, fmt.Errorf("chain %s is not initialized", cfg.ChainName)
	}

	executor := cfg.Executor
	if executor == nil {
		executor = cfg.Chain.DeployerKey
	}
	if executor == nil {
		return nil, fmt.Errorf("no executor for chain %s", cfg.ChainName)
	}

	lggr := cfg.Logger
	if lggr == nil {
		lggr = logger.Nop()
	}

	s := &Suite{
		name:     cfg.ChainName,
		chain:    cfg.Chain,
		executor: executor,
		lggr:     lggr.Named("suite").Named(cfg.ChainName),
		trusted:  map[string]struct{}{strings.ToLower(cfg.ChainName): {}},
		tokens:   make(map[common.Address]*tokenState),
		managers: make(map[its.TokenID]*managerState),
		executed: make(map[string]struct{}),
	}
	s.factory = &Factory{suite: s}
	s.service = &Service{suite: s}

	return s, nil
}

// Factory returns the interchain token factory of the chain.
func (s *Suite) Factory() *Factory {
	return s.factory
}

// Service returns the interchain token service of the chain.
func (s *Suite) Service() *Service {
	return s.service
}

// TrustChain allows messages to and from the named chain.
func (s *Suite) TrustChain(names ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, name := range names {
		s.trusted[strings.ToLower(name)] = struct{}{}
	}
}

// isTrusted must be called with the lock held.
func (s *Suite) isTrusted(name string) bool {
	_, ok := s.trusted[strings.ToLower(name)]

	return ok
}

// checkDestination must be called with the lock held.
func (s *Suite) checkDestination(destinationChain string) error {
	if strings.EqualFold(destinationChain, s.name) {
		return ErrCannotDeployToSelf
	}
	if !s.isTrusted(destinationChain) {
		return ErrUntrustedChain
	}

	return nil
}

// NewTokenManager binds the token manager at address through backend.
func (s *Suite) NewTokenManager(address common.Address, backend bind.ContractBackend) (its.TokenManager, error) {
	return &TokenManager{suite: s, address: address, backend: backend}, nil
}

// NewInterchainToken binds the token at address through backend.
func (s *Suite) NewInterchainToken(address common.Address, backend bind.ContractBackend) (its.InterchainToken, error) {
	return s.BindToken(address, backend), nil
}

// BindToken binds the token at address through backend.
func (s *Suite) BindToken(address common.Address, backend bind.ContractBackend) *Token {
	if backend == nil {
		backend = s.chain.Client
	}

	return &Token{suite: s, address: address, backend: backend}
}

// transact sends a suite transaction to `to` and must be called with the lock held.
func (s *Suite) transact(
	opts *bind.TransactOpts, backend bind.ContractBackend, to common.Address, method string, args ...any,
) (*types.Transaction, error) {
	if opts == nil || opts.Signer == nil {
		return nil, ErrNoSender
	}
	if backend == nil {
		backend = s.chain.Client
	}

	txOpts := *opts
	if txOpts.GasLimit == 0 {
		txOpts.GasLimit = txGasLimit
	}

	contract := bind.NewBoundContract(to, suiteABI, backend, backend, backend)
	tx, err := contract.Transact(&txOpts, method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to send %s on %s: %w", method, s.name, err)
	}
	s.lggr.Debugw("Sent transaction", "method", method, "to", to, "tx", tx.Hash(), "from", opts.From)

	return tx, nil
}

// emit queues a message of tx for the relayer and must be called with the lock held.
func (s *Suite) emit(tx *types.Transaction, sender common.Address, destinationChain string, payload []byte) {
	msg := relay.NewMessage(tx.Hash(), 0, s.name, ServiceAddress, destinationChain, ServiceAddress, payload)
	msg.Sender = sender
	s.outbox = append(s.outbox, outboxEntry{msg: msg, tx: tx})
	s.lggr.Debugw("Queued cross-chain message", "id", msg.ID, "destination", destinationChain)
}

// DeployERC20 deploys a plain ERC20 token and mints supply to the wallet. The token is
// deployed at the CREATE address of the wallet and its nonce.
func (s *Suite) DeployERC20(
	opts *bind.TransactOpts, name, symbol string, decimals uint8, supply *big.Int,
) (common.Address, *types.Transaction, error) {
	if opts == nil || opts.Signer == nil {
		return common.Address{}, nil, ErrNoSender
	}
	if supply == nil {
		supply = new(big.Int)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	txOpts := *opts
	if txOpts.GasLimit == 0 {
		txOpts.GasLimit = txGasLimit
	}

	// The init code stops immediately, leaving the constructor arguments as calldata only.
	address, tx, _, err := bind.DeployContract(&txOpts, suiteABI, []byte{0x00}, s.chain.Client,
		name, symbol, decimals, supply,
	)
	if err != nil {
		return common.Address{}, nil, fmt.Errorf("failed to deploy ERC20 %s on %s: %w", symbol, s.name, err)
	}

	token := &tokenState{
		name:        name,
		symbol:      symbol,
		decimals:    decimals,
		totalSupply: new(big.Int).Set(supply),
		balances:    make(map[common.Address]*big.Int),
	}
	token.credit(opts.From, supply)
	s.tokens[address] = token
	s.lggr.Infow("Deployed ERC20", "symbol", symbol, "address", address, "tx", tx.Hash())

	return address, tx, nil
}

// deployToken creates an interchain token and its native token manager. It must be called with
// the lock held.
func (s *Suite) deployToken(tokenID its.TokenID, name, symbol string, decimals uint8, distributor common.Address) *tokenState {
	token := &tokenState{
		name:        name,
		symbol:      symbol,
		decimals:    decimals,
		totalSupply: new(big.Int),
		balances:    make(map[common.Address]*big.Int),
		tokenID:     tokenID,
		distributor: distributor,
	}
	tokenAddr := InterchainTokenAddress(tokenID)
	s.tokens[tokenAddr] = token
	s.managers[tokenID] = &managerState{
		tokenID: tokenID,
		token:   tokenAddr,
		kind:    its.TokenManagerNativeInterchainToken,
	}

	return token
}

func (s *Suite) readToken(address common.Address, read func(t *tokenState)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, ok := s.tokens[address]
	if !ok {
		return bind.ErrNoCode
	}
	read(token)

	return nil
}

func (s *Suite) readManager(address common.Address, read func(m *managerState)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, manager := range s.managers {
		if TokenManagerAddress(manager.tokenID) == address {
			read(manager)
			return nil
		}
	}

	return bind.ErrNoCode
}

// ChainName returns the name of the chain messages are sent from and delivered to.
func (s *Suite) ChainName() string {
	return s.name
}

// TakePending removes the queued messages from the outbox once their source transactions are
// included. Messages whose transaction fails to confirm are dropped.
func (s *Suite) TakePending(_ context.Context) ([]relay.Message, error) {
	s.mu.Lock()
	pending := s.outbox
	s.outbox = nil
	s.mu.Unlock()

	msgs := make([]relay.Message, 0, len(pending))
	for _, entry := range pending {
		if _, err := s.chain.Confirm(entry.tx); err != nil {
			s.lggr.Errorw("Dropping message of unconfirmed transaction", "id", entry.msg.ID, "err", err)
			continue
		}
		msgs = append(msgs, entry.msg)
	}

	return msgs, nil
}

// Execute delivers msg: the executor sends the gateway execute transaction and the payload is
// applied to the destination token service.
func (s *Suite) Execute(ctx context.Context, msg relay.Message) error {
	tx, err := s.execute(ctx, msg)
	if err != nil {
		return err
	}

	if _, err := s.chain.Confirm(tx); err != nil {
		return fmt.Errorf("failed to confirm execution of %s on %s: %w", msg.ID, s.name, err)
	}

	return nil
}

func (s *Suite) execute(ctx context.Context, msg relay.Message) (*types.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.executed[msg.ID]; ok {
		return nil, ErrAlreadyExecuted
	}
	if !s.isTrusted(msg.SourceChain) {
		return nil, ErrUntrustedChain
	}

	payload, err := decodePayload(msg.Payload)
	if err != nil {
		return nil, err
	}

	var apply func()
	switch p := payload.(type) {
	case DeployInterchainTokenPayload:
		if _, exists := s.managers[p.TokenID]; exists {
			return nil, ErrAlreadyDeployed
		}
		apply = func() {
			s.deployToken(p.TokenID, p.Name, p.Symbol, p.Decimals, p.Minter)
		}
	case InterchainTransferPayload:
		manager, exists := s.managers[p.TokenID]
		if !exists {
			return nil, ErrTokenManagerDoesNotExist
		}
		token := s.tokens[manager.token]
		managerAddr := TokenManagerAddress(p.TokenID)
		if manager.kind == its.TokenManagerLockUnlock && token.balanceOf(managerAddr).Cmp(p.Amount) < 0 {
			return nil, ErrInsufficientBalance
		}
		apply = func() {
			if manager.kind == its.TokenManagerLockUnlock {
				_ = token.debit(managerAddr, p.Amount)
			} else {
				token.totalSupply.Add(token.totalSupply, p.Amount)
			}
			token.credit(p.Recipient, p.Amount)
		}
	}

	opts := *s.executor
	opts.Context = ctx
	opts.Value = nil
	tx, err := s.transact(&opts, nil, GatewayAddress, "execute",
		[32]byte(msg.CommandID()), msg.SourceChain, msg.SourceAddress.Hex(), msg.Payload,
	)
	if err != nil {
		return nil, err
	}

	apply()
	s.executed[msg.ID] = struct{}{}
	s.lggr.Debugw("Executed cross-chain message", "id", msg.ID, "source", msg.SourceChain, "tx", tx.Hash())

	return tx, nil
}
