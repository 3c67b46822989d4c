package provider

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
	"github.com/ethereum/go-ethereum/params"

	"github.com/smartcontractkit/its-localnet/chain"
	"github.com/smartcontractkit/its-localnet/chain/evm"
)

var (
	// simChainID is the chain ID for the simulated EVM chain. This is always set to 1337 across
	// all instances of EVM Simulated Chains.
	simChainID = params.AllDevChainProtocolChanges.ChainID
	// prefundAmountEth is the amount of Ether to pre-fund every generated account with.
	prefundAmountEth = big.NewInt(1_000_000)
	// prefundAmountWei is the prefund amount in wei.
	prefundAmountWei = new(big.Int).Mul(prefundAmountEth, big.NewInt(params.Ether))
)

const (
	// simBlockGasLimit is the block gas limit of every simulated chain.
	simBlockGasLimit = 50_000_000
	// confirmTimeout bounds how long Confirm waits for a receipt after committing a block.
	confirmTimeout = 1 * time.Minute
	// simReceiptPollInterval is the receipt polling interval after a manual commit. The receipt
	// is normally available on the first attempt.
	simReceiptPollInterval = 10 * time.Millisecond
)

// SimChainProviderConfig holds the configuration to initialize the SimChainProvider.
type SimChainProviderConfig struct {
	// Optional: DeployerKey is the private key of the owner account. Sharing one key across
	// several simulated chains gives every chain the same owner address. A key is generated when
	// nil.
	DeployerKey *ecdsa.PrivateKey
	// Optional: NumAdditionalAccounts is the number of additional accounts to generate for the
	// simulated chain.
	NumAdditionalAccounts uint
	// Optional: BlockTime configures the time between blocks being committed. By default, this is
	// set to 0s, meaning that blocks are not mined automatically and you must call the Commit
	// method on the Simulated Backend to produce a new block.
	BlockTime time.Duration
}

var _ chain.Provider = (*SimChainProvider)(nil)

// SimChainProvider manages a Simulated EVM chain that is backed by go-ethereum's in memory
// simulated backend.
type SimChainProvider struct {
	selector uint64
	config   SimChainProviderConfig

	chain  *evm.Chain
	client *SimClient
}

// NewSimChainProvider creates a new SimChainProvider with the given selector and configuration.
func NewSimChainProvider(selector uint64, config SimChainProviderConfig) *SimChainProvider {
	return &SimChainProvider{
		selector: selector,
		config:   config,
	}
}

// Initialize sets up the simulated chain with a deployer account and additional accounts as
// specified in the configuration. It returns an initialized evm.Chain instance that can be used
// to interact with the simulated chain.
//
// Each account is prefunded with 1,000,000 Ether. When a block time is configured, blocks are
// mined until ctx is done.
func (p *SimChainProvider) Initialize(ctx context.Context) (chain.BlockChain, error) {
	if p.chain != nil {
		return *p.chain, nil // Already initialized
	}

	key := p.config.DeployerKey
	if key == nil {
		var err error
		if key, err = crypto.GenerateKey(); err != nil {
			return nil, fmt.Errorf("failed to generate deployer key: %w", err)
		}
	}

	adminTransactor, err := bind.NewKeyedTransactorWithChainID(key, simChainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create deployer transactor: %w", err)
	}

	genesis := types.GenesisAlloc{
		adminTransactor.From: {Balance: prefundAmountWei},
	}

	additionalTransactors := make([]*bind.TransactOpts, 0, p.config.NumAdditionalAccounts)
	for range p.config.NumAdditionalAccounts {
		userKey, err := crypto.GenerateKey()
		if err != nil {
			return nil, fmt.Errorf("failed to generate user key: %w", err)
		}

		transactor, err := bind.NewKeyedTransactorWithChainID(userKey, simChainID)
		if err != nil {
			return nil, fmt.Errorf("failed to create user transactor: %w", err)
		}

		additionalTransactors = append(additionalTransactors, transactor)
		genesis[transactor.From] = types.Account{Balance: prefundAmountWei}
	}

	backend := simulated.NewBackend(genesis, simulated.WithBlockGasLimit(simBlockGasLimit))
	backend.Commit() // Commit the genesis block

	client := NewSimClient(backend)

	if p.config.BlockTime > 0 {
		startAutoMine(ctx, client, p.config.BlockTime)
	}

	confirm := p.commitAndConfirm(ctx, client, adminTransactor)
	if p.config.BlockTime > 0 {
		// Blocks are produced by the auto miner, so confirmations only poll for receipts.
		confirm, err = ConfirmFuncGeth(confirmTimeout, WithTickInterval(p.config.BlockTime)).
			Generate(ctx, p.selector, client, adminTransactor.From)
		if err != nil {
			return nil, fmt.Errorf("failed to generate confirm function: %w", err)
		}
	}

	p.client = client
	p.chain = &evm.Chain{
		Selector:    p.selector,
		Client:      client,
		DeployerKey: adminTransactor,
		Users:       additionalTransactors,
		Confirm:     confirm,
	}

	return *p.chain, nil
}

// commitAndConfirm returns the ConfirmFunc of a manually mined simulated chain. Every
// confirmation commits a new block so that pending transactions are mined immediately.
func (p *SimChainProvider) commitAndConfirm(
	ctx context.Context, client *SimClient, admin *bind.TransactOpts,
) evm.ConfirmFunc {
	return func(tx *types.Transaction) (uint64, error) {
		if tx == nil {
			return 0, fmt.Errorf("tx was nil, nothing to confirm for selector: %d", p.selector)
		}

		client.Commit()

		receipt, err := func() (*types.Receipt, error) {
			waitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), confirmTimeout)
			defer cancel()

			return WaitMinedWithInterval(waitCtx, simReceiptPollInterval, client, tx.Hash())
		}()
		if err != nil {
			return 0, fmt.Errorf("tx %s failed to confirm for selector %d: %w",
				tx.Hash().Hex(), p.selector, err,
			)
		}

		if receipt.Status == types.ReceiptStatusFailed {
			return 0, revertError(context.WithoutCancel(ctx), client, admin.From, tx, receipt, p.selector)
		}

		return receipt.BlockNumber.Uint64(), nil
	}
}

// Name returns the name of the SimChainProvider.
func (*SimChainProvider) Name() string {
	return "Simulated EVM Chain Provider"
}

// ChainSelector returns the chain selector of the simulated chain managed by this provider.
func (p *SimChainProvider) ChainSelector() uint64 {
	return p.selector
}

// BlockChain returns the simulated chain instance managed by this provider. You must call Initialize
// before using this method to ensure the chain is properly set up.
func (p *SimChainProvider) BlockChain() chain.BlockChain {
	return *p.chain
}

// Close shuts down the simulated backend. It is a no-op if the provider was never initialized.
func (p *SimChainProvider) Close() error {
	if p.client == nil {
		return nil
	}

	if err := p.client.Close(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("failed to close simulated backend for selector %d: %w", p.selector, err)
	}

	return nil
}

// startAutoMine triggers the simulated backend to create a new block at intervals defined by
// blockTime until ctx is done.
func startAutoMine(ctx context.Context, client *SimClient, blockTime time.Duration) {
	ticker := time.NewTicker(blockTime)
	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				client.Commit()
			case <-ctx.Done():
				return
			}
		}
	}()
}
