package its

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/Masterminds/semver/v3"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/smartcontractkit/its-localnet/datastore"
	"github.com/smartcontractkit/its-localnet/pkg/logger"
)

const (
	ContractTypeTokenManager    datastore.ContractType = "TokenManager"
	ContractTypeInterchainToken datastore.ContractType = "InterchainToken"
)

// contractVersion is the version recorded in the address book for every handle.
var contractVersion = semver.MustParse("1.0.0")

// Config holds the collaborators of an Orchestrator.
type Config struct {
	// Registry resolves destination names. Required for DestinationName destinations.
	Registry NetworkFinder
	// Relayer flushes cross-chain messages. Required for remote operations.
	Relayer Relayer
	// Optional: Logger defaults to a no-op logger.
	Logger logger.Logger
	// Optional: AddressBook records the address of every returned handle.
	AddressBook datastore.MutableAddressRefStore
}

// Orchestrator runs interchain token operations from one network.
//
// Calls may run concurrently. They share nothing but the relay flush, which is global: a flush
// started by one call also delivers the messages of every other call. Concurrent calls must use
// distinct salts and tokens, and must not share a wallet unless the network serialises
// submissions per sender.
type Orchestrator struct {
	network     Network
	registry    NetworkFinder
	relayer     Relayer
	lggr        logger.Logger
	addressBook datastore.MutableAddressRefStore
}

// New returns an Orchestrator for network.
func New(network Network, cfg Config) *Orchestrator {
	lggr := cfg.Logger
	if lggr == nil {
		lggr = logger.Nop()
	}

	return &Orchestrator{
		network:     network,
		registry:    cfg.Registry,
		relayer:     cfg.Relayer,
		lggr:        lggr.Named("its").Named(network.Name()),
		addressBook: cfg.AddressBook,
	}
}

// RegisterCanonicalToken registers an existing token on the local network as canonical and
// returns its token manager. Registration is local, nothing is relayed.
func (o *Orchestrator) RegisterCanonicalToken(
	ctx context.Context, token common.Address, opts ...Option,
) (TokenManager, error) {
	call := applyOptions(o.network.Owner(), opts)
	seq := newSequence(o.lggr, "registerCanonicalToken")
	factory := o.network.TokenFactory()

	_, err := o.commit(seq, func() (*types.Transaction, error) {
		txOpts, err := transactOpts(ctx, call.wallet, nil)
		if err != nil {
			return nil, err
		}

		return factory.RegisterCanonicalInterchainToken(txOpts, token)
	})
	if err != nil {
		return nil, err
	}

	tokenID, err := factory.CanonicalInterchainTokenID(callOpts(ctx), token)
	if err != nil {
		return nil, seq.fail(fmt.Errorf("failed to derive canonical token id of %s: %w", token, err))
	}

	managerAddr, err := o.network.TokenService().TokenManagerAddress(callOpts(ctx), tokenID)
	if err != nil {
		return nil, seq.fail(fmt.Errorf("failed to derive token manager address of %s: %w", tokenID, err))
	}

	manager, err := o.network.Binder().NewTokenManager(managerAddr, o.network.Client())
	if err != nil {
		return nil, seq.fail(fmt.Errorf("failed to bind token manager at %s: %w", managerAddr, err))
	}

	if err := o.record(o.network, ContractTypeTokenManager, managerAddr, tokenID, "canonical"); err != nil {
		return nil, seq.fail(err)
	}

	o.lggr.Infow("Registered canonical token",
		"token", token, "tokenId", tokenID, "tokenManager", managerAddr,
	)

	return manager, nil
}

// DeployRemoteCanonicalToken deploys the interchain token of a registered canonical token to
// destination and returns it bound through the destination network. The token is live when the
// call returns.
//
// The cross-chain gas payment is DefaultGasValue unless WithGasValue is given.
func (o *Orchestrator) DeployRemoteCanonicalToken(
	ctx context.Context, token common.Address, destination Destination, opts ...Option,
) (InterchainToken, error) {
	call := applyOptions(o.network.Owner(), opts)
	seq := newSequence(o.lggr, "deployRemoteCanonicalToken")
	factory := o.network.TokenFactory()

	// The ID is derived from chain independent inputs, so it is valid on the destination too.
	tokenID, err := factory.CanonicalInterchainTokenID(callOpts(ctx), token)
	if err != nil {
		return nil, seq.fail(fmt.Errorf("failed to derive canonical token id of %s: %w", token, err))
	}

	dest, err := destination.resolve(o.registry)
	if err != nil {
		return nil, seq.fail(err)
	}
	seq.advance(StageDestinationResolved, "destination", dest.Name())

	sourceTx, err := o.commit(seq, func() (*types.Transaction, error) {
		txOpts, err := transactOpts(ctx, call.wallet, call.gasValue)
		if err != nil {
			return nil, err
		}

		return factory.DeployRemoteCanonicalInterchainToken(txOpts, "", token, dest.Name(), call.gasValue)
	})
	if err != nil {
		return nil, err
	}

	if err := o.relay(ctx, seq, sourceTx, dest, tokenID); err != nil {
		return nil, err
	}

	tokenAddr, err := o.network.TokenService().InterchainTokenAddress(callOpts(ctx), tokenID)
	if err != nil {
		return nil, seq.fail(fmt.Errorf("failed to derive interchain token address of %s: %w", tokenID, err))
	}

	return o.bindRemote(seq, dest, tokenAddr, tokenID, "canonical")
}

// InterchainTokenParams describes a new interchain token.
type InterchainTokenParams struct {
	// Salt seeds the token address together with the deploying wallet address.
	Salt     Salt
	Name     string
	Symbol   string
	Decimals uint8
	// MintAmount is minted to the deploying wallet. Nil or zero mints nothing.
	MintAmount *big.Int
}

// DeployInterchainToken deploys a new interchain token on the local network and returns it
// bound through the local network. The deploying wallet is the distributor unless
// WithDistributor is given.
func (o *Orchestrator) DeployInterchainToken(
	ctx context.Context, params InterchainTokenParams, opts ...Option,
) (InterchainToken, error) {
	call := applyOptions(o.network.Owner(), opts)
	seq := newSequence(o.lggr, "deployInterchainToken")
	factory := o.network.TokenFactory()

	mintAmount := params.MintAmount
	if mintAmount == nil {
		mintAmount = new(big.Int)
	}

	var deployer common.Address
	_, err := o.commit(seq, func() (*types.Transaction, error) {
		txOpts, err := transactOpts(ctx, call.wallet, nil)
		if err != nil {
			return nil, err
		}
		deployer = txOpts.From

		distributor := deployer
		if call.distributor != nil {
			distributor = *call.distributor
		}

		return factory.DeployInterchainToken(
			txOpts, params.Salt, params.Name, params.Symbol, params.Decimals, mintAmount, distributor,
		)
	})
	if err != nil {
		return nil, err
	}

	tokenAddr, err := factory.InterchainTokenAddress(callOpts(ctx), deployer, params.Salt)
	if err != nil {
		return nil, seq.fail(fmt.Errorf("failed to derive interchain token address: %w", err))
	}

	tokenID, err := factory.InterchainTokenID(callOpts(ctx), deployer, params.Salt)
	if err != nil {
		return nil, seq.fail(fmt.Errorf("failed to derive interchain token id: %w", err))
	}

	token, err := o.network.Binder().NewInterchainToken(tokenAddr, o.network.Client())
	if err != nil {
		return nil, seq.fail(fmt.Errorf("failed to bind interchain token at %s: %w", tokenAddr, err))
	}

	if err := o.record(o.network, ContractTypeInterchainToken, tokenAddr, tokenID, params.Symbol); err != nil {
		return nil, seq.fail(err)
	}

	o.lggr.Infow("Deployed interchain token",
		"symbol", params.Symbol, "salt", params.Salt, "tokenId", tokenID, "token", tokenAddr,
	)

	return token, nil
}

// DeployRemoteInterchainToken deploys an interchain token previously deployed by the wallet with
// salt to destination, and returns it bound through the destination network. A nil gasValue
// pays DefaultGasValue.
func (o *Orchestrator) DeployRemoteInterchainToken(
	ctx context.Context,
	salt Salt,
	distributor common.Address,
	destination Destination,
	gasValue *big.Int,
	opts ...Option,
) (InterchainToken, error) {
	if gasValue != nil {
		opts = append(opts, WithGasValue(gasValue))
	}
	call := applyOptions(o.network.Owner(), opts)
	seq := newSequence(o.lggr, "deployRemoteInterchainToken")
	factory := o.network.TokenFactory()

	dest, err := destination.resolve(o.registry)
	if err != nil {
		return nil, seq.fail(err)
	}
	seq.advance(StageDestinationResolved, "destination", dest.Name())

	var deployer common.Address
	sourceTx, err := o.commit(seq, func() (*types.Transaction, error) {
		txOpts, err := transactOpts(ctx, call.wallet, call.gasValue)
		if err != nil {
			return nil, err
		}
		deployer = txOpts.From

		return factory.DeployRemoteInterchainToken(txOpts, "", salt, distributor, dest.Name(), call.gasValue)
	})
	if err != nil {
		return nil, err
	}

	tokenID, err := factory.InterchainTokenID(callOpts(ctx), deployer, salt)
	if err != nil {
		return nil, seq.fail(fmt.Errorf("failed to derive interchain token id: %w", err))
	}

	if err := o.relay(ctx, seq, sourceTx, dest, tokenID); err != nil {
		return nil, err
	}

	// Derived on the local factory: the address only depends on the deployer and the salt.
	tokenAddr, err := factory.InterchainTokenAddress(callOpts(ctx), deployer, salt)
	if err != nil {
		return nil, seq.fail(fmt.Errorf("failed to derive interchain token address: %w", err))
	}

	return o.bindRemote(seq, dest, tokenAddr, tokenID, "interchain")
}

// commit submits a transaction and waits for it to be included on the local network.
func (o *Orchestrator) commit(seq *sequence, submit func() (*types.Transaction, error)) (common.Hash, error) {
	tx, err := submit()
	if err != nil {
		return common.Hash{}, o.localFailure(seq, err)
	}
	seq.advance(StageTxSubmitted, "tx", tx.Hash())

	block, err := o.network.Confirm(tx)
	if err != nil {
		return common.Hash{}, o.localFailure(seq, err)
	}
	seq.advance(StageTxConfirmed, "tx", tx.Hash(), "block", block)

	return tx.Hash(), nil
}

func (o *Orchestrator) localFailure(seq *sequence, err error) error {
	return seq.fail(fmt.Errorf("%w: %s on %s: %w", ErrLocalTransactionFailed, seq.op, o.network.Name(), err))
}

// relay flushes every in flight message and checks that the token manager of tokenID exists on
// dest afterwards. When the relayer is a DeliveryReporter, a failed flush only fails the call if
// a message of sourceTx failed.
func (o *Orchestrator) relay(
	ctx context.Context, seq *sequence, sourceTx common.Hash, dest Network, tokenID TokenID,
) error {
	if o.relayer == nil {
		return seq.fail(fmt.Errorf("%w: no relayer configured", ErrRelayIncomplete))
	}

	if err := o.relayer.Relay(ctx); err != nil {
		reporter, ok := o.relayer.(DeliveryReporter)
		if !ok {
			return seq.fail(fmt.Errorf("%w: %w", ErrRelayIncomplete, err))
		}
		if derr := reporter.DeliveryError(sourceTx); derr != nil {
			return seq.fail(fmt.Errorf("%w: %w", ErrRelayIncomplete, derr))
		}
		o.lggr.Warnw("Relay flush failed for messages of other calls", "op", seq.op, "tx", sourceTx, "err", err)
	}

	if _, err := dest.TokenService().ValidTokenManagerAddress(callOpts(ctx), tokenID); err != nil {
		return seq.fail(fmt.Errorf("%w: token manager of %s not deployed on %s: %w",
			ErrRelayIncomplete, tokenID, dest.Name(), err,
		))
	}
	seq.advance(StageRelayed, "tokenId", tokenID)

	return nil
}

func (o *Orchestrator) bindRemote(
	seq *sequence, dest Network, tokenAddr common.Address, tokenID TokenID, label string,
) (InterchainToken, error) {
	token, err := dest.Binder().NewInterchainToken(tokenAddr, dest.Client())
	if err != nil {
		return nil, seq.fail(fmt.Errorf("failed to bind interchain token at %s on %s: %w", tokenAddr, dest.Name(), err))
	}

	if err := o.record(dest, ContractTypeInterchainToken, tokenAddr, tokenID, label); err != nil {
		return nil, seq.fail(err)
	}
	seq.advance(StageDestinationHandleReady, "token", tokenAddr)

	o.lggr.Infow("Deployed remote interchain token",
		"op", seq.op, "destination", dest.Name(), "tokenId", tokenID, "token", tokenAddr,
	)

	return token, nil
}

func (o *Orchestrator) record(
	n Network, contractType datastore.ContractType, addr common.Address, tokenID TokenID, labels ...string,
) error {
	if o.addressBook == nil {
		return nil
	}

	err := o.addressBook.Upsert(datastore.AddressRef{
		Address:       addr.Hex(),
		ChainSelector: n.ChainSelector(),
		Type:          contractType,
		Version:       contractVersion,
		Qualifier:     tokenID.Hex(),
		Labels:        datastore.NewLabelSet(labels...),
	})
	if err != nil {
		return fmt.Errorf("failed to record %s %s on %s: %w", contractType, addr, n.Name(), err)
	}

	return nil
}

// transactOpts copies wallet so that ctx and value never leak into the caller's wallet.
func transactOpts(ctx context.Context, wallet *bind.TransactOpts, value *big.Int) (*bind.TransactOpts, error) {
	if wallet == nil {
		return nil, errors.New("no wallet given and the network has no owner")
	}

	opts := *wallet
	opts.Context = ctx
	opts.Value = value

	return &opts, nil
}

func callOpts(ctx context.Context) *bind.CallOpts {
	return &bind.CallOpts{Context: ctx}
}
