package simulated

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/crypto"
	chainsel "github.com/smartcontractkit/chain-selectors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartcontractkit/its-localnet/chain/evm"
	"github.com/smartcontractkit/its-localnet/chain/evm/provider"
	"github.com/smartcontractkit/its-localnet/its"
	"github.com/smartcontractkit/its-localnet/pkg/logger"
	"github.com/smartcontractkit/its-localnet/relay"
)

func newTestChain(t *testing.T, selector uint64) evm.Chain {
	t.Helper()

	p := provider.NewSimChainProvider(selector, provider.SimChainProviderConfig{NumAdditionalAccounts: 1})
	bc, err := p.Initialize(t.Context())
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })

	return bc.(evm.Chain)
}

func newTestSuite(t *testing.T, name string, selector uint64) (*Suite, evm.Chain) {
	t.Helper()

	c := newTestChain(t, selector)
	s, err := NewSuite(SuiteConfig{ChainName: name, Chain: c, Logger: logger.Test(t)})
	require.NoError(t, err)

	return s, c
}

func TestDerivation_ChainIndependent(t *testing.T) {
	t.Parallel()

	deployer := common.HexToAddress("0x1234")
	salt := its.NewSalt("salt")

	id := InterchainTokenID(deployer, salt)
	assert.Equal(t, id, InterchainTokenID(deployer, salt))
	assert.NotEqual(t, id, InterchainTokenID(common.HexToAddress("0x5678"), salt))
	assert.NotEqual(t, id, InterchainTokenID(deployer, its.NewSalt("other")))
	assert.NotEqual(t, id, CanonicalTokenID(deployer))

	assert.NotEqual(t, TokenManagerAddress(id), InterchainTokenAddress(id))
	assert.NotEqual(t, ServiceAddress, FactoryAddress)
	assert.NotEqual(t, ServiceAddress, GatewayAddress)
}

func TestNewSuite_Invalid(t *testing.T) {
	t.Parallel()

	_, err := NewSuite(SuiteConfig{})
	require.ErrorContains(t, err, "chain name is required")

	_, err = NewSuite(SuiteConfig{ChainName: "Ethereum"})
	require.ErrorContains(t, err, "not initialized")
}

func TestSuite_DeployERC20(t *testing.T) {
	t.Parallel()

	s, c := newTestSuite(t, "Ethereum", chainsel.TEST_90000001.Selector)

	nonce, err := c.Client.PendingNonceAt(t.Context(), c.DeployerKey.From)
	require.NoError(t, err)

	addr, tx, err := s.DeployERC20(c.DeployerKey, "Token", "TKN", 6, big.NewInt(100))
	require.NoError(t, err)
	_, err = c.Confirm(tx)
	require.NoError(t, err)

	assert.Equal(t, crypto.CreateAddress(c.DeployerKey.From, nonce), addr)

	token := s.BindToken(addr, nil)
	balance, err := token.BalanceOf(nil, c.DeployerKey.From)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(100), balance)

	_, err = token.InterchainTokenID(nil)
	require.ErrorIs(t, err, ErrTokenManagerDoesNotExist)

	_, err = s.BindToken(common.HexToAddress("0x01"), nil).Symbol(nil)
	require.ErrorIs(t, err, bind.ErrNoCode)
}

func TestFactory_Reverts(t *testing.T) {
	t.Parallel()

	s, c := newTestSuite(t, "Ethereum", chainsel.TEST_90000001.Selector)
	s.TrustChain("Avalanche")
	owner := c.DeployerKey
	factory := s.Factory()

	erc20, tx, err := s.DeployERC20(owner, "Token", "TKN", 18, big.NewInt(1))
	require.NoError(t, err)
	_, err = c.Confirm(tx)
	require.NoError(t, err)

	tests := []struct {
		name    string
		call    func() error
		wantErr error
	}{
		{
			name: "register unknown token",
			call: func() error {
				_, err := factory.RegisterCanonicalInterchainToken(owner, common.HexToAddress("0x01"))
				return err
			},
			wantErr: ErrNotToken,
		},
		{
			name: "remote canonical without registration",
			call: func() error {
				_, err := factory.DeployRemoteCanonicalInterchainToken(owner, "", erc20, "Avalanche", nil)
				return err
			},
			wantErr: ErrTokenManagerDoesNotExist,
		},
		{
			name: "remote interchain without local token",
			call: func() error {
				_, err := factory.DeployRemoteInterchainToken(owner, "", its.NewSalt("missing"), common.Address{}, "Avalanche", nil)
				return err
			},
			wantErr: ErrTokenManagerDoesNotExist,
		},
		{
			name: "no signer",
			call: func() error {
				_, err := factory.RegisterCanonicalInterchainToken(&bind.TransactOpts{From: owner.From}, erc20)
				return err
			},
			wantErr: ErrNoSender,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	// Reverts are errors of the EVM.
	_, err = factory.RegisterCanonicalInterchainToken(owner, common.HexToAddress("0x01"))
	require.ErrorIs(t, err, vm.ErrExecutionReverted)
	require.EqualError(t, err, "execution reverted: NotToken()")
}

func TestFactory_DeployInterchainToken(t *testing.T) {
	t.Parallel()

	s, c := newTestSuite(t, "Ethereum", chainsel.TEST_90000001.Selector)
	owner := c.DeployerKey
	factory := s.Factory()
	salt := its.NewSalt("token")

	tx, err := factory.DeployInterchainToken(owner, salt, "Name", "SYM", 18, big.NewInt(1000), owner.From)
	require.NoError(t, err)
	_, err = c.Confirm(tx)
	require.NoError(t, err)

	tokenAddr, err := factory.InterchainTokenAddress(nil, owner.From, salt)
	require.NoError(t, err)
	token := s.BindToken(tokenAddr, nil)

	id, err := token.InterchainTokenID(nil)
	require.NoError(t, err)
	assert.Equal(t, InterchainTokenID(owner.From, salt), id)

	distributor, err := token.Distributor(nil)
	require.NoError(t, err)
	assert.Equal(t, owner.From, distributor)

	manager, err := s.NewTokenManager(TokenManagerAddress(id), c.Client)
	require.NoError(t, err)
	kind, err := manager.ImplementationType(nil)
	require.NoError(t, err)
	assert.Equal(t, its.TokenManagerNativeInterchainToken, kind)

	// Same deployer and salt.
	_, err = factory.DeployInterchainToken(owner, salt, "Name", "SYM", 18, nil, owner.From)
	require.ErrorIs(t, err, ErrAlreadyDeployed)

	// Remote deployments to the own chain or untrusted chains are rejected.
	_, err = factory.DeployRemoteInterchainToken(owner, "", salt, common.Address{}, "ethereum", nil)
	require.ErrorIs(t, err, ErrCannotDeployToSelf)
	_, err = factory.DeployRemoteInterchainToken(owner, "", salt, common.Address{}, "Avalanche", nil)
	require.ErrorIs(t, err, ErrUntrustedChain)

	// Transfers on the local chain.
	recipient := c.Users[0].From
	tx, err = token.Transfer(owner, recipient, big.NewInt(10))
	require.NoError(t, err)
	_, err = c.Confirm(tx)
	require.NoError(t, err)

	balance, err := token.BalanceOf(nil, recipient)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(10), balance)

	_, err = token.Transfer(c.Users[0], owner.From, big.NewInt(11))
	require.ErrorIs(t, err, ErrInsufficientBalance)
}

func TestSuite_Relay(t *testing.T) {
	t.Parallel()

	eth, ethChain := newTestSuite(t, "Ethereum", chainsel.TEST_90000001.Selector)
	avax, avaxChain := newTestSuite(t, "Avalanche", chainsel.TEST_90000002.Selector)
	eth.TrustChain("Avalanche")
	avax.TrustChain("Ethereum")

	relayer := relay.NewRelayer(logger.Test(t))
	require.NoError(t, relayer.Register(eth, avax))

	owner := ethChain.DeployerKey
	salt := its.NewSalt("relay")
	tx, err := eth.Factory().DeployInterchainToken(owner, salt, "Relay", "RLY", 8, big.NewInt(5), owner.From)
	require.NoError(t, err)
	_, err = ethChain.Confirm(tx)
	require.NoError(t, err)

	tx, err = eth.Factory().DeployRemoteInterchainToken(owner, "", salt, owner.From, "Avalanche", big.NewInt(1))
	require.NoError(t, err)

	id := InterchainTokenID(owner.From, salt)
	_, err = avax.Service().ValidTokenManagerAddress(nil, id)
	require.ErrorIs(t, err, ErrTokenManagerDoesNotExist, "not delivered before the relay")

	// The relayer confirms the source transaction itself.
	require.NoError(t, relayer.Relay(t.Context()))

	_, err = avax.Service().ValidTokenManagerAddress(nil, id)
	require.NoError(t, err)

	delivered := relayer.Delivered()
	require.Len(t, delivered, 1)
	assert.Equal(t, tx.Hash().Hex()+"-0", delivered[0].ID)
	assert.Equal(t, "Avalanche", delivered[0].DestinationChain)

	remote := avax.BindToken(InterchainTokenAddress(id), avaxChain.Client)
	decimals, err := remote.Decimals(nil)
	require.NoError(t, err)
	assert.Equal(t, uint8(8), decimals)

	// Replaying a delivered message is rejected.
	require.ErrorIs(t, avax.Execute(t.Context(), delivered[0]), ErrAlreadyExecuted)

	// Messages from untrusted chains are rejected.
	untrusted := delivered[0]
	untrusted.ID = "other"
	untrusted.SourceChain = "Fantom"
	require.ErrorIs(t, avax.Execute(t.Context(), untrusted), ErrUntrustedChain)
}

func TestPayload_Decode(t *testing.T) {
	t.Parallel()

	deploy := DeployInterchainTokenPayload{
		TokenID:  InterchainTokenID(common.HexToAddress("0x01"), its.NewSalt("p")),
		Name:     "Name",
		Symbol:   "SYM",
		Decimals: 18,
		Minter:   common.HexToAddress("0x02"),
	}
	encoded, err := deploy.encode()
	require.NoError(t, err)
	decoded, err := decodePayload(encoded)
	require.NoError(t, err)
	assert.Equal(t, deploy, decoded)

	transfer := InterchainTransferPayload{
		TokenID:   deploy.TokenID,
		Sender:    common.HexToAddress("0x03"),
		Recipient: common.HexToAddress("0x04"),
		Amount:    big.NewInt(7),
	}
	encoded, err = transfer.encode()
	require.NoError(t, err)
	decoded, err = decodePayload(encoded)
	require.NoError(t, err)
	assert.Equal(t, transfer, decoded)

	_, err = decodePayload([]byte{0x01})
	require.ErrorIs(t, err, ErrInvalidPayload)
}
