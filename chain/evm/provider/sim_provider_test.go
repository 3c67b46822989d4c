package provider

import (
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	chain_selectors "github.com/smartcontractkit/chain-selectors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartcontractkit/its-localnet/chain/evm"
)

func Test_SimChainProvider_Initialize(t *testing.T) {
	t.Parallel()

	var (
		chainSelector = chain_selectors.TEST_1000.Selector
	)

	sharedKey, err := crypto.GenerateKey()
	require.NoError(t, err)

	tests := []struct {
		name           string
		giveSelector   uint64
		giveConfig     SimChainProviderConfig
		wantMinedBlock bool // Indicates whether a block should be mined automatically after initialization.
	}{
		{
			name:         "valid initialization",
			giveSelector: chainSelector,
			giveConfig: SimChainProviderConfig{
				NumAdditionalAccounts: 1,
			},
		},
		{
			name:         "valid initialization with a given deployer key",
			giveSelector: chainSelector,
			giveConfig: SimChainProviderConfig{
				DeployerKey: sharedKey,
			},
		},
		{
			name:         "valid initialization with automated block mining",
			giveSelector: chainSelector,
			giveConfig: SimChainProviderConfig{
				BlockTime: 10 * time.Millisecond,
			},
			wantMinedBlock: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := NewSimChainProvider(tt.giveSelector, tt.giveConfig)
			t.Cleanup(func() { require.NoError(t, p.Close()) })

			got, err := p.Initialize(t.Context())
			require.NoError(t, err)
			assert.NotNil(t, p.chain)

			gotChain, ok := got.(evm.Chain)
			require.True(t, ok, "expected got to be of type evm.Chain")

			assert.Equal(t, tt.giveSelector, gotChain.Selector)
			assert.NotNil(t, gotChain.Client)
			assert.NotNil(t, gotChain.DeployerKey)
			assert.Len(t, gotChain.Users, int(tt.giveConfig.NumAdditionalAccounts)) //nolint:gosec // G115 overflow issue will not occur here
			assert.NotNil(t, gotChain.Confirm)

			if tt.giveConfig.DeployerKey != nil {
				assert.Equal(t, crypto.PubkeyToAddress(sharedKey.PublicKey), gotChain.DeployerKey.From)
			}

			balance, err := gotChain.Client.BalanceAt(t.Context(), gotChain.DeployerKey.From, nil)
			require.NoError(t, err)
			assert.Equal(t, prefundAmountWei, balance)

			if tt.wantMinedBlock {
				c, ok := gotChain.Client.(*SimClient)
				require.True(t, ok, "expected gotChain.Client to be of type SimClient")

				assert.Eventually(t, func() bool {
					blockNum, err := c.BlockNumber(t.Context())
					if err != nil {
						return false
					}

					return blockNum > 1 // We commit the genesis block, so we expect at least 2 blocks (genesis + 1 mined block)
				}, 1*time.Second, 10*time.Millisecond)
			}
		})
	}
}

func Test_SimChainProvider_Initialize_Idempotent(t *testing.T) {
	t.Parallel()

	p := NewSimChainProvider(chain_selectors.TEST_1000.Selector, SimChainProviderConfig{})
	t.Cleanup(func() { require.NoError(t, p.Close()) })

	first, err := p.Initialize(t.Context())
	require.NoError(t, err)

	second, err := p.Initialize(t.Context())
	require.NoError(t, err)

	assert.Equal(t, first.(evm.Chain).DeployerKey.From, second.(evm.Chain).DeployerKey.From)
}

func Test_SimChainProvider_Confirm(t *testing.T) {
	t.Parallel()

	p := NewSimChainProvider(chain_selectors.TEST_1000.Selector, SimChainProviderConfig{
		NumAdditionalAccounts: 1,
	})
	t.Cleanup(func() { require.NoError(t, p.Close()) })

	got, err := p.Initialize(t.Context())
	require.NoError(t, err)
	c := got.(evm.Chain)

	nonce, err := c.Client.PendingNonceAt(t.Context(), c.DeployerKey.From)
	require.NoError(t, err)

	gasPrice, err := c.Client.SuggestGasPrice(t.Context())
	require.NoError(t, err)

	tx := types.NewTransaction(nonce, c.Users[0].From, big.NewInt(1), 21000, gasPrice, nil)
	signed, err := c.DeployerKey.Signer(c.DeployerKey.From, tx)
	require.NoError(t, err)
	require.NoError(t, c.Client.SendTransaction(t.Context(), signed))

	block, err := c.Confirm(signed)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), block) // genesis commit + confirmation commit

	_, err = c.Confirm(nil)
	require.ErrorContains(t, err, "tx was nil")
}

func Test_SimChainProvider_Name(t *testing.T) {
	t.Parallel()

	p := &SimChainProvider{}
	assert.Equal(t, "Simulated EVM Chain Provider", p.Name())
}

func Test_SimChainProvider_ChainSelector(t *testing.T) {
	t.Parallel()

	p := &SimChainProvider{selector: chain_selectors.TEST_1000.Selector}
	assert.Equal(t, chain_selectors.TEST_1000.Selector, p.ChainSelector())
}

func Test_SimChainProvider_BlockChain(t *testing.T) {
	t.Parallel()

	chain := &evm.Chain{}

	p := &SimChainProvider{
		chain: chain,
	}

	assert.Equal(t, *chain, p.BlockChain())
}
