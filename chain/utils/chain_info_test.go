package utils_test

import (
	"testing"

	chainsel "github.com/smartcontractkit/chain-selectors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartcontractkit/its-localnet/chain/utils"
)

func TestChainInfo(t *testing.T) {
	t.Parallel()

	info, err := utils.ChainInfo(chainsel.ETHEREUM_MAINNET.Selector)
	require.NoError(t, err)
	assert.Equal(t, chainsel.ETHEREUM_MAINNET.Name, info.ChainName)
	assert.Equal(t, chainsel.ETHEREUM_MAINNET.Selector, info.ChainSelector)

	_, err = utils.ChainInfo(0)
	require.ErrorContains(t, err, "unknown chain selector 0")
}

func TestEVMChainInfo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		selector uint64
		wantErr  error
		wantMsg  string
	}{
		{
			name:     "test evm chain",
			selector: chainsel.TEST_90000001.Selector,
		},
		{
			name:     "solana",
			selector: chainsel.SOLANA_DEVNET.Selector,
			wantErr:  utils.ErrUnsupportedFamily,
		},
		{
			name:     "unknown selector",
			selector: 0,
			wantMsg:  "unknown chain selector 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			info, err := utils.EVMChainInfo(tt.selector)
			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
			case tt.wantMsg != "":
				require.ErrorContains(t, err, tt.wantMsg)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.selector, info.ChainSelector)
			}
		})
	}
}
