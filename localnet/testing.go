package localnet

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/smartcontractkit/its-localnet/pkg/logger"
)

// NewTest starts a localnet with the default configuration, modified by opts, and stops it when
// the test ends.
func NewTest(t testing.TB, opts ...func(*Config)) *Localnet {
	t.Helper()

	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	l, err := New(t.Context(), cfg, logger.Test(t))
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, l.Close())
	})

	return l
}
