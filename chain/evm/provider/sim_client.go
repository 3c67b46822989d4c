package provider

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
)

// SimClient is a wrapper struct around a simulated backend which implements OnchainClient but
// also exposes backend methods.
type SimClient struct {
	mu sync.Mutex

	// Embed the simulated.Client to provide access to its methods and adhere to the OnchainClient interface.
	simulated.Client
	// sim is the underlying simulated backend that this client wraps.
	sim *simulated.Backend
}

// NewSimClient creates a new SimClient instance from a simulated backend.
func NewSimClient(sim *simulated.Backend) *SimClient {
	return &SimClient{
		sim:    sim,
		Client: sim.Client(),
	}
}

// Commit seals the pending transactions into a new block.
func (b *SimClient) Commit() common.Hash {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.sim.Commit()
}

// Close shuts down the underlying simulated backend.
func (b *SimClient) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.sim.Close()
}
