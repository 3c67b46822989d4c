package relay

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/smartcontractkit/its-localnet/pkg/logger"
)

// fakeEndpoint executes messages by recording them. A message with payload "echo" emits a
// message back to its source when executed.
type fakeEndpoint struct {
	mu         sync.Mutex
	name       string
	outbox     []Message
	executed   []Message
	executeErr error
}

func (e *fakeEndpoint) ChainName() string { return e.name }

func (e *fakeEndpoint) send(dest string, payload string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	tx := common.BytesToHash([]byte(e.name + payload + dest))
	e.outbox = append(e.outbox, NewMessage(tx, len(e.outbox), e.name, common.Address{}, dest, common.Address{}, []byte(payload)))
}

func (e *fakeEndpoint) TakePending(context.Context) ([]Message, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	pending := e.outbox
	e.outbox = nil

	return pending, nil
}

func (e *fakeEndpoint) Execute(_ context.Context, msg Message) error {
	if e.executeErr != nil {
		return e.executeErr
	}

	e.mu.Lock()
	e.executed = append(e.executed, msg)
	e.mu.Unlock()

	if string(msg.Payload) == "echo" {
		e.send(msg.SourceChain, "reply")
	}

	return nil
}

func (e *fakeEndpoint) executedCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return len(e.executed)
}

func newTestRelayer(t *testing.T, endpoints ...Endpoint) *Relayer {
	t.Helper()

	r := NewRelayer(logger.Test(t))
	require.NoError(t, r.Register(endpoints...))

	return r
}

func TestRelayer_Relay(t *testing.T) {
	t.Parallel()

	eth := &fakeEndpoint{name: "Ethereum"}
	avax := &fakeEndpoint{name: "Avalanche"}
	r := newTestRelayer(t, eth, avax)

	eth.send("avalanche", "deploy")
	eth.send("AVALANCHE", "echo")

	require.NoError(t, r.Relay(t.Context()))

	assert.Equal(t, 2, avax.executedCount())
	require.Equal(t, 1, eth.executedCount(), "reply emitted during the flush is delivered by the same flush")
	assert.Equal(t, "reply", string(eth.executed[0].Payload))
	assert.Len(t, r.Delivered(), 3)
	assert.Empty(t, r.Failed())

	// Nothing left to deliver.
	require.NoError(t, r.Relay(t.Context()))
	assert.Len(t, r.Delivered(), 3)
}

func TestRelayer_Relay_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		dest    string
		execErr error
		wantErr error
	}{
		{name: "unknown chain", dest: "Fantom", wantErr: ErrUnknownChain},
		{name: "execution fails", dest: "Avalanche", execErr: errors.New("execution reverted"), wantErr: ErrDeliveryFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			eth := &fakeEndpoint{name: "Ethereum"}
			avax := &fakeEndpoint{name: "Avalanche", executeErr: tt.execErr}
			r := newTestRelayer(t, eth, avax)

			eth.send(tt.dest, "deploy")
			eth.send("Ethereum", "deploy")

			err := r.Relay(t.Context())
			require.ErrorIs(t, err, tt.wantErr)

			failed := r.Failed()
			require.Len(t, failed, 1)
			assert.Equal(t, tt.dest, failed[0].Message.DestinationChain)
			assert.Equal(t, 1, eth.executedCount(), "remaining messages are still delivered")
		})
	}
}

func TestRelayer_DeliveryError(t *testing.T) {
	t.Parallel()

	eth := &fakeEndpoint{name: "Ethereum"}
	avax := &fakeEndpoint{name: "Avalanche"}
	r := newTestRelayer(t, eth, avax)

	eth.send("Fantom", "deploy")
	eth.send("Avalanche", "deploy")
	pending := append([]Message(nil), eth.outbox...)

	require.ErrorIs(t, r.Relay(t.Context()), ErrUnknownChain)

	err := r.DeliveryError(pending[0].SourceTx)
	require.ErrorIs(t, err, ErrUnknownChain)
	assert.ErrorContains(t, err, pending[0].ID)
	require.NoError(t, r.DeliveryError(pending[1].SourceTx), "the delivered message belongs to another tx")
	require.NoError(t, r.DeliveryError(common.HexToHash("0x01")))
}

func TestRelayer_Register_Duplicate(t *testing.T) {
	t.Parallel()

	r := NewRelayer(nil)
	require.NoError(t, r.Register(&fakeEndpoint{name: "Ethereum"}))
	require.ErrorIs(t, r.Register(&fakeEndpoint{name: "ethereum"}), ErrDuplicateChain)
}

func TestRelayer_MaxRounds(t *testing.T) {
	t.Parallel()

	a := &pingPong{fakeEndpoint: &fakeEndpoint{name: "A"}}
	b := &pingPong{fakeEndpoint: &fakeEndpoint{name: "B"}}
	r := NewRelayer(logger.Nop(), WithMaxRounds(3))
	require.NoError(t, r.Register(a, b))

	// Every message is answered: the flush never settles.
	a.send("B", "ping")

	require.ErrorIs(t, r.Relay(t.Context()), ErrTooManyRounds)
}

// pingPong answers every message with another message.
type pingPong struct {
	*fakeEndpoint
}

func (p *pingPong) Execute(_ context.Context, msg Message) error {
	p.send(msg.SourceChain, "ping")

	return nil
}

func TestRelayer_Relay_Concurrent(t *testing.T) {
	t.Parallel()

	eth := &fakeEndpoint{name: "Ethereum"}
	avax := &fakeEndpoint{name: "Avalanche"}
	r := newTestRelayer(t, eth, avax)

	var eg errgroup.Group
	for range 8 {
		eg.Go(func() error {
			eth.send("Avalanche", "deploy")
			return r.Relay(t.Context())
		})
	}
	require.NoError(t, eg.Wait())

	// Every caller's message is delivered exactly once, by whichever flush saw it first.
	assert.Equal(t, 8, avax.executedCount())
	assert.Len(t, r.Delivered(), 8)
}

func TestMessage(t *testing.T) {
	t.Parallel()

	tx := common.HexToHash("0x01")
	msg := NewMessage(tx, 2, "Ethereum", common.Address{}, "Avalanche", common.Address{}, []byte("payload"))

	assert.Equal(t, tx.Hex()+"-2", msg.ID)
	assert.NotEqual(t, common.Hash{}, msg.PayloadHash)
	assert.NotEqual(t, msg.CommandID(), NewMessage(tx, 3, "", common.Address{}, "", common.Address{}, nil).CommandID())
}
