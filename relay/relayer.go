// Package relay delivers cross-chain messages between the chains of a localnet.
package relay

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"

	"github.com/smartcontractkit/its-localnet/pkg/logger"
)

var (
	ErrUnknownChain   = errors.New("unknown destination chain")
	ErrDeliveryFailed = errors.New("message delivery failed")
	ErrDuplicateChain = errors.New("chain already registered")
	ErrTooManyRounds  = errors.New("relay did not settle")
)

const defaultMaxRounds = 64

// Endpoint is the gateway of one chain.
type Endpoint interface {
	// ChainName is the name messages use to address the chain.
	ChainName() string
	// TakePending removes and returns the outgoing messages whose source transactions are
	// included on the chain.
	TakePending(ctx context.Context) ([]Message, error)
	// Execute delivers an incoming message and waits for its execution to be included.
	Execute(ctx context.Context, msg Message) error
}

// Option configures a Relayer.
type Option func(*Relayer)

// WithMaxRounds bounds the number of rounds of a single Relay call. Executing a message can emit
// new messages, each round delivers the messages emitted by the previous one.
func WithMaxRounds(n int) Option {
	return func(r *Relayer) {
		r.maxRounds = n
	}
}

// Relayer moves messages from the outbox of every Endpoint to the Endpoint of their destination.
type Relayer struct {
	// mu serialises flushes: a Relay call started while another one is running waits for it and
	// then delivers whatever is left.
	mu sync.Mutex

	endpoints map[string]Endpoint
	order     []string
	maxRounds int
	lggr      logger.Logger

	delivered []Message
	failed    []FailedMessage
}

// FailedMessage is a message whose execution failed, with the failure.
type FailedMessage struct {
	Message Message
	Err     error
}

// NewRelayer returns a Relayer without endpoints.
func NewRelayer(lggr logger.Logger, opts ...Option) *Relayer {
	if lggr == nil {
		lggr = logger.Nop()
	}

	r := &Relayer{
		endpoints: make(map[string]Endpoint),
		maxRounds: defaultMaxRounds,
		lggr:      lggr.Named("relayer"),
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Register adds the endpoints of chains. Chain names are matched ignoring case.
func (r *Relayer) Register(endpoints ...Endpoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range endpoints {
		key := strings.ToLower(e.ChainName())
		if _, ok := r.endpoints[key]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateChain, e.ChainName())
		}
		r.endpoints[key] = e
		r.order = append(r.order, key)
	}

	return nil
}

// Relay delivers every pending message of every chain, including the messages emitted while
// delivering, and returns once no chain has pending messages. A message that cannot be delivered
// is recorded in Failed and fails the flush after the remaining messages are delivered.
func (r *Relayer) Relay(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	flushID := uuid.NewString()
	lggr := r.lggr.With("flushId", flushID)

	var errs []error
	for round := 0; ; round++ {
		if round == r.maxRounds {
			return fmt.Errorf("%w after %d rounds", ErrTooManyRounds, round)
		}

		msgs, err := r.takePending(ctx)
		if err != nil {
			return err
		}
		if len(msgs) == 0 {
			lggr.Debugw("Relay flushed", "rounds", round)
			break
		}
		lggr.Debugw("Relaying messages", "round", round, "messages", len(msgs))

		for _, msg := range msgs {
			if err := r.deliver(ctx, msg); err != nil {
				lggr.Errorw("Failed to deliver message", "id", msg.ID, "err", err)
				r.failed = append(r.failed, FailedMessage{Message: msg, Err: err})
				errs = append(errs, err)

				continue
			}
			r.delivered = append(r.delivered, msg)
			lggr.Infow("Delivered message",
				"id", msg.ID, "source", msg.SourceChain, "destination", msg.DestinationChain,
			)
		}
	}

	return errors.Join(errs...)
}

func (r *Relayer) takePending(ctx context.Context) ([]Message, error) {
	var msgs []Message
	for _, key := range r.order {
		pending, err := r.endpoints[key].TakePending(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to take pending messages of %s: %w", r.endpoints[key].ChainName(), err)
		}
		msgs = append(msgs, pending...)
	}

	return msgs, nil
}

func (r *Relayer) deliver(ctx context.Context, msg Message) error {
	dest, ok := r.endpoints[strings.ToLower(msg.DestinationChain)]
	if !ok {
		return fmt.Errorf("%w: %s: %q", ErrUnknownChain, msg.ID, msg.DestinationChain)
	}

	if err := dest.Execute(ctx, msg); err != nil {
		return fmt.Errorf("%w: %s to %s: %w", ErrDeliveryFailed, msg.ID, dest.ChainName(), err)
	}

	return nil
}

// Delivered returns the messages delivered so far.
func (r *Relayer) Delivered() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]Message(nil), r.delivered...)
}

// DeliveryError joins the delivery failures of the messages emitted by sourceTx. It returns nil
// when none of them failed.
func (r *Relayer) DeliveryError(sourceTx common.Hash) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for _, f := range r.failed {
		if f.Message.SourceTx == sourceTx {
			errs = append(errs, f.Err)
		}
	}

	return errors.Join(errs...)
}

// Failed returns the messages that could not be delivered so far.
func (r *Relayer) Failed() []FailedMessage {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]FailedMessage(nil), r.failed...)
}
