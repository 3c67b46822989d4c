package relay

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Message is a cross-chain message emitted by a source chain transaction.
type Message struct {
	// ID is "<source tx hash>-<index of the message in the transaction>".
	ID                 string
	SourceChain        string
	SourceAddress      common.Address
	DestinationChain   string
	DestinationAddress common.Address
	Payload            []byte
	PayloadHash        common.Hash
	SourceTx           common.Hash
	// Sender is the wallet that sent the source transaction.
	Sender common.Address
}

// NewMessage returns the message emitted at index by sourceTx.
func NewMessage(
	sourceTx common.Hash,
	index int,
	sourceChain string,
	sourceAddress common.Address,
	destinationChain string,
	destinationAddress common.Address,
	payload []byte,
) Message {
	return Message{
		ID:                 fmt.Sprintf("%s-%d", sourceTx.Hex(), index),
		SourceChain:        sourceChain,
		SourceAddress:      sourceAddress,
		DestinationChain:   destinationChain,
		DestinationAddress: destinationAddress,
		Payload:            payload,
		PayloadHash:        crypto.Keccak256Hash(payload),
		SourceTx:           sourceTx,
	}
}

// CommandID identifies the execution of the message on the destination chain.
func (m Message) CommandID() common.Hash {
	return crypto.Keccak256Hash([]byte(m.ID))
}
