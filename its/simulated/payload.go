package simulated

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/smartcontractkit/its-localnet/its"
)

// Message types of the payloads sent between token services.
const (
	MessageTypeInterchainTransfer    = 0
	MessageTypeDeployInterchainToken = 1
)

var (
	uint256Type, _ = abi.NewType("uint256", "", nil)
	uint8Type, _   = abi.NewType("uint8", "", nil)
	stringType, _  = abi.NewType("string", "", nil)
	bytesType, _   = abi.NewType("bytes", "", nil)

	messageTypeArgs = abi.Arguments{{Type: uint256Type}}

	deployInterchainTokenArgs = abi.Arguments{
		{Name: "messageType", Type: uint256Type},
		{Name: "tokenId", Type: bytes32Type},
		{Name: "name", Type: stringType},
		{Name: "symbol", Type: stringType},
		{Name: "decimals", Type: uint8Type},
		{Name: "minter", Type: bytesType},
	}

	interchainTransferArgs = abi.Arguments{
		{Name: "messageType", Type: uint256Type},
		{Name: "tokenId", Type: bytes32Type},
		{Name: "sourceAddress", Type: bytesType},
		{Name: "destinationAddress", Type: bytesType},
		{Name: "amount", Type: uint256Type},
		{Name: "data", Type: bytesType},
	}
)

// DeployInterchainTokenPayload deploys an interchain token and its token manager on the
// destination chain.
type DeployInterchainTokenPayload struct {
	TokenID  its.TokenID
	Name     string
	Symbol   string
	Decimals uint8
	// Minter becomes the distributor of the token. Zero means no distributor.
	Minter common.Address
}

func (p DeployInterchainTokenPayload) encode() ([]byte, error) {
	var minter []byte
	if p.Minter != (common.Address{}) {
		minter = p.Minter.Bytes()
	}

	return deployInterchainTokenArgs.Pack(
		big.NewInt(MessageTypeDeployInterchainToken), [32]byte(p.TokenID), p.Name, p.Symbol, p.Decimals, minter,
	)
}

// InterchainTransferPayload moves amount of a token to a recipient on the destination chain.
type InterchainTransferPayload struct {
	TokenID   its.TokenID
	Sender    common.Address
	Recipient common.Address
	Amount    *big.Int
}

func (p InterchainTransferPayload) encode() ([]byte, error) {
	return interchainTransferArgs.Pack(
		big.NewInt(MessageTypeInterchainTransfer), [32]byte(p.TokenID), p.Sender.Bytes(), p.Recipient.Bytes(), p.Amount, []byte{},
	)
}

// decodePayload returns a DeployInterchainTokenPayload or an InterchainTransferPayload.
func decodePayload(payload []byte) (any, error) {
	head, err := messageTypeArgs.Unpack(payload[:min(len(payload), 32)])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	messageType, ok := head[0].(*big.Int)
	if !ok || !messageType.IsInt64() {
		return nil, ErrInvalidPayload
	}

	switch messageType.Int64() {
	case MessageTypeDeployInterchainToken:
		var decoded struct {
			MessageType *big.Int
			TokenId     [32]byte //nolint:revive // must match the abi argument name
			Name        string
			Symbol      string
			Decimals    uint8
			Minter      []byte
		}
		if err := unpackInto(deployInterchainTokenArgs, &decoded, payload); err != nil {
			return nil, err
		}

		return DeployInterchainTokenPayload{
			TokenID:  its.TokenID(decoded.TokenId),
			Name:     decoded.Name,
			Symbol:   decoded.Symbol,
			Decimals: decoded.Decimals,
			Minter:   common.BytesToAddress(decoded.Minter),
		}, nil
	case MessageTypeInterchainTransfer:
		var decoded struct {
			MessageType        *big.Int
			TokenId            [32]byte //nolint:revive // must match the abi argument name
			SourceAddress      []byte
			DestinationAddress []byte
			Amount             *big.Int
			Data               []byte
		}
		if err := unpackInto(interchainTransferArgs, &decoded, payload); err != nil {
			return nil, err
		}

		return InterchainTransferPayload{
			TokenID:   its.TokenID(decoded.TokenId),
			Sender:    common.BytesToAddress(decoded.SourceAddress),
			Recipient: common.BytesToAddress(decoded.DestinationAddress),
			Amount:    decoded.Amount,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidPayload, messageType)
	}
}

func unpackInto(args abi.Arguments, v any, payload []byte) error {
	values, err := args.Unpack(payload)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	if err := args.Copy(v, values); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}

	return nil
}
