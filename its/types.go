package its

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// TokenID identifies an interchain token on every chain it is deployed to.
type TokenID [32]byte

// Hex returns the 0x prefixed hex encoding of the ID.
func (id TokenID) Hex() string {
	return hexutil.Encode(id[:])
}

// String implements fmt.Stringer.
func (id TokenID) String() string {
	return id.Hex()
}

// IsZero reports whether the ID is unset.
func (id TokenID) IsZero() bool {
	return id == TokenID{}
}

// Salt seeds the deterministic address of an interchain token together with the deployer
// address.
type Salt [32]byte

// NewSalt derives a Salt from an arbitrary string by hashing it.
func NewSalt(s string) Salt {
	return Salt(crypto.Keccak256Hash([]byte(s)))
}

// SaltFromHex parses a 32 byte hex string into a Salt.
func SaltFromHex(s string) (Salt, error) {
	b, err := hexutil.Decode(s)
	if err != nil {
		return Salt{}, fmt.Errorf("invalid salt %q: %w", s, err)
	}
	if len(b) != len(Salt{}) {
		return Salt{}, fmt.Errorf("invalid salt %q: expected 32 bytes, got %d", s, len(b))
	}

	return Salt(common.BytesToHash(b)), nil
}

// Hex returns the 0x prefixed hex encoding of the salt.
func (s Salt) Hex() string {
	return hexutil.Encode(s[:])
}

// String implements fmt.Stringer.
func (s Salt) String() string {
	return s.Hex()
}

// TokenManagerType is the implementation type of a token manager, as returned by
// implementationType(). The values mirror the uint8 enum of the token service contracts, so the
// kinds the localnet never deploys are still decoded and printed by name.
type TokenManagerType uint8

// Token manager implementation types, in on-chain enum order.
const (
	TokenManagerNativeInterchainToken TokenManagerType = 0
	TokenManagerMintBurnFrom          TokenManagerType = 1
	TokenManagerLockUnlock            TokenManagerType = 2
	TokenManagerLockUnlockFee         TokenManagerType = 3
	TokenManagerMintBurn              TokenManagerType = 4
)

func (t TokenManagerType) String() string {
	switch t {
	case TokenManagerNativeInterchainToken:
		return "NATIVE_INTERCHAIN_TOKEN"
	case TokenManagerMintBurnFrom:
		return "MINT_BURN_FROM"
	case TokenManagerLockUnlock:
		return "LOCK_UNLOCK"
	case TokenManagerLockUnlockFee:
		return "LOCK_UNLOCK_FEE"
	case TokenManagerMintBurn:
		return "MINT_BURN"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint8(t))
	}
}
