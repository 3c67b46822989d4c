package simulated

import (
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/smartcontractkit/its-localnet/its"
)

var (
	prefixCanonicalTokenSalt  = crypto.Keccak256Hash([]byte("canonical-token-salt"))
	prefixInterchainTokenSalt = crypto.Keccak256Hash([]byte("interchain-token-salt"))
	prefixInterchainTokenID   = crypto.Keccak256Hash([]byte("its-interchain-token-id"))

	// create3ProxyInitCodeHash is the hash of the CREATE3 proxy init code.
	create3ProxyInitCodeHash = crypto.Keccak256(common.FromHex("0x67363d3d37363d34f03d5260086018f3"))

	// create3Deployer deploys the suite on every chain, so the suite addresses are the same
	// everywhere.
	create3Deployer = common.BytesToAddress(crypto.Keccak256([]byte("its-localnet-create3-deployer")))

	// ServiceAddress is the address of the interchain token service on every chain.
	ServiceAddress = create3Address(create3Deployer, crypto.Keccak256Hash([]byte("interchain-token-service")))
	// FactoryAddress is the address of the interchain token factory on every chain.
	FactoryAddress = create3Address(create3Deployer, crypto.Keccak256Hash([]byte("interchain-token-factory")))
	// GatewayAddress is the address of the gateway on every chain.
	GatewayAddress = create3Address(create3Deployer, crypto.Keccak256Hash([]byte("axelar-gateway")))
)

var (
	bytes32Type, _ = abi.NewType("bytes32", "", nil)
	addressType, _ = abi.NewType("address", "", nil)

	prefixedAddressArgs = abi.Arguments{{Type: bytes32Type}, {Type: addressType}}
	prefixedSaltArgs    = abi.Arguments{{Type: bytes32Type}, {Type: addressType}, {Type: bytes32Type}}
	prefixedIDArgs      = abi.Arguments{{Type: bytes32Type}, {Type: bytes32Type}}
)

// create3Address returns the address of a contract deployed by deployer with CREATE3. It only
// depends on the deployer and the salt.
func create3Address(deployer common.Address, salt common.Hash) common.Address {
	proxy := crypto.CreateAddress2(deployer, salt, create3ProxyInitCodeHash)

	return crypto.CreateAddress(proxy, 1)
}

func mustKeccakPacked(args abi.Arguments, values ...any) common.Hash {
	encoded, err := args.Pack(values...)
	if err != nil {
		panic(err)
	}

	return crypto.Keccak256Hash(encoded)
}

// CanonicalTokenID returns the token ID of a canonical token.
func CanonicalTokenID(token common.Address) its.TokenID {
	salt := mustKeccakPacked(prefixedAddressArgs, [32]byte(prefixCanonicalTokenSalt), token)

	return tokenIDFromDeploySalt(salt)
}

// InterchainTokenID returns the token ID of the interchain token deployed by deployer with salt.
func InterchainTokenID(deployer common.Address, salt its.Salt) its.TokenID {
	deploySalt := mustKeccakPacked(prefixedSaltArgs, [32]byte(prefixInterchainTokenSalt), deployer, [32]byte(salt))

	return tokenIDFromDeploySalt(deploySalt)
}

// Tokens deployed through the factory are registered by the zero address.
func tokenIDFromDeploySalt(deploySalt common.Hash) its.TokenID {
	return its.TokenID(mustKeccakPacked(prefixedSaltArgs,
		[32]byte(prefixInterchainTokenID), common.Address{}, [32]byte(deploySalt),
	))
}

// TokenManagerAddress returns the address of the token manager of tokenID.
func TokenManagerAddress(tokenID its.TokenID) common.Address {
	return create3Address(ServiceAddress, common.Hash(tokenID))
}

// InterchainTokenAddress returns the address of the interchain token of tokenID.
func InterchainTokenAddress(tokenID its.TokenID) common.Address {
	salt := mustKeccakPacked(prefixedIDArgs, [32]byte(prefixInterchainTokenSalt), [32]byte(tokenID))

	return create3Address(ServiceAddress, salt)
}
