package simulated

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// suiteABIJSON holds the externally callable methods of the suite contracts. Calldata of every
// suite transaction is packed with it.
const suiteABIJSON = `[
	{"type":"constructor","inputs":[
		{"name":"name","type":"string"},
		{"name":"symbol","type":"string"},
		{"name":"decimals","type":"uint8"},
		{"name":"initialSupply","type":"uint256"}
	]},
	{"type":"function","name":"registerCanonicalInterchainToken","stateMutability":"payable","inputs":[
		{"name":"tokenAddress","type":"address"}
	],"outputs":[{"name":"tokenId","type":"bytes32"}]},
	{"type":"function","name":"deployRemoteCanonicalInterchainToken","stateMutability":"payable","inputs":[
		{"name":"originalChain","type":"string"},
		{"name":"originalTokenAddress","type":"address"},
		{"name":"destinationChain","type":"string"},
		{"name":"gasValue","type":"uint256"}
	],"outputs":[{"name":"tokenId","type":"bytes32"}]},
	{"type":"function","name":"deployInterchainToken","stateMutability":"payable","inputs":[
		{"name":"salt","type":"bytes32"},
		{"name":"name","type":"string"},
		{"name":"symbol","type":"string"},
		{"name":"decimals","type":"uint8"},
		{"name":"initialSupply","type":"uint256"},
		{"name":"minter","type":"address"}
	],"outputs":[{"name":"tokenAddress","type":"address"}]},
	{"type":"function","name":"deployRemoteInterchainToken","stateMutability":"payable","inputs":[
		{"name":"originalChainName","type":"string"},
		{"name":"salt","type":"bytes32"},
		{"name":"minter","type":"address"},
		{"name":"destinationChain","type":"string"},
		{"name":"gasValue","type":"uint256"}
	],"outputs":[{"name":"tokenId","type":"bytes32"}]},
	{"type":"function","name":"interchainTransfer","stateMutability":"payable","inputs":[
		{"name":"tokenId","type":"bytes32"},
		{"name":"destinationChain","type":"string"},
		{"name":"destinationAddress","type":"bytes"},
		{"name":"amount","type":"uint256"},
		{"name":"metadata","type":"bytes"},
		{"name":"gasValue","type":"uint256"}
	],"outputs":[]},
	{"type":"function","name":"execute","stateMutability":"nonpayable","inputs":[
		{"name":"commandId","type":"bytes32"},
		{"name":"sourceChain","type":"string"},
		{"name":"sourceAddress","type":"string"},
		{"name":"payload","type":"bytes"}
	],"outputs":[]},
	{"type":"function","name":"transfer","stateMutability":"nonpayable","inputs":[
		{"name":"to","type":"address"},
		{"name":"amount","type":"uint256"}
	],"outputs":[{"name":"","type":"bool"}]}
]`

var suiteABI = mustParseABI(suiteABIJSON)

func mustParseABI(s string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(s))
	if err != nil {
		panic(err)
	}

	return parsed
}
