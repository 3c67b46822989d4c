package its

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

var (
	ownerAddr = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	userAddr  = common.HexToAddress("0x00000000000000000000000000000000000000b2")
	tokenAddr = common.HexToAddress("0x00000000000000000000000000000000000000c3")
)

// fakeBackend is only compared by identity.
type fakeBackend struct {
	bind.ContractBackend
	name string
}

type submission struct {
	method      string
	from        common.Address
	value       *big.Int
	destination string
	gasValue    *big.Int
	distributor common.Address
}

// fakeFactory derives IDs and addresses by hashing its inputs, so they are identical on every
// fakeNetwork.
type fakeFactory struct {
	mu          sync.Mutex
	submissions []submission
	submitErr   error
	registered  map[common.Address]bool
}

func (f *fakeFactory) submit(opts *bind.TransactOpts, s submission) (*types.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.submitErr != nil {
		return nil, f.submitErr
	}
	s.from = opts.From
	s.value = opts.Value
	f.submissions = append(f.submissions, s)

	return types.NewTx(&types.LegacyTx{Nonce: uint64(len(f.submissions))}), nil
}

func (f *fakeFactory) RegisterCanonicalInterchainToken(opts *bind.TransactOpts, token common.Address) (*types.Transaction, error) {
	f.mu.Lock()
	if f.registered == nil {
		f.registered = map[common.Address]bool{}
	}
	if f.registered[token] {
		f.mu.Unlock()
		return nil, errors.New("execution reverted: AlreadyDeployed()")
	}
	f.registered[token] = true
	f.mu.Unlock()

	return f.submit(opts, submission{method: "registerCanonicalInterchainToken"})
}

func (f *fakeFactory) CanonicalInterchainTokenID(_ *bind.CallOpts, token common.Address) (TokenID, error) {
	return TokenID(crypto.Keccak256Hash([]byte("canonical"), token.Bytes())), nil
}

func (f *fakeFactory) DeployRemoteCanonicalInterchainToken(
	opts *bind.TransactOpts, _ string, _ common.Address, destinationChain string, gasValue *big.Int,
) (*types.Transaction, error) {
	return f.submit(opts, submission{
		method: "deployRemoteCanonicalInterchainToken", destination: destinationChain, gasValue: gasValue,
	})
}

func (f *fakeFactory) DeployInterchainToken(
	opts *bind.TransactOpts, _ Salt, _ string, _ string, _ uint8, _ *big.Int, distributor common.Address,
) (*types.Transaction, error) {
	return f.submit(opts, submission{method: "deployInterchainToken", distributor: distributor})
}

func (f *fakeFactory) InterchainTokenID(_ *bind.CallOpts, deployer common.Address, salt Salt) (TokenID, error) {
	return TokenID(crypto.Keccak256Hash([]byte("interchain"), deployer.Bytes(), salt[:])), nil
}

func (f *fakeFactory) InterchainTokenAddress(opts *bind.CallOpts, deployer common.Address, salt Salt) (common.Address, error) {
	id, _ := f.InterchainTokenID(opts, deployer, salt)

	return tokenAddressOf(id), nil
}

func (f *fakeFactory) DeployRemoteInterchainToken(
	opts *bind.TransactOpts, _ string, _ Salt, distributor common.Address, destinationChain string, gasValue *big.Int,
) (*types.Transaction, error) {
	return f.submit(opts, submission{
		method: "deployRemoteInterchainToken", destination: destinationChain, gasValue: gasValue, distributor: distributor,
	})
}

func (f *fakeFactory) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.submissions)
}

func (f *fakeFactory) last() submission {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.submissions[len(f.submissions)-1]
}

func tokenAddressOf(id TokenID) common.Address {
	return common.BytesToAddress(crypto.Keccak256([]byte("token"), id[:]))
}

func managerAddressOf(id TokenID) common.Address {
	return common.BytesToAddress(crypto.Keccak256([]byte("manager"), id[:]))
}

type fakeService struct {
	mu       sync.Mutex
	managers map[TokenID]bool
}

func (s *fakeService) deploy(id TokenID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.managers == nil {
		s.managers = map[TokenID]bool{}
	}
	s.managers[id] = true
}

func (s *fakeService) TokenManagerAddress(_ *bind.CallOpts, id TokenID) (common.Address, error) {
	return managerAddressOf(id), nil
}

func (s *fakeService) InterchainTokenAddress(_ *bind.CallOpts, id TokenID) (common.Address, error) {
	return tokenAddressOf(id), nil
}

func (s *fakeService) ValidTokenManagerAddress(_ *bind.CallOpts, id TokenID) (common.Address, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.managers[id] {
		return common.Address{}, errors.New("execution reverted: TokenManagerDoesNotExist()")
	}

	return managerAddressOf(id), nil
}

type fakeHandle struct {
	address common.Address
	backend bind.ContractBackend
}

func (h fakeHandle) Address() common.Address { return h.address }

func (h fakeHandle) InterchainTokenID(*bind.CallOpts) (TokenID, error) { return TokenID{}, nil }

func (h fakeHandle) TokenAddress(*bind.CallOpts) (common.Address, error) { return tokenAddr, nil }

func (h fakeHandle) ImplementationType(*bind.CallOpts) (TokenManagerType, error) {
	return TokenManagerLockUnlock, nil
}

func (h fakeHandle) Name(*bind.CallOpts) (string, error) { return "", nil }

func (h fakeHandle) Symbol(*bind.CallOpts) (string, error) { return "", nil }

func (h fakeHandle) Decimals(*bind.CallOpts) (uint8, error) { return 18, nil }

func (h fakeHandle) TotalSupply(*bind.CallOpts) (*big.Int, error) { return new(big.Int), nil }

func (h fakeHandle) BalanceOf(*bind.CallOpts, common.Address) (*big.Int, error) {
	return new(big.Int), nil
}

func (h fakeHandle) IsDistributor(*bind.CallOpts, common.Address) (bool, error) { return false, nil }

type fakeBinder struct{}

func (fakeBinder) NewTokenManager(address common.Address, backend bind.ContractBackend) (TokenManager, error) {
	return fakeHandle{address: address, backend: backend}, nil
}

func (fakeBinder) NewInterchainToken(address common.Address, backend bind.ContractBackend) (InterchainToken, error) {
	return fakeHandle{address: address, backend: backend}, nil
}

type fakeNetwork struct {
	name       string
	selector   uint64
	owner      *bind.TransactOpts
	backend    *fakeBackend
	factory    *fakeFactory
	service    *fakeService
	confirmErr error
}

func newFakeNetwork(name string, selector uint64) *fakeNetwork {
	return &fakeNetwork{
		name:     name,
		selector: selector,
		owner:    &bind.TransactOpts{From: ownerAddr},
		backend:  &fakeBackend{name: name},
		factory:  &fakeFactory{},
		service:  &fakeService{},
	}
}

func (n *fakeNetwork) Name() string { return n.name }
func (n *fakeNetwork) ChainSelector() uint64 { return n.selector }
func (n *fakeNetwork) Client() bind.ContractBackend { return n.backend }
func (n *fakeNetwork) Owner() *bind.TransactOpts { return n.owner }
func (n *fakeNetwork) TokenFactory() TokenFactory { return n.factory }
func (n *fakeNetwork) TokenService() TokenService { return n.service }
func (n *fakeNetwork) Binder() ContractBinder { return fakeBinder{} }

func (n *fakeNetwork) Confirm(*types.Transaction) (uint64, error) {
	if n.confirmErr != nil {
		return 0, n.confirmErr
	}

	return 1, nil
}

type fakeFinder []Network

func (f fakeFinder) FindNetworkByName(name string) (Network, bool) {
	for _, n := range f {
		if strings.EqualFold(n.Name(), name) {
			return n, true
		}
	}

	return nil, false
}

// deliverTo returns a Relayer that deploys the token manager of every remote deployment
// submitted on src to dst.
func deliverTo(src, dst *fakeNetwork, calls *int) RelayFunc {
	return func(_ context.Context) error {
		*calls++
		src.factory.mu.Lock()
		defer src.factory.mu.Unlock()

		for _, s := range src.factory.submissions {
			if !strings.EqualFold(s.destination, dst.name) {
				continue
			}
			switch s.method {
			case "deployRemoteCanonicalInterchainToken":
				id, _ := src.factory.CanonicalInterchainTokenID(nil, tokenAddr)
				dst.service.deploy(id)
			case "deployRemoteInterchainToken":
				id, _ := src.factory.InterchainTokenID(nil, s.from, testSalt)
				dst.service.deploy(id)
			}
		}

		return nil
	}
}

// reportingRelayer fails every flush and reports the delivery failures of a source tx.
type reportingRelayer struct {
	RelayFunc
	deliveryErr func(sourceTx common.Hash) error
}

func (r reportingRelayer) DeliveryError(sourceTx common.Hash) error {
	return r.deliveryErr(sourceTx)
}
