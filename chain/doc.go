/*
Package chain provides the blockchain abstraction shared by the localnet harness.

Every simulated network satisfies the BlockChain interface:

	type BlockChain interface {
		String() string        // "<name> (<selector>)"
		Name() string          // Chain name
		ChainSelector() uint64 // Unique chain identifier
		Family() string        // Blockchain family (evm)
	}

A BlockChains collection is built once when the harness starts and is read-only afterwards:

	chains := chain.NewBlockChainsFromSlice([]chain.BlockChain{ethereum, avalanche})

	evmSelectors := chains.ListChainSelectors(chain.WithFamily(chainsel.FamilyEVM))

	// Lookups by name ignore case, "avalanche" and "AVALANCHE" resolve to the same chain.
	avax, err := chains.GetByName("avalanche")

	for selector, bc := range chains.All() {
		fmt.Printf("%d: %s\n", selector, bc)
	}

Providers initialize chains:

	p := provider.NewSimChainProvider(selector, provider.SimChainProviderConfig{})
	bc, err := p.Initialize(ctx)
*/
package chain
