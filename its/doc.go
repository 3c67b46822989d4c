// Package its orchestrates the interchain token lifecycle on a localnet network.
//
// An Orchestrator is attached to every network when the localnet starts. It registers existing
// tokens as canonical, deploys new interchain tokens and propagates either kind of token to a
// second network. Remote operations are sequenced as
//
//	resolve destination -> submit -> confirm -> relay -> bind destination handle
//
// so that an asynchronous cross-chain deployment can be observed as one synchronous call:
//
//	token, err := ethereum.ITS.DeployRemoteCanonicalToken(ctx, erc20, its.DestinationName("avalanche"))
//	if err != nil {
//		return err
//	}
//	supply, err := token.TotalSupply(&bind.CallOpts{Context: ctx})
//
// The contracts, the chains and the relayer are collaborators consumed through the interfaces of
// this package.
package its
