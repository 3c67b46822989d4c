// Package datastore records the contracts deployed on localnet networks.
//
// Every record is an AddressRef identified by its chain selector, contract type, version and
// qualifier. The orchestrator upserts a record for each token manager and interchain token it
// returns, using the token ID as qualifier, so the same token can be looked up on every chain:
//
//	refs := store.Filter(
//		datastore.AddressRefByQualifier(tokenID.Hex()),
//		datastore.AddressRefByType(datastore.ContractType("InterchainToken")),
//	)
package datastore
