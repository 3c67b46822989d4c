package datastore

import (
	"github.com/Masterminds/semver/v3"
)

// FilterFunc narrows down a set of AddressRef records. Filters are composable:
//
//	records := store.Filter(
//		AddressRefByChainSelector(1),
//		AddressRefByType(ContractType("TokenManager")),
//	)
type FilterFunc func(records []AddressRef) []AddressRef

func addressRefFilter(predicate func(record AddressRef) bool) FilterFunc {
	return func(records []AddressRef) []AddressRef {
		filtered := make([]AddressRef, 0, len(records))
		for _, record := range records {
			if predicate(record) {
				filtered = append(filtered, record)
			}
		}

		return filtered
	}
}

// AddressRefByAddress returns a filter that only includes records with the provided address
func AddressRefByAddress(address string) FilterFunc {
	return addressRefFilter(func(record AddressRef) bool {
		return record.Address == address
	})
}

// AddressRefByChainSelector returns a filter that only includes records with the provided chain.
func AddressRefByChainSelector(chainSelector uint64) FilterFunc {
	return addressRefFilter(func(record AddressRef) bool {
		return record.ChainSelector == chainSelector
	})
}

// AddressRefByType returns a filter that only includes records with the provided contract type.
func AddressRefByType(contractType ContractType) FilterFunc {
	return addressRefFilter(func(record AddressRef) bool {
		return record.Type == contractType
	})
}

// AddressRefByVersion returns a filter that only includes records with the provided version.
func AddressRefByVersion(version *semver.Version) FilterFunc {
	return addressRefFilter(func(record AddressRef) bool {
		return record.Version != nil && record.Version.Equal(version)
	})
}

// AddressRefByQualifier returns a filter that only includes records with the provided qualifier.
func AddressRefByQualifier(qualifier string) FilterFunc {
	return addressRefFilter(func(record AddressRef) bool {
		return record.Qualifier == qualifier
	})
}

// AddressRefByLabel returns a filter that only includes records carrying the label.
func AddressRefByLabel(label string) FilterFunc {
	return addressRefFilter(func(record AddressRef) bool {
		return record.Labels.Contains(label)
	})
}
