package its

import "fmt"

// Destination describes the network a token is propagated to, either by name or by an already
// resolved Network.
type Destination struct {
	name    string
	network Network
}

// DestinationName returns a Destination that is resolved by name, ignoring case.
func DestinationName(name string) Destination {
	return Destination{name: name}
}

// DestinationNetwork returns a Destination that resolves to n without a registry lookup.
func DestinationNetwork(n Network) Destination {
	return Destination{network: n}
}

// String returns the destination name.
func (d Destination) String() string {
	if d.network != nil {
		return d.network.Name()
	}

	return d.name
}

// resolve returns the destination Network. A name is looked up in finder.
func (d Destination) resolve(finder NetworkFinder) (Network, error) {
	if d.network != nil {
		return d.network, nil
	}

	if finder == nil {
		return nil, fmt.Errorf("%w: %q: no network registry configured", ErrUnknownDestinationChain, d.name)
	}

	n, ok := finder.FindNetworkByName(d.name)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a registered network", ErrUnknownDestinationChain, d.name)
	}

	return n, nil
}
