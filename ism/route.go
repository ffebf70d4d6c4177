package ism

import (
	"fmt"
)

// Route resolves the security module that applies to messages arriving on chainName from
// origin. Routing modules are resolved arm by arm and default references are followed to the
// referenced chain's configuration; the first non-routing, non-reference module reached is
// returned.
//
// It fails with ErrNoRoute when a routing module has no arm for the origin, and with
// ErrMissingChainConfig when a default reference points outside the supplied map. Reference
// cycles fail with ErrNoRoute rather than looping.
func Route(configsByChain map[string]*Config, chainName, origin string) (*Config, error) {
	node, ok := configsByChain[chainName]
	if !ok || node == nil {
		return nil, fmt.Errorf("%w: %q", ErrMissingChainConfig, chainName)
	}

	visited := map[*Config]struct{}{}

	for {
		if node == nil {
			return nil, fmt.Errorf("%w: nil module reached routing for origin %q on chain %q", ErrNoRoute, origin, chainName)
		}
		if _, seen := visited[node]; seen {
			return nil, fmt.Errorf("%w: reference cycle while routing for origin %q on chain %q", ErrNoRoute, origin, chainName)
		}
		visited[node] = struct{}{}

		switch node.Type {
		case ModuleRouting:
			arm, ok := node.Domains[origin]
			if !ok {
				return nil, fmt.Errorf("%w: %q on chain %q", ErrNoRoute, origin, chainName)
			}
			node = arm

		case ModuleDefaultReference:
			ref, ok := configsByChain[node.Origin]
			if !ok || ref == nil {
				return nil, fmt.Errorf("%w: %q references %q", ErrMissingChainConfig, chainName, node.Origin)
			}
			node = ref

		default:
			return node, nil
		}
	}
}
