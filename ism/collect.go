package ism

import (
	"fmt"
)

// CollectValidators computes, for every chain in the input map, the set of validator
// addresses transitively required by the chain's default security module configuration.
//
// The traversal follows aggregation children, routing arms and cross-chain default
// references (a reference resolves to configsByChain of the referenced chain). Repeated
// leaves contribute once, and revisited nodes are skipped, so shared sub-modules and
// reference cycles terminate. Thresholds are not consumed at this layer; only membership is
// extracted.
//
// A default reference to a chain absent from the input fails with ErrMissingChainConfig
// naming the referencing and missing chains.
func CollectValidators(configsByChain map[string]*Config) (map[string]ValidatorSet, error) {
	result := make(map[string]ValidatorSet, len(configsByChain))

	for chainName := range configsByChain {
		set, err := collectForChain(chainName, configsByChain)
		if err != nil {
			return nil, err
		}

		result[chainName] = set
	}

	return result, nil
}

// collectForChain traverses the configuration graph reachable from one chain's default
// configuration with an explicit worklist. Visited nodes are tracked by identity, and
// resolved chain references by name, within this one traversal.
func collectForChain(chainName string, configsByChain map[string]*Config) (ValidatorSet, error) {
	root, ok := configsByChain[chainName]
	if !ok || root == nil {
		return nil, fmt.Errorf("%w: %q", ErrMissingChainConfig, chainName)
	}

	set := NewValidatorSet()

	worklist := []*Config{root}
	visited := map[*Config]struct{}{}
	visitedChains := map[string]struct{}{chainName: {}}

	for len(worklist) > 0 {
		node := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		if node == nil {
			continue
		}
		if _, seen := visited[node]; seen {
			continue
		}
		visited[node] = struct{}{}

		switch node.Type {
		case ModuleMultisig:
			for _, v := range node.Validators {
				set.Add(v)
			}

		case ModuleAggregation:
			worklist = append(worklist, node.Modules...)

		case ModuleRouting:
			for _, arm := range node.Domains {
				worklist = append(worklist, arm)
			}

		case ModuleDefaultReference:
			if _, seen := visitedChains[node.Origin]; seen {
				continue
			}
			visitedChains[node.Origin] = struct{}{}

			ref, ok := configsByChain[node.Origin]
			if !ok || ref == nil {
				return nil, fmt.Errorf("%w: %q references %q", ErrMissingChainConfig, chainName, node.Origin)
			}

			worklist = append(worklist, ref)

		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownModuleType, node.Type)
		}
	}

	return set, nil
}
