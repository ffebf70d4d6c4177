// Package ism models interchain security module configurations and derives the validator
// sets they transitively require.
//
// A security module configuration declares which validators must attest to incoming messages
// before a chain accepts them. Configurations nest: an aggregation combines sub-modules, a
// routing module picks a sub-module by origin chain, and a default reference points at
// another chain's configuration. The resulting structure is a directed graph, not a tree; it
// may share nodes and may contain cycles through cross-chain references.
package ism

import (
	"errors"
	"maps"
	"slices"
)

var (
	// ErrMissingChainConfig is returned when a configuration references a chain no
	// configuration was supplied for. Traversal fails loudly rather than silently
	// under-collecting.
	ErrMissingChainConfig = errors.New("missing security module config for referenced chain")

	// ErrUnknownModuleType is returned when a configuration node carries an unrecognized
	// module type.
	ErrUnknownModuleType = errors.New("unknown security module type")

	// ErrNoRoute is returned when a routing module has no arm for the requested origin.
	ErrNoRoute = errors.New("no route for origin")
)

// ModuleType is the kind of a security module configuration node.
type ModuleType string

const (
	// ModuleMultisig is a leaf module: an explicit validator set with a signing threshold.
	ModuleMultisig ModuleType = "multisig"
	// ModuleAggregation combines an ordered list of sub-modules under a threshold.
	ModuleAggregation ModuleType = "aggregation"
	// ModuleRouting selects a sub-module by the origin chain of a message.
	ModuleRouting ModuleType = "routing"
	// ModuleDefaultReference points at another chain's default configuration. The reference
	// is a back-reference into the chain-indexed config map, not an owned child.
	ModuleDefaultReference ModuleType = "defaultReference"
)

// Config is one node of a security module configuration. Exactly the fields of its Type are
// meaningful.
type Config struct {
	Type ModuleType `yaml:"type" json:"type"`

	// Validators and Threshold describe a multisig leaf.
	Validators []string `yaml:"validators,omitempty" json:"validators,omitempty"`
	Threshold  int      `yaml:"threshold,omitempty" json:"threshold,omitempty"`

	// Modules are the children of an aggregation.
	Modules []*Config `yaml:"modules,omitempty" json:"modules,omitempty"`

	// Domains are the arms of a routing module, keyed by origin chain name.
	Domains map[string]*Config `yaml:"domains,omitempty" json:"domains,omitempty"`

	// Origin names the chain whose default configuration a default reference resolves to.
	Origin string `yaml:"origin,omitempty" json:"origin,omitempty"`
}

// ValidatorSet is a deduplicated collection of validator addresses.
type ValidatorSet map[string]struct{}

// NewValidatorSet creates a ValidatorSet from the given addresses.
func NewValidatorSet(addresses ...string) ValidatorSet {
	s := make(ValidatorSet, len(addresses))
	for _, addr := range addresses {
		s.Add(addr)
	}

	return s
}

// Add inserts an address into the set.
func (s ValidatorSet) Add(address string) {
	s[address] = struct{}{}
}

// Has reports whether the address is in the set.
func (s ValidatorSet) Has(address string) bool {
	_, ok := s[address]

	return ok
}

// Addresses returns the sorted addresses in the set.
func (s ValidatorSet) Addresses() []string {
	return slices.Sorted(maps.Keys(s))
}
