package chain

import (
	"errors"
	"iter"
	"maps"
	"reflect"
	"slices"

	"github.com/smartcontractkit/interchain-deployments-framework/chain/cosmos"
	"github.com/smartcontractkit/interchain-deployments-framework/chain/evm"
	"github.com/smartcontractkit/interchain-deployments-framework/chain/internal/common"
	"github.com/smartcontractkit/interchain-deployments-framework/chain/solana"
)

var ErrBlockChainNotFound = errors.New("blockchain not found")

// Protocol families supported by this framework. The family of a chain
// determines which client, signer and address formats apply to it.
const (
	FamilyEVM    = common.FamilyEVM
	FamilySolana = common.FamilySolana
	FamilyCosmos = common.FamilyCosmos
)

var _ BlockChain = evm.Chain{}
var _ BlockChain = solana.Chain{}
var _ BlockChain = cosmos.Chain{}

// BlockChain is an interface that represents a chain.
// A chain can be an EVM chain, Solana chain, Cosmos chain or others.
type BlockChain interface {
	// String returns chain name and family "<name> (<family>)"
	String() string
	// Name returns the name of the chain
	Name() string
	Family() string
	// SignerAddress returns the canonical address of the chain's deployer
	// signer, or an empty string when the chain carries no signer.
	SignerAddress() string
}

// BlockChains represents a collection of chains keyed by chain name.
// It provides querying capabilities for different types of chains.
type BlockChains struct {
	chains map[string]BlockChain
}

// NewBlockChains initializes a new BlockChains instance
func NewBlockChains(chains map[string]BlockChain) BlockChains {
	// perform a copy of chains
	// to avoid mutating the original map
	if chains == nil {
		chains = make(map[string]BlockChain)
	} else {
		newChains := make(map[string]BlockChain, len(chains))
		for k, v := range chains {
			newChains[k] = v
		}
		chains = newChains
	}

	return BlockChains{
		chains: chains,
	}
}

// NewBlockChainsFromSlice initializes a new BlockChains instance from a slice of BlockChain.
func NewBlockChainsFromSlice(chains []BlockChain) BlockChains {
	// Create a new map to hold the chains
	chainsMap := make(map[string]BlockChain, len(chains))

	// Populate the map with chains
	for _, chain := range chains {
		chainsMap[chain.Name()] = chain
	}

	return NewBlockChains(chainsMap)
}

// GetByName returns a blockchain by its chain name.
func (b BlockChains) GetByName(name string) (BlockChain, error) {
	if chain, ok := b.chains[name]; ok {
		return chain, nil
	}

	return nil, ErrBlockChainNotFound
}

// Exists checks if a chain with the given name exists.
func (b BlockChains) Exists(name string) bool {
	_, ok := b.chains[name]

	return ok
}

// ExistsN checks if all chains with the given names exist.
func (b BlockChains) ExistsN(names ...string) bool {
	for _, name := range names {
		if !b.Exists(name) {
			return false
		}
	}

	return true
}

// All returns an iterator over all chains with their names.
func (b BlockChains) All() iter.Seq2[string, BlockChain] {
	return maps.All(b.chains)
}

// EVMChains returns a map of all EVM chains keyed by chain name.
func (b BlockChains) EVMChains() map[string]evm.Chain {
	return getChainsByType[evm.Chain, *evm.Chain](b)
}

// SolanaChains returns a map of all Solana chains keyed by chain name.
func (b BlockChains) SolanaChains() map[string]solana.Chain {
	return getChainsByType[solana.Chain, *solana.Chain](b)
}

// CosmosChains returns a map of all Cosmos chains keyed by chain name.
func (b BlockChains) CosmosChains() map[string]cosmos.Chain {
	return getChainsByType[cosmos.Chain, *cosmos.Chain](b)
}

// ChainNamesOption defines a function type for configuring ListChainNames
type ChainNamesOption func(*chainNamesOptions)

type chainNamesOptions struct {
	// Use map for faster lookups
	includedFamilies   map[string]struct{}
	excludedChainNames map[string]struct{}
}

// WithFamily returns an option to filter chains by family (evm, solana, cosmos)
// This can be used more than once to include multiple families.
func WithFamily(family string) ChainNamesOption {
	return func(o *chainNamesOptions) {
		if o.includedFamilies == nil {
			o.includedFamilies = make(map[string]struct{})
		}
		o.includedFamilies[family] = struct{}{}
	}
}

// WithChainNamesExclusion returns an option to exclude specific chain names
func WithChainNamesExclusion(names []string) ChainNamesOption {
	return func(o *chainNamesOptions) {
		if o.excludedChainNames == nil {
			o.excludedChainNames = make(map[string]struct{})
		}
		for _, name := range names {
			o.excludedChainNames[name] = struct{}{}
		}
	}
}

// ListChainNames returns all chain names with optional filtering
// Options:
// - WithFamily: filter by family eg WithFamily(chain.FamilySolana)
// - WithChainNamesExclusion: exclude specific chain names
func (b BlockChains) ListChainNames(options ...ChainNamesOption) []string {
	opts := chainNamesOptions{}

	// Apply all provided options
	for _, option := range options {
		option(&opts)
	}

	names := make([]string, 0, len(b.chains))
	for name, chain := range b.chains {
		if opts.excludedChainNames != nil {
			if _, excluded := opts.excludedChainNames[name]; excluded {
				continue
			}
		}
		if opts.includedFamilies != nil {
			if _, ok := opts.includedFamilies[chain.Family()]; !ok {
				continue
			}
		}
		names = append(names, name)
	}

	// Sort for consistent output
	slices.Sort(names)

	return names
}

// getChainsByType is a helper function to extract chains of a specific type from BlockChains.
// It accepts two type parameters: VT for the target type and PT for pointer types of the same chain type.
// eg getChainsByType[evm.Chain, *evm.Chain](b BlockChains) returns a map of string to evm.Chain.
// It handles both value and pointer types, allowing for flexibility in how chains are stored.
func getChainsByType[VT any, PT any](b BlockChains) map[string]VT {
	chains := make(map[string]VT, len(b.chains))
	for name, chain := range b.chains {
		switch c := any(chain).(type) {
		case VT:
			chains[name] = c
		case PT:
			val := reflect.ValueOf(c)
			if val.Kind() == reflect.Ptr && !val.IsNil() {
				elem := val.Elem()
				if elem.CanInterface() {
					if v, ok := elem.Interface().(VT); ok {
						chains[name] = v
					}
				}
			}
		}
	}

	return chains
}
