// Package multichain binds a set of chains into a single multi-chain execution context. For
// every requested chain it concurrently obtains a network connection and resolves the agent
// key that signs on the chain, then publishes the bound chains as one collection. Binding is
// all-or-nothing: a failure on any chain fails the whole operation and no partial context is
// ever returned.
package multichain

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/smartcontractkit/interchain-deployments-framework/chain"
	cfgnet "github.com/smartcontractkit/interchain-deployments-framework/config/network"
	"github.com/smartcontractkit/interchain-deployments-framework/keys"
	"github.com/smartcontractkit/interchain-deployments-framework/pkg/logger"
)

// ErrChainResolution is returned when any per-chain connection, key or signer resolution
// fails during a bind. The error message names every failing chain and its cause.
var ErrChainResolution = errors.New("chain resolution failed")

// Binder binds chains into a multi-chain execution context using the network manifest for
// connections and the key resolver for signing identities.
type Binder struct {
	lggr     logger.Logger
	networks *cfgnet.Config
	resolver *keys.Resolver
	testMode bool
}

// BinderOption is a function that configures a Binder.
type BinderOption func(*Binder)

// WithTestMode makes Bind return metadata-only chains carrying no clients and no signers,
// without contacting the key store or any network. Pair it with the resolver's test mode so
// the whole resolution path stays offline.
func WithTestMode() BinderOption {
	return func(b *Binder) {
		b.testMode = true
	}
}

// NewBinder creates a new Binder over the given network manifest and key resolver.
func NewBinder(
	lggr logger.Logger, networks *cfgnet.Config, resolver *keys.Resolver, opts ...BinderOption,
) *Binder {
	b := &Binder{
		lggr:     logger.Named(lggr, "MultiChainBinder"),
		networks: networks,
		resolver: resolver,
	}
	for _, opt := range opts {
		opt(b)
	}

	return b
}

// BindOption is a function that configures a single Bind call.
type BindOption func(*bindOptions)

type bindOptions struct {
	keyIndex int
}

// WithKeyIndex selects a key index other than 0 for every chain in the bind.
func WithKeyIndex(index int) BindOption {
	return func(o *bindOptions) {
		o.keyIndex = index
	}
}

// Bind concurrently resolves a connection and a signer for every named chain and returns the
// bound chains as one collection.
//
// Each chain is bound in its own goroutine; the operation waits for all of them and then
// either returns a collection with every requested chain populated, or a zero-value
// collection and an ErrChainResolution naming every chain that failed. Chains are
// independent and no ordering holds between their completions.
func (b *Binder) Bind(
	ctx context.Context,
	environment, kctx string,
	chainNames []string,
	role keys.Role,
	opts ...BindOption,
) (chain.BlockChains, error) {
	bo := bindOptions{}
	for _, opt := range opts {
		opt(&bo)
	}

	if len(chainNames) == 0 {
		b.lggr.Info("No chain names provided, skipping chain binding")
		return chain.NewBlockChains(map[string]chain.BlockChain{}), nil
	}

	loaders := newChainLoaders(b.lggr)

	// Resolve every chain's network entry and loader up front so a misnamed chain or an
	// unsupported family fails before any goroutine is spawned.
	type target struct {
		network cfgnet.Network
		loader  chainLoader
	}

	targets := make([]target, 0, len(chainNames))
	for _, name := range chainNames {
		network, err := b.networks.NetworkByName(name)
		if err != nil {
			return chain.BlockChains{}, fmt.Errorf("%w: %v", ErrChainResolution, err)
		}

		loader, ok := loaders[network.Family]
		if !ok {
			return chain.BlockChains{}, fmt.Errorf("%w: no chain loader for family %q (chain %q)",
				ErrChainResolution, network.Family, name)
		}

		targets = append(targets, target{network: network, loader: loader})
	}

	type chainResult struct {
		chain chain.BlockChain
		name  string
		err   error
	}

	// Use indexed assignment to collect results (no mutex needed)
	results := make([]chainResult, len(targets))

	var wg sync.WaitGroup

	for i, tgt := range targets {
		wg.Add(1)

		go func(index int, tgt target) {
			defer wg.Done()

			b.lggr.Infow("Binding chain", "chain", tgt.network.Name, "family", tgt.network.Family)

			result := chainResult{name: tgt.network.Name}

			// Handle context cancellation
			select {
			case <-ctx.Done():
				result.err = ctx.Err()
			default:
				result.chain, result.err = b.bindOne(ctx, environment, kctx, tgt.network, tgt.loader, role, bo.keyIndex)
			}

			// Write result directly to assigned index (no mutex needed)
			results[index] = result
		}(i, tgt)
	}

	wg.Wait()

	loadedChains := make([]chain.BlockChain, 0, len(results))
	failedChains := make([]string, 0)

	for _, result := range results {
		if result.err != nil {
			b.lggr.Errorw("Failed to bind chain", "chain", result.name, "error", result.err)

			failedChains = append(failedChains, fmt.Sprintf("chain %s: %v", result.name, result.err))

			continue
		}

		loadedChains = append(loadedChains, result.chain)
	}

	if len(failedChains) > 0 {
		return chain.BlockChains{}, fmt.Errorf("%w for %d out of %d chains: %v",
			ErrChainResolution, len(failedChains), len(targets), failedChains)
	}

	b.lggr.Infow("Successfully bound all chains", "total", len(loadedChains))

	return chain.NewBlockChainsFromSlice(loadedChains), nil
}

// bindOne binds a single chain: it resolves the agent key and hands it to the family loader,
// which dials the connection and derives the chain-bound signer. In test mode it returns a
// metadata-only chain instead, touching neither the key store nor the network.
func (b *Binder) bindOne(
	ctx context.Context,
	environment, kctx string,
	network cfgnet.Network,
	loader chainLoader,
	role keys.Role,
	keyIndex int,
) (chain.BlockChain, error) {
	if b.testMode {
		return testChain(network), nil
	}

	key, err := b.resolver.Resolve(ctx, environment, kctx, network.Name, network.Family, role,
		keys.WithIndex(keyIndex))
	if err != nil {
		return nil, err
	}

	return loader.Load(ctx, network, key)
}
