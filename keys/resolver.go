package keys

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/smartcontractkit/interchain-deployments-framework/chain"
	"github.com/smartcontractkit/interchain-deployments-framework/config"
	"github.com/smartcontractkit/interchain-deployments-framework/pkg/logger"
)

// Resolver resolves the agent key bound to an (environment, context, chain, role, index)
// tuple. It validates the tuple against the environment registry and delegates key
// materialization to the configured Store.
type Resolver struct {
	lggr     logger.Logger
	cfg      *config.Config
	store    Store
	testMode bool
}

// ResolverOption is a function that configures a Resolver.
type ResolverOption func(*Resolver)

// WithTestMode makes the resolver return deterministic ephemeral in-memory keys without
// touching the environment registry or the key store. This exists so CI runs can exercise
// multi-chain flows without network access or secret configuration; it is an explicit
// constructor choice, never inferred from missing configuration.
func WithTestMode() ResolverOption {
	return func(r *Resolver) {
		r.testMode = true
	}
}

// NewResolver creates a new Resolver with the given configuration and key store.
func NewResolver(lggr logger.Logger, cfg *config.Config, store Store, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		lggr:  logger.Named(lggr, "KeyResolver"),
		cfg:   cfg,
		store: store,
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// ResolveOption is a function that configures a single Resolve call.
type ResolveOption func(*resolveOptions)

type resolveOptions struct {
	index int
}

// WithIndex selects a key index other than 0, for roles that hold several keys per chain.
func WithIndex(index int) ResolveOption {
	return func(o *resolveOptions) {
		o.index = index
	}
}

// Resolve resolves the agent key for the given tuple.
//
// It fails with config.ErrInvalidEnvironment when the environment is unrecognized, and with
// config.ErrInvalidContext when the context has no agent configuration under the environment.
// Store failures are surfaced unchanged.
func (r *Resolver) Resolve(
	ctx context.Context,
	environment, kctx, chainName, chainFamily string,
	role Role,
	opts ...ResolveOption,
) (AgentKey, error) {
	ro := resolveOptions{}
	for _, opt := range opts {
		opt(&ro)
	}

	if err := role.Validate(); err != nil {
		return nil, err
	}

	if r.testMode {
		return r.testKey(environment, kctx, chainName, chainFamily, role, ro.index)
	}

	env, err := r.cfg.Environment(environment)
	if err != nil {
		return nil, err
	}

	if _, err = env.Context(kctx); err != nil {
		return nil, err
	}

	r.lggr.Debugw("Resolving agent key",
		"environment", environment, "context", kctx,
		"chain", chainName, "role", role, "index", ro.index,
	)

	key, err := r.store.GetKey(ctx, KeyRequest{
		Environment: environment,
		Context:     kctx,
		ChainName:   chainName,
		ChainFamily: chainFamily,
		Role:        role,
		Index:       ro.index,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s key for chain %q: %w", role, chainName, err)
	}

	return key, nil
}

// testKey derives a deterministic ephemeral key from the request tuple alone.
func (r *Resolver) testKey(
	environment, kctx, chainName, chainFamily string, role Role, index int,
) (AgentKey, error) {
	tuple := fmt.Sprintf("%s:%s:%s:%s:%d", environment, kctx, chainName, role, index)
	material := crypto.Keccak256([]byte("test-key"), []byte(tuple))

	switch chainFamily {
	case chain.FamilyEVM:
		return newEVMMemoryKey(material)
	case chain.FamilySolana:
		return newSolanaMemoryKey(material)
	case chain.FamilyCosmos:
		return newCosmosMemoryKey(material)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProtocol, chainFamily)
	}
}
