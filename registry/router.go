package registry

import (
	"errors"
	"fmt"
	"time"

	"github.com/smartcontractkit/interchain-deployments-framework/chain"
	"github.com/smartcontractkit/interchain-deployments-framework/config"
)

// ErrMissingOwner is returned when no owner address can be determined for a chain the router
// configuration is derived for.
var ErrMissingOwner = errors.New("missing owner")

// RouterConfig is the configuration a cross-chain router contract on one chain is set up
// with.
type RouterConfig struct {
	// Owner is the address that administers the router.
	Owner string
	// Mailbox is the core messaging contract the router dispatches through.
	Mailbox string
	// Hook is the post-dispatch hook, here the interchain gas paymaster.
	Hook string
	// Timelock is the upgrade delay configured for the chain, zero when the chain has no
	// upgrade settings.
	Timelock time.Duration
}

// RouterOption is a function that configures router config derivation.
type RouterOption func(*routerOptions)

type routerOptions struct {
	contextOwner bool
}

// WithContextOwner makes each chain's bound signer address the owner, instead of the
// statically configured owner. Used when the deploying context keeps ownership during
// rollout.
func WithContextOwner() RouterOption {
	return func(o *routerOptions) {
		o.contextOwner = true
	}
}

// DeriveRouterConfigs derives the per-chain router configuration from the bound multi-chain
// context and the two contract registries.
//
// Only chains present in all three chain sets (the bound context, the core deployment and the
// gas payment deployment) receive an entry; chains outside the intersection are silently
// omitted. For each chain in the intersection the owner comes from the environment registry
// (or the bound signer, with WithContextOwner), the mailbox from the core deployment and the
// hook from the gas payment deployment.
func DeriveRouterConfigs(
	env config.Environment,
	chains chain.BlockChains,
	core, gas Deployment,
	opts ...RouterOption,
) (map[string]RouterConfig, error) {
	ro := routerOptions{}
	for _, opt := range opts {
		opt(&ro)
	}

	coreChains := toSet(core.Chains())
	gasChains := toSet(gas.Chains())

	configs := make(map[string]RouterConfig)

	for _, name := range chains.ListChainNames() {
		// Deliberate filter, not an error: a chain bound in the context but not yet present
		// in both registries has nothing to route through.
		if _, ok := coreChains[name]; !ok {
			continue
		}
		if _, ok := gasChains[name]; !ok {
			continue
		}

		coreAddrs, err := core.AddressesFor(name)
		if err != nil {
			return nil, err
		}

		gasAddrs, err := gas.AddressesFor(name)
		if err != nil {
			return nil, err
		}

		owner, err := ownerFor(env, chains, name, ro.contextOwner)
		if err != nil {
			return nil, err
		}

		configs[name] = RouterConfig{
			Owner:   owner,
			Mailbox: coreAddrs.Mailbox,
			Hook:    gasAddrs.InterchainGasPaymaster,
		}
	}

	return configs, nil
}

// DeriveRouterConfigsWithTimelock derives the per-chain router configuration and additionally
// attaches the upgrade timelock from the environment's per-chain upgrade settings, when
// present.
func DeriveRouterConfigsWithTimelock(
	env config.Environment,
	chains chain.BlockChains,
	core, gas Deployment,
	opts ...RouterOption,
) (map[string]RouterConfig, error) {
	configs, err := DeriveRouterConfigs(env, chains, core, gas, opts...)
	if err != nil {
		return nil, err
	}

	for name, rc := range configs {
		chainCfg, ok := env.Chains[name]
		if !ok || chainCfg.Upgrade == nil {
			continue
		}

		rc.Timelock = chainCfg.Upgrade.Timelock
		configs[name] = rc
	}

	return configs, nil
}

// ownerFor resolves the owner address for a chain.
func ownerFor(
	env config.Environment, chains chain.BlockChains, name string, contextOwner bool,
) (string, error) {
	if contextOwner {
		bc, err := chains.GetByName(name)
		if err != nil {
			return "", err
		}

		owner := bc.SignerAddress()
		if owner == "" {
			return "", fmt.Errorf("%w: chain %q carries no bound signer to use as owner", ErrMissingOwner, name)
		}

		return owner, nil
	}

	chainCfg, ok := env.Chains[name]
	if !ok || chainCfg.Owner == "" {
		return "", fmt.Errorf("%w: no static owner configured for chain %q in environment %q",
			ErrMissingOwner, name, env.Name)
	}

	return chainCfg.Owner, nil
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}

	return set
}
