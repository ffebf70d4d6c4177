package multichain

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/smartcontractkit/interchain-deployments-framework/chain"
	"github.com/smartcontractkit/interchain-deployments-framework/chain/cosmos"
	cosmosprov "github.com/smartcontractkit/interchain-deployments-framework/chain/cosmos/provider"
	"github.com/smartcontractkit/interchain-deployments-framework/chain/evm"
	evmprov "github.com/smartcontractkit/interchain-deployments-framework/chain/evm/provider"
	evmclient "github.com/smartcontractkit/interchain-deployments-framework/chain/evm/provider/rpcclient"
	"github.com/smartcontractkit/interchain-deployments-framework/chain/solana"
	solanaprov "github.com/smartcontractkit/interchain-deployments-framework/chain/solana/provider"
	cfgnet "github.com/smartcontractkit/interchain-deployments-framework/config/network"
	"github.com/smartcontractkit/interchain-deployments-framework/keys"
	"github.com/smartcontractkit/interchain-deployments-framework/pkg/logger"
)

// chainLoader binds a single chain of one protocol family: it dials the chain's connection
// and derives the chain-bound signer from the resolved agent key.
type chainLoader interface {
	Load(ctx context.Context, network cfgnet.Network, key keys.AgentKey) (chain.BlockChain, error)
}

var (
	_ chainLoader = (*chainLoaderEVM)(nil)
	_ chainLoader = (*chainLoaderSolana)(nil)
	_ chainLoader = (*chainLoaderCosmos)(nil)
)

// newChainLoaders returns the chain loaders for each supported chain family.
func newChainLoaders(lggr logger.Logger) map[string]chainLoader {
	return map[string]chainLoader{
		chain.FamilyEVM:    &chainLoaderEVM{lggr: lggr},
		chain.FamilySolana: &chainLoaderSolana{},
		chain.FamilyCosmos: &chainLoaderCosmos{},
	}
}

// chainLoaderEVM implements the chainLoader interface for EVM.
type chainLoaderEVM struct {
	lggr logger.Logger
}

// Load binds an EVM chain via its RPC provider.
func (l *chainLoaderEVM) Load(
	ctx context.Context, network cfgnet.Network, key keys.AgentKey,
) (chain.BlockChain, error) {
	evmKey, ok := key.(keys.EVMKey)
	if !ok {
		return nil, fmt.Errorf("resolved %s key cannot sign for EVM chain %q", key.Family(), network.Name)
	}

	chainID, ok := new(big.Int).SetString(network.ChainID, 10)
	if !ok {
		return nil, fmt.Errorf("invalid EVM chain id %q for chain %q", network.ChainID, network.Name)
	}

	rpcs := make([]evmclient.RPC, 0, len(network.RPCs))
	for _, rpcCfg := range network.RPCs {
		preferredURLScheme, err := evmclient.URLSchemePreferenceFromString(rpcCfg.PreferredURLScheme)
		if err != nil {
			return nil, fmt.Errorf("invalid URL scheme preference %s: %w", rpcCfg.PreferredURLScheme, err)
		}

		rpcs = append(rpcs, evmclient.RPC{
			Name:               rpcCfg.RPCName,
			WSURL:              rpcCfg.WSURL,
			HTTPURL:            rpcCfg.HTTPURL,
			PreferredURLScheme: preferredURLScheme,
		})
	}

	clientOpts := []func(client *evmclient.MultiClient){
		func(client *evmclient.MultiClient) {
			client.RetryConfig = evmclient.RetryConfig{
				Attempts:     5,
				Delay:        10 * time.Millisecond,
				Timeout:      5 * time.Second,
				DialAttempts: 5,
				DialDelay:    10 * time.Millisecond,
				DialTimeout:  2 * time.Second,
			}
		},
	}

	c, err := evmprov.NewRPCChainProvider(network.Name,
		evmprov.RPCChainProviderConfig{
			ChainID:               chainID,
			DeployerTransactorGen: evmKey.TransactorGenerator(),
			RPCs:                  rpcs,
			ConfirmFunctor:        evmprov.ConfirmFuncGeth(10 * time.Minute),
			ClientOpts:            clientOpts,
			Logger:                l.lggr,
		},
	).Initialize(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize EVM chain %q: %w", network.Name, err)
	}

	return c, nil
}

// chainLoaderSolana implements the chainLoader interface for Solana.
type chainLoaderSolana struct{}

// Load binds a Solana chain via its RPC provider.
func (l *chainLoaderSolana) Load(
	ctx context.Context, network cfgnet.Network, key keys.AgentKey,
) (chain.BlockChain, error) {
	solKey, ok := key.(keys.SolanaKey)
	if !ok {
		return nil, fmt.Errorf("resolved %s key cannot sign for Solana chain %q", key.Family(), network.Name)
	}

	privKey, err := solKey.PrivateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to materialize Solana key for chain %q: %w", network.Name, err)
	}

	c, err := solanaprov.NewRPCChainProvider(network.Name,
		solanaprov.RPCChainProviderConfig{
			HTTPURL:        network.RPCs[0].HTTPURL,
			WSURL:          network.RPCs[0].WSURL,
			DeployerKeyGen: solanaprov.PrivateKeyFromRaw(privKey.String()),
		},
	).Initialize(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Solana chain %q: %w", network.Name, err)
	}

	return c, nil
}

// chainLoaderCosmos implements the chainLoader interface for Cosmos.
type chainLoaderCosmos struct{}

// Load binds a Cosmos chain via its gRPC provider.
func (l *chainLoaderCosmos) Load(
	ctx context.Context, network cfgnet.Network, key keys.AgentKey,
) (chain.BlockChain, error) {
	cosmosKey, ok := key.(keys.CosmosKey)
	if !ok {
		return nil, fmt.Errorf("resolved %s key cannot sign for Cosmos chain %q", key.Family(), network.Name)
	}

	privKey, err := cosmosKey.PrivateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to materialize Cosmos key for chain %q: %w", network.Name, err)
	}

	c, err := cosmosprov.NewGRPCChainProvider(network.Name,
		cosmosprov.GRPCChainProviderConfig{
			GRPCURL:        network.RPCs[0].HTTPURL,
			ChainID:        network.ChainID,
			Bech32Prefix:   network.Bech32Prefix,
			DeployerKeyGen: cosmosprov.PrivateKeyFromKey(privKey),
		},
	).Initialize(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cosmos chain %q: %w", network.Name, err)
	}

	return c, nil
}

// testChain builds a metadata-only chain for test-mode binds. It carries no client and no
// signer, so nothing dials out when it is used.
func testChain(network cfgnet.Network) chain.BlockChain {
	switch network.Family {
	case chain.FamilySolana:
		return solana.Chain{
			ChainMetadata: solana.ChainMetadata{
				ChainName:   network.Name,
				ChainFamily: chain.FamilySolana,
			},
			URL:   network.RPCs[0].HTTPURL,
			WSURL: network.RPCs[0].WSURL,
		}
	case chain.FamilyCosmos:
		return cosmos.Chain{
			ChainMetadata: cosmos.ChainMetadata{
				ChainName:   network.Name,
				ChainFamily: chain.FamilyCosmos,
			},
			ChainID:      network.ChainID,
			Bech32Prefix: network.Bech32Prefix,
			URL:          network.RPCs[0].HTTPURL,
		}
	default:
		// EVM metadata-only chain. The chain ID is attached when it parses; test manifests
		// are not required to carry numeric ids.
		chainID, _ := new(big.Int).SetString(network.ChainID, 10)

		return evm.Chain{
			ChainMetadata: evm.ChainMetadata{
				ChainName:   network.Name,
				ChainFamily: chain.FamilyEVM,
			},
			ChainID: chainID,
		}
	}
}
