package provider

import (
	"context"
	"errors"
	"fmt"

	solrpc "github.com/gagliardetto/solana-go/rpc"

	"github.com/smartcontractkit/interchain-deployments-framework/chain"
	"github.com/smartcontractkit/interchain-deployments-framework/chain/solana"
)

// RPCChainProviderConfig holds the configuration to initialize the RPCChainProvider.
type RPCChainProviderConfig struct {
	// Required: The HTTP RPC URL to connect to the Solana node.
	HTTPURL string
	// Optional: The websocket RPC URL of the Solana node, for subscriptions.
	WSURL string
	// Required: A generator for the deployer key. Use PrivateKeyFromRaw to create a deployer
	// key from a base58 private key, or PrivateKeyFromSeed to derive one from a 32-byte seed.
	DeployerKeyGen PrivateKeyGenerator
}

// validate checks if the RPCChainProviderConfig is valid.
func (c RPCChainProviderConfig) validate() error {
	if c.HTTPURL == "" {
		return errors.New("http url is required")
	}
	if c.DeployerKeyGen == nil {
		return errors.New("deployer key generator is required")
	}

	return nil
}

var _ chain.Provider = (*RPCChainProvider)(nil)

// RPCChainProvider is a chain provider that provides a chain that connects to a Solana node via
// RPC.
type RPCChainProvider struct {
	// chainName identifies the chain this provider manages.
	chainName string

	// RPCChainProviderConfig holds the configuration for the RPCChainProvider.
	config RPCChainProviderConfig

	// chain is the Solana chain instance that this provider manages. The Initialize method
	// sets up the chain.
	chain *solana.Chain
}

func NewRPCChainProvider(chainName string, config RPCChainProviderConfig) *RPCChainProvider {
	return &RPCChainProvider{
		chainName: chainName,
		config:    config,
	}
}

// Initialize initializes the RPCChainProvider. It generates the deployer keypair from the provided
// configuration and sets up the Solana client with the provided HTTP RPC URL. It returns the
// initialized Solana chain instance.
func (p *RPCChainProvider) Initialize(_ context.Context) (chain.BlockChain, error) {
	if p.chain != nil {
		return *p.chain, nil // Already initialized
	}

	// Validate the provider configuration
	if err := p.config.validate(); err != nil {
		return nil, fmt.Errorf("failed to validate provider config: %w", err)
	}

	// Generate the deployer keypair
	privKey, err := p.config.DeployerKeyGen.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate deployer keypair: %w", err)
	}

	// Initialize the Solana client with the provided HTTP RPC URL
	client := solrpc.New(p.config.HTTPURL)

	// Create the Solana chain instance with the provided configuration
	p.chain = &solana.Chain{
		ChainMetadata: solana.ChainMetadata{
			ChainName:   p.chainName,
			ChainFamily: chain.FamilySolana,
		},
		Client:      client,
		URL:         p.config.HTTPURL,
		WSURL:       p.config.WSURL,
		DeployerKey: &privKey,
	}

	return *p.chain, nil
}

// Name returns the name of the RPCChainProvider.
func (*RPCChainProvider) Name() string {
	return "Solana RPC Chain Provider"
}

// ChainName returns the name of the Solana chain managed by this provider.
func (p *RPCChainProvider) ChainName() string {
	return p.chainName
}

// BlockChain returns the Solana chain instance managed by this provider. You must call Initialize
// before using this method to ensure the chain is properly set up.
func (p *RPCChainProvider) BlockChain() chain.BlockChain {
	return *p.chain
}
