package provider

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/smartcontractkit/interchain-deployments-framework/chain"
	"github.com/smartcontractkit/interchain-deployments-framework/chain/cosmos"
	internalgrpc "github.com/smartcontractkit/interchain-deployments-framework/internal/grpc"
)

// GRPCChainProviderConfig holds the configuration to initialize the GRPCChainProvider.
type GRPCChainProviderConfig struct {
	// Required: The gRPC target of the Cosmos node, for example "localhost:9090".
	GRPCURL string
	// Required: The cosmos chain ID (for example "gaia-1") carried in signed transactions and
	// attached to every outgoing call.
	ChainID string
	// Required: The bech32 account address prefix for this chain.
	Bech32Prefix string
	// Required: A generator for the deployer key. Use PrivateKeyFromRaw to create a deployer
	// key from a hex private key, or PrivateKeyFromMnemonic to derive one from a mnemonic.
	DeployerKeyGen PrivateKeyGenerator
	// Optional: TransportCredentials for the gRPC connection. Defaults to insecure credentials,
	// which plaintext local and test targets require.
	TransportCredentials credentials.TransportCredentials
	// Optional: AuthToken is a bearer token attached to every outgoing call, for node endpoints
	// behind an authenticating proxy.
	AuthToken string
}

// validate checks if the GRPCChainProviderConfig is valid.
func (c GRPCChainProviderConfig) validate() error {
	if c.GRPCURL == "" {
		return errors.New("grpc url is required")
	}
	if c.ChainID == "" {
		return errors.New("chain id is required")
	}
	if c.Bech32Prefix == "" {
		return errors.New("bech32 prefix is required")
	}
	if c.DeployerKeyGen == nil {
		return errors.New("deployer key generator is required")
	}

	return nil
}

var _ chain.Provider = (*GRPCChainProvider)(nil)

// GRPCChainProvider is a chain provider that provides a chain that connects to a Cosmos node via
// gRPC.
type GRPCChainProvider struct {
	// chainName identifies the chain this provider manages.
	chainName string

	// GRPCChainProviderConfig holds the configuration for the GRPCChainProvider.
	config GRPCChainProviderConfig

	// chain is the Cosmos chain instance that this provider manages. The Initialize method
	// sets up the chain.
	chain *cosmos.Chain
}

func NewGRPCChainProvider(chainName string, config GRPCChainProviderConfig) *GRPCChainProvider {
	return &GRPCChainProvider{
		chainName: chainName,
		config:    config,
	}
}

// Initialize initializes the GRPCChainProvider. It generates the deployer key from the provided
// configuration and creates the gRPC connection to the node. The connection dials lazily, so
// Initialize succeeds without the node being reachable. It returns the initialized Cosmos chain
// instance.
func (p *GRPCChainProvider) Initialize(_ context.Context) (chain.BlockChain, error) {
	if p.chain != nil {
		return *p.chain, nil // Already initialized
	}

	// Validate the provider configuration
	if err := p.config.validate(); err != nil {
		return nil, fmt.Errorf("failed to validate provider config: %w", err)
	}

	// Generate the deployer key
	privKey, err := p.config.DeployerKeyGen.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate deployer key: %w", err)
	}

	creds := p.config.TransportCredentials
	if creds == nil {
		creds = insecure.NewCredentials()
	}

	// Every call carries the chain ID so that multiplexing gateways can route it
	interceptors := []grpc.UnaryClientInterceptor{
		internalgrpc.ChainIDInterceptor(p.config.ChainID),
	}
	if p.config.AuthToken != "" {
		interceptors = append(interceptors, internalgrpc.BearerTokenInterceptor(p.config.AuthToken))
	}

	conn, err := grpc.NewClient(
		p.config.GRPCURL,
		grpc.WithTransportCredentials(creds),
		grpc.WithChainUnaryInterceptor(interceptors...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC client for %s: %w", p.config.GRPCURL, err)
	}

	// Create the Cosmos chain instance with the provided configuration
	p.chain = &cosmos.Chain{
		ChainMetadata: cosmos.ChainMetadata{
			ChainName:   p.chainName,
			ChainFamily: chain.FamilyCosmos,
		},
		ChainID:      p.config.ChainID,
		Bech32Prefix: p.config.Bech32Prefix,
		Conn:         conn,
		URL:          p.config.GRPCURL,
		DeployerKey:  privKey,
	}

	return *p.chain, nil
}

// Name returns the name of the GRPCChainProvider.
func (*GRPCChainProvider) Name() string {
	return "Cosmos gRPC Chain Provider"
}

// ChainName returns the name of the Cosmos chain managed by this provider.
func (p *GRPCChainProvider) ChainName() string {
	return p.chainName
}

// BlockChain returns the Cosmos chain instance managed by this provider. You must call Initialize
// before using this method to ensure the chain is properly set up.
func (p *GRPCChainProvider) BlockChain() chain.BlockChain {
	return *p.chain
}
