package cosmos

import (
	cryptotypes "github.com/cosmos/cosmos-sdk/crypto/types"
	"github.com/cosmos/cosmos-sdk/types/bech32"
	"google.golang.org/grpc"

	chain_common "github.com/smartcontractkit/interchain-deployments-framework/chain/internal/common"
)

// ChainMetadata is the metadata for a Cosmos chain. It contains the name and family of the chain.
type ChainMetadata = chain_common.ChainMetadata

// Chain represents a Cosmos chain.
type Chain struct {
	ChainMetadata

	// ChainID is the cosmos chain ID (for example "gaia-1") carried in signed transactions and
	// attached to outgoing gRPC calls.
	ChainID string
	// Bech32Prefix is the account address prefix used to render addresses on this chain.
	Bech32Prefix string

	// Conn is the gRPC connection to the chain's node.
	Conn *grpc.ClientConn
	URL  string

	// DeployerKey is the secp256k1 key used to sign on this chain.
	DeployerKey cryptotypes.PrivKey
}

// SignerAddress returns the bech32-encoded account address of the deployer key, or an empty
// string if no deployer key is attached.
func (c Chain) SignerAddress() string {
	if c.DeployerKey == nil {
		return ""
	}

	addr, err := bech32.ConvertAndEncode(c.Bech32Prefix, c.DeployerKey.PubKey().Address())
	if err != nil {
		return ""
	}

	return addr
}
