package solana

import (
	"github.com/gagliardetto/solana-go"
	solRpc "github.com/gagliardetto/solana-go/rpc"

	chain_common "github.com/smartcontractkit/interchain-deployments-framework/chain/internal/common"
)

// SolDefaultCommitment is the default commitment level used when querying the chain.
const SolDefaultCommitment = solRpc.CommitmentConfirmed

// ChainMetadata is the metadata for a Solana chain. It contains the name and family of the chain.
type ChainMetadata = chain_common.ChainMetadata

// Chain represents a Solana chain.
type Chain struct {
	ChainMetadata

	// RPC client
	Client *solRpc.Client
	URL    string
	WSURL  string

	// DeployerKey is the ed25519 keypair used to sign on this chain.
	DeployerKey *solana.PrivateKey
}

// SignerAddress returns the base58-encoded public key of the deployer keypair, or an empty
// string if no deployer key is attached.
func (c Chain) SignerAddress() string {
	if c.DeployerKey == nil {
		return ""
	}

	return c.DeployerKey.PublicKey().String()
}
