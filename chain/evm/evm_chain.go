package evm

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	chain_common "github.com/smartcontractkit/interchain-deployments-framework/chain/internal/common"
)

// ChainMetadata is the metadata for an EVM chain. It contains the name and family of the chain.
type ChainMetadata = chain_common.ChainMetadata

// OnchainClient is the interface for interacting with an EVM node. It is implemented by
// ethclient.Client and by the simulated backend used in tests.
type OnchainClient interface {
	bind.ContractBackend
	bind.DeployBackend
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	NonceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (uint64, error)
}

// ConfirmFunc is a function that waits for a transaction to be mined and returns the block
// number it was mined in.
type ConfirmFunc func(tx *types.Transaction) (uint64, error)

// Chain represents an EVM chain.
type Chain struct {
	ChainMetadata

	// ChainID is the EIP-155 chain ID used for transaction signing.
	ChainID *big.Int

	Client      OnchainClient
	DeployerKey *bind.TransactOpts
	Confirm     ConfirmFunc

	// Users are additional keys that can be used to send transactions on the chain. These are
	// generally used for testing purposes.
	Users []*bind.TransactOpts

	// SignHash signs the given hash with the deployer key and returns a 65-byte
	// [R || S || V] signature.
	SignHash func(hash []byte) ([]byte, error)
}

// SignerAddress returns the hex-encoded address of the deployer key, or an empty string if no
// deployer key is attached.
func (c Chain) SignerAddress() string {
	if c.DeployerKey == nil {
		return ""
	}

	return c.DeployerKey.From.Hex()
}
