package keys

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/cosmos/go-bip39"
	sollib "github.com/gagliardetto/solana-go"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/smartcontractkit/interchain-deployments-framework/chain"
	"github.com/smartcontractkit/interchain-deployments-framework/config"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore is an extractable key store holding raw key material in memory. It serves local
// development and test environments, where keys arrive through secret configuration rather
// than a managed signing service.
//
// A store may carry an explicit key per protocol family, a BIP-39 mnemonic, or both. Explicit
// keys are returned for every request of their family. When no explicit key is present for a
// family, a key is derived deterministically from the mnemonic and the full request tuple, so
// distinct (context, chain, role, index) tuples receive distinct keys.
type MemoryStore struct {
	evmKey    string // hex encoded secp256k1 private key
	solanaKey string // base58 encoded ed25519 private key
	mnemonic  string // BIP-39 mnemonic used for per-tuple key derivation
}

// MemoryStoreOption is a function that configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithEVMKey sets the explicit hex encoded secp256k1 private key returned for EVM requests.
func WithEVMKey(hexKey string) MemoryStoreOption {
	return func(s *MemoryStore) {
		s.evmKey = hexKey
	}
}

// WithSolanaKey sets the explicit base58 encoded ed25519 private key returned for Solana
// requests.
func WithSolanaKey(base58Key string) MemoryStoreOption {
	return func(s *MemoryStore) {
		s.solanaKey = base58Key
	}
}

// WithMnemonic sets the BIP-39 mnemonic used to derive per-tuple keys for families without an
// explicit key.
func WithMnemonic(mnemonic string) MemoryStoreOption {
	return func(s *MemoryStore) {
		s.mnemonic = mnemonic
	}
}

// NewMemoryStore creates a new MemoryStore with the given options.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	s := &MemoryStore{}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// NewMemoryStoreFromConfig creates a MemoryStore seeded with the secret onchain configuration.
func NewMemoryStoreFromConfig(cfg config.OnchainConfig) *MemoryStore {
	return NewMemoryStore(
		WithEVMKey(cfg.EVM.DeployerKey),
		WithSolanaKey(cfg.Solana.WalletKey),
		WithMnemonic(cfg.Cosmos.Mnemonic),
	)
}

// GetKey materializes the agent key for the request. It never performs I/O.
func (s *MemoryStore) GetKey(_ context.Context, req KeyRequest) (AgentKey, error) {
	switch req.ChainFamily {
	case chain.FamilyEVM:
		raw, err := s.evmMaterial(req)
		if err != nil {
			return nil, err
		}

		return newEVMMemoryKey(raw)

	case chain.FamilySolana:
		seed, err := s.solanaMaterial(req)
		if err != nil {
			return nil, err
		}

		return newSolanaMemoryKey(seed)

	case chain.FamilyCosmos:
		raw, err := s.deriveMaterial(req)
		if err != nil {
			return nil, err
		}

		return newCosmosMemoryKey(raw)

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProtocol, req.ChainFamily)
	}
}

// evmMaterial returns the secp256k1 private key bytes for an EVM request.
func (s *MemoryStore) evmMaterial(req KeyRequest) ([]byte, error) {
	if s.evmKey == "" {
		return s.deriveMaterial(req)
	}

	raw, err := hex.DecodeString(strings.TrimPrefix(s.evmKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse EVM private key: %w", err)
	}

	return raw, nil
}

// solanaMaterial returns the ed25519 seed bytes for a Solana request.
func (s *MemoryStore) solanaMaterial(req KeyRequest) ([]byte, error) {
	if s.solanaKey == "" {
		return s.deriveMaterial(req)
	}

	privKey, err := sollib.PrivateKeyFromBase58(s.solanaKey)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Solana private key: %w", err)
	}

	// An ed25519 private key is the seed followed by the public key.
	return []byte(privKey[:32]), nil
}

// deriveMaterial derives 32 bytes of private key material from the mnemonic and the request
// tuple. The same tuple always yields the same material.
func (s *MemoryStore) deriveMaterial(req KeyRequest) ([]byte, error) {
	if s.mnemonic == "" {
		return nil, fmt.Errorf("no key material configured for %s key (context %q, chain %q): set a family key or a mnemonic",
			req.ChainFamily, req.Context, req.ChainName)
	}

	seed, err := bip39.NewSeedWithErrorChecking(s.mnemonic, "")
	if err != nil {
		return nil, fmt.Errorf("failed to derive seed from mnemonic: %w", err)
	}

	tuple := fmt.Sprintf("%s:%s:%s:%s:%d", req.Environment, req.Context, req.ChainName, req.Role, req.Index)

	return crypto.Keccak256(seed, []byte(tuple)), nil
}
