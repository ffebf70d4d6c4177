package keys

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"

	"github.com/cosmos/cosmos-sdk/crypto/keys/secp256k1"
	cryptotypes "github.com/cosmos/cosmos-sdk/crypto/types"
	sollib "github.com/gagliardetto/solana-go"

	"github.com/smartcontractkit/interchain-deployments-framework/chain"
	evmprov "github.com/smartcontractkit/interchain-deployments-framework/chain/evm/provider"
)

// AgentKey is a signing key resolved from a key store. Resolved keys are transient: they are
// used for the duration of one operation and are never persisted by this framework.
type AgentKey interface {
	// Address returns the canonical public address of the key for its protocol family.
	Address() string
	// Family returns the protocol family the key signs for.
	Family() string
	// Raw returns a copy of the raw private key material. It fails with ErrKeyNotExtractable
	// when the underlying key store only permits signing operations.
	Raw() ([]byte, error)
}

// EVMKey is an AgentKey that can produce a geth transactor for an EVM chain.
type EVMKey interface {
	AgentKey

	// TransactorGenerator returns the signer generator used to bind the key to a chain via
	// its provider.
	TransactorGenerator() evmprov.SignerGenerator
}

// SolanaKey is an AgentKey that exposes the ed25519 keypair for a Solana chain.
type SolanaKey interface {
	AgentKey

	// PrivateKey returns the ed25519 keypair.
	PrivateKey() (sollib.PrivateKey, error)
}

// CosmosKey is an AgentKey that exposes the secp256k1 key for a Cosmos chain.
type CosmosKey interface {
	AgentKey

	// PrivateKey returns the secp256k1 private key.
	PrivateKey() (cryptotypes.PrivKey, error)
}

var (
	_ EVMKey    = (*evmMemoryKey)(nil)
	_ SolanaKey = (*solanaMemoryKey)(nil)
	_ CosmosKey = (*cosmosMemoryKey)(nil)
)

// evmMemoryKey is an extractable in-memory secp256k1 key for EVM chains.
type evmMemoryKey struct {
	raw     []byte
	address string
}

// newEVMMemoryKey creates an EVM key from 32 bytes of secp256k1 private key material.
func newEVMMemoryKey(raw []byte) (*evmMemoryKey, error) {
	address, err := DeriveAddress(raw, chain.FamilyEVM)
	if err != nil {
		return nil, err
	}

	return &evmMemoryKey{raw: raw, address: address}, nil
}

func (k *evmMemoryKey) Address() string { return k.address }

func (k *evmMemoryKey) Family() string { return chain.FamilyEVM }

func (k *evmMemoryKey) Raw() ([]byte, error) {
	out := make([]byte, len(k.raw))
	copy(out, k.raw)

	return out, nil
}

func (k *evmMemoryKey) TransactorGenerator() evmprov.SignerGenerator {
	return evmprov.TransactorFromRaw(hex.EncodeToString(k.raw))
}

// solanaMemoryKey is an extractable in-memory ed25519 key for Solana chains.
type solanaMemoryKey struct {
	seed    []byte
	address string
}

// newSolanaMemoryKey creates a Solana key from a 32-byte ed25519 seed.
func newSolanaMemoryKey(seed []byte) (*solanaMemoryKey, error) {
	address, err := DeriveAddress(seed, chain.FamilySolana)
	if err != nil {
		return nil, err
	}

	return &solanaMemoryKey{seed: seed, address: address}, nil
}

func (k *solanaMemoryKey) Address() string { return k.address }

func (k *solanaMemoryKey) Family() string { return chain.FamilySolana }

func (k *solanaMemoryKey) Raw() ([]byte, error) {
	out := make([]byte, len(k.seed))
	copy(out, k.seed)

	return out, nil
}

func (k *solanaMemoryKey) PrivateKey() (sollib.PrivateKey, error) {
	return sollib.PrivateKey(ed25519.NewKeyFromSeed(k.seed)), nil
}

// cosmosMemoryKey is an extractable in-memory secp256k1 key for Cosmos chains.
type cosmosMemoryKey struct {
	privKey *secp256k1.PrivKey
}

// newCosmosMemoryKey creates a Cosmos key from 32 bytes of secp256k1 private key material.
func newCosmosMemoryKey(raw []byte) (*cosmosMemoryKey, error) {
	if len(raw) != 32 {
		return nil, fmt.Errorf("secp256k1 private key must be exactly 32 bytes, got %d", len(raw))
	}

	return &cosmosMemoryKey{privKey: &secp256k1.PrivKey{Key: raw}}, nil
}

// Address returns the hex encoded account address bytes of the key. The bech32 rendering is
// chain specific and is produced by the bound chain, which knows its address prefix.
func (k *cosmosMemoryKey) Address() string { return k.privKey.PubKey().Address().String() }

func (k *cosmosMemoryKey) Family() string { return chain.FamilyCosmos }

func (k *cosmosMemoryKey) Raw() ([]byte, error) {
	out := make([]byte, len(k.privKey.Key))
	copy(out, k.privKey.Key)

	return out, nil
}

func (k *cosmosMemoryKey) PrivateKey() (cryptotypes.PrivKey, error) {
	return k.privKey, nil
}
