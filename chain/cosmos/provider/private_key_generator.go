package provider

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/cosmos/cosmos-sdk/crypto/hd"
	"github.com/cosmos/cosmos-sdk/crypto/keys/secp256k1"
	cryptotypes "github.com/cosmos/cosmos-sdk/crypto/types"
	"github.com/cosmos/go-bip39"
)

// DefaultHDPath is the BIP-44 derivation path used when deriving keys from a mnemonic. Coin
// type 118 is the registered cosmos coin type.
const DefaultHDPath = "m/44'/118'/0'/0/0"

// PrivateKeyGenerator is an interface for generating Cosmos private keys.
type PrivateKeyGenerator interface {
	// Generate creates a new secp256k1 private key.
	Generate() (cryptotypes.PrivKey, error)
}

var (
	_ PrivateKeyGenerator = (*privateKeyFromRaw)(nil)
	_ PrivateKeyGenerator = (*privateKeyFromMnemonic)(nil)
	_ PrivateKeyGenerator = (*privateKeyFromKey)(nil)
	_ PrivateKeyGenerator = (*privateKeyRandom)(nil)
)

// PrivateKeyFromRaw creates a new instance of the privateKeyFromRaw generator with the raw
// private key.
func PrivateKeyFromRaw(privateKey string) *privateKeyFromRaw {
	return &privateKeyFromRaw{
		PrivateKey: privateKey,
	}
}

// privateKeyFromRaw is a Cosmos key generator that creates a key from a raw private key.
type privateKeyFromRaw struct {
	// PrivateKey is the hex encoded 32-byte secp256k1 private key, with or without a 0x prefix.
	PrivateKey string
}

// Generate parses the provided hex encoded private key and returns the secp256k1 private key.
func (g *privateKeyFromRaw) Generate() (cryptotypes.PrivKey, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(g.PrivateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	if len(b) != 32 {
		return nil, fmt.Errorf("private key must be exactly 32 bytes, got %d", len(b))
	}

	return &secp256k1.PrivKey{Key: b}, nil
}

// PrivateKeyFromMnemonic creates a new instance of the privateKeyFromMnemonic generator. An
// empty hdPath selects DefaultHDPath.
func PrivateKeyFromMnemonic(mnemonic, hdPath string) *privateKeyFromMnemonic {
	if hdPath == "" {
		hdPath = DefaultHDPath
	}

	return &privateKeyFromMnemonic{
		Mnemonic: mnemonic,
		HDPath:   hdPath,
	}
}

// privateKeyFromMnemonic is a Cosmos key generator that derives a key from a BIP-39 mnemonic.
type privateKeyFromMnemonic struct {
	// Mnemonic is the BIP-39 mnemonic sentence to derive the key from.
	Mnemonic string
	// HDPath is the BIP-44 derivation path applied to the mnemonic seed.
	HDPath string
}

// Generate derives a secp256k1 private key from the mnemonic and derivation path. The same
// mnemonic and path always yield the same key.
func (g *privateKeyFromMnemonic) Generate() (cryptotypes.PrivKey, error) {
	seed, err := bip39.NewSeedWithErrorChecking(g.Mnemonic, "")
	if err != nil {
		return nil, fmt.Errorf("failed to derive seed from mnemonic: %w", err)
	}

	master, ch := hd.ComputeMastersFromSeed(seed)
	derived, err := hd.DerivePrivateKeyForPath(master, ch, g.HDPath)
	if err != nil {
		return nil, fmt.Errorf("failed to derive private key for path %s: %w", g.HDPath, err)
	}

	return &secp256k1.PrivKey{Key: derived}, nil
}

// PrivateKeyFromKey creates a new instance of the privateKeyFromKey generator wrapping an
// already materialized private key.
func PrivateKeyFromKey(privKey cryptotypes.PrivKey) *privateKeyFromKey {
	return &privateKeyFromKey{
		PrivKey: privKey,
	}
}

// privateKeyFromKey is a Cosmos key generator that returns an existing key unchanged.
type privateKeyFromKey struct {
	// PrivKey is the secp256k1 private key to return.
	PrivKey cryptotypes.PrivKey
}

// Generate returns the wrapped private key.
func (g *privateKeyFromKey) Generate() (cryptotypes.PrivKey, error) {
	return g.PrivKey, nil
}

// PrivateKeyRandom creates a new instance of the privateKeyRandom generator.
func PrivateKeyRandom() *privateKeyRandom {
	return &privateKeyRandom{}
}

// privateKeyRandom is a Cosmos key generator that creates a random key.
type privateKeyRandom struct{}

// Generate generates a new random secp256k1 private key.
func (g *privateKeyRandom) Generate() (cryptotypes.PrivKey, error) {
	return secp256k1.GenPrivKey(), nil
}
