package keys

import (
	"crypto/ed25519"
	"fmt"

	sollib "github.com/gagliardetto/solana-go"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/smartcontractkit/interchain-deployments-framework/chain"
)

// DeriveAddress derives the public address for the given raw private key according to the
// protocol family. It is deterministic and has no side effects; the raw key is never logged
// or retained.
//
//   - For EVM chains the key is interpreted as a secp256k1 private key and the standard
//     account address is returned in EIP-55 hex form.
//   - For Solana chains the key bytes are treated as an ed25519 seed and the base58 encoded
//     public key of the derived keypair is returned.
//
// Any other family fails with ErrUnsupportedProtocol naming the family.
func DeriveAddress(rawKey []byte, family string) (string, error) {
	switch family {
	case chain.FamilyEVM:
		privKey, err := crypto.ToECDSA(rawKey)
		if err != nil {
			return "", fmt.Errorf("failed to parse secp256k1 private key: %w", err)
		}

		return crypto.PubkeyToAddress(privKey.PublicKey).Hex(), nil

	case chain.FamilySolana:
		if len(rawKey) != ed25519.SeedSize {
			return "", fmt.Errorf("ed25519 seed must be exactly %d bytes, got %d", ed25519.SeedSize, len(rawKey))
		}

		return sollib.PrivateKey(ed25519.NewKeyFromSeed(rawKey)).PublicKey().String(), nil

	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedProtocol, family)
	}
}
