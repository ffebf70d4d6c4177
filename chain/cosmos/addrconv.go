package cosmos

import (
	"fmt"

	"github.com/cosmos/cosmos-sdk/types/bech32"

	chain_common "github.com/smartcontractkit/interchain-deployments-framework/chain/internal/common"
)

// AddressToBytes converts a bech32-encoded Cosmos address to its raw account bytes. The
// human-readable prefix is discarded since it only identifies the chain, not the account.
func AddressToBytes(address string) ([]byte, error) {
	_, data, err := bech32.DecodeAndConvert(address)
	if err != nil {
		return nil, fmt.Errorf("invalid Cosmos address format: %s, error: %w", address, err)
	}

	return data, nil
}

// AddressConverter implements address conversion for Cosmos chains.
// This struct implements the AddressConverter strategy interface.
type AddressConverter struct{}

// ConvertToBytes converts a bech32-encoded Cosmos address string to bytes.
func (c AddressConverter) ConvertToBytes(address string) ([]byte, error) {
	return AddressToBytes(address)
}

// Supports returns true if this converter supports the given chain family.
func (c AddressConverter) Supports(family string) bool {
	return family == chain_common.FamilyCosmos
}
