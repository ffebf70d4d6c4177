package cosmos

import (
	"bytes"
	"testing"

	"github.com/cosmos/cosmos-sdk/types/bech32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chain_common "github.com/smartcontractkit/interchain-deployments-framework/chain/internal/common"
)

func TestAddressToBytes(t *testing.T) {
	t.Parallel()

	// Encode a known 20-byte account so the tests have valid bech32 inputs to decode.
	accountBytes := bytes.Repeat([]byte{0x42}, 20)

	cosmosAddr, err := bech32.ConvertAndEncode("cosmos", accountBytes)
	require.NoError(t, err)

	osmoAddr, err := bech32.ConvertAndEncode("osmo", accountBytes)
	require.NoError(t, err)

	tests := []struct {
		name        string
		giveAddress string
		want        []byte
		wantErr     string
	}{
		{
			name:        "valid cosmos address",
			giveAddress: cosmosAddr,
			want:        accountBytes,
		},
		{
			name:        "valid address with another prefix",
			giveAddress: osmoAddr,
			want:        accountBytes,
		},
		{
			name:        "invalid - not bech32",
			giveAddress: "invalid",
			wantErr:     "invalid Cosmos address format",
		},
		{
			name:        "invalid - empty string",
			giveAddress: "",
			wantErr:     "invalid Cosmos address format",
		},
		{
			name:        "invalid - corrupted checksum",
			giveAddress: cosmosAddr[:len(cosmosAddr)-1] + "x",
			wantErr:     "invalid Cosmos address format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := AddressToBytes(tt.giveAddress)

			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestAddressConverter(t *testing.T) {
	t.Parallel()

	converter := AddressConverter{}

	t.Run("Supports", func(t *testing.T) {
		t.Parallel()
		assert.True(t, converter.Supports(chain_common.FamilyCosmos))
		assert.False(t, converter.Supports(chain_common.FamilyEVM))
		assert.False(t, converter.Supports(chain_common.FamilySolana))
	})

	t.Run("ConvertToBytes", func(t *testing.T) {
		t.Parallel()

		addr, err := bech32.ConvertAndEncode("cosmos", bytes.Repeat([]byte{0x01}, 20))
		require.NoError(t, err)

		result, err := converter.ConvertToBytes(addr)
		require.NoError(t, err)
		assert.Len(t, result, 20)
	})
}
