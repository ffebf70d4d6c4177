package provider

import (
	"bytes"
	"testing"

	"github.com/gagliardetto/solana-go"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_PrivateKeyFromRaw(t *testing.T) {
	t.Parallel()

	// Generate a random private key for testing
	privateKey, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)

	tests := []struct {
		name           string
		givePrivateKey string
		wantAddr       string
		wantErr        string
	}{
		{
			name:           "valid private key",
			givePrivateKey: privateKey.String(),
			wantAddr:       privateKey.PublicKey().String(),
		},
		{
			name:           "invalid private key",
			givePrivateKey: "invalid_private_key",
			wantErr:        "failed to parse private key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			gen := PrivateKeyFromRaw(tt.givePrivateKey)
			got, err := gen.Generate()

			if tt.wantErr != "" {
				require.Error(t, err)
				require.ErrorContains(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, got)
				assert.Equal(t, tt.givePrivateKey, got.String())
			}
		})
	}
}

func Test_PrivateKeyFromSeed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		giveSeed []byte
		wantErr  string
	}{
		{
			name:     "valid seed",
			giveSeed: bytes.Repeat([]byte{0x01}, 32),
		},
		{
			name:     "seed too short",
			giveSeed: []byte{0x01, 0x02},
			wantErr:  "seed must be exactly 32 bytes, got 2",
		},
		{
			name:     "nil seed",
			giveSeed: nil,
			wantErr:  "seed must be exactly 32 bytes, got 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			gen := PrivateKeyFromSeed(tt.giveSeed)
			got, err := gen.Generate()

			if tt.wantErr != "" {
				require.Error(t, err)
				require.ErrorContains(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.True(t, got.IsValid())

				// The same seed must always derive the same keypair
				again, err := PrivateKeyFromSeed(tt.giveSeed).Generate()
				require.NoError(t, err)
				assert.Equal(t, got, again)
			}
		})
	}
}

func Test_PrivateKeyRandom(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		wantAddr string
		wantErr  string
	}{
		{
			name: "valid private key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			gen := PrivateKeyRandom()
			got, err := gen.Generate()

			if tt.wantErr != "" {
				require.Error(t, err)
				require.ErrorContains(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, got)
				assert.NotEmpty(t, got.String())
				assert.True(t, got.IsValid())
			}
		})
	}
}
