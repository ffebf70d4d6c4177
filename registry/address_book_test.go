package registry_test

import (
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartcontractkit/interchain-deployments-framework/registry"
)

var version1_0_0 = *semver.MustParse("1.0.0")

func Test_AddressBookMap_Save(t *testing.T) {
	t.Parallel()

	ab := registry.NewMemoryAddressBook()
	tv := registry.NewTypeAndVersion(registry.ContractTypeMailbox, version1_0_0)

	// Lowercase hex is normalized to EIP55 on save
	err := ab.Save("alpha", "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", tv)
	require.NoError(t, err)

	addrs, err := ab.AddressesForChain("alpha")
	require.NoError(t, err)
	require.Len(t, addrs, 1)
	assert.Equal(t, tv, addrs["0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"])

	// Saving the same address again conflicts, whatever its casing
	err = ab.Save("alpha", "0x5AAEB6053F3E94C9B9A09F33669435E7EF1BEAED", tv)
	require.ErrorContains(t, err, "already exists")
}

func Test_AddressBookMap_Save_Invalid(t *testing.T) {
	t.Parallel()

	tv := registry.NewTypeAndVersion(registry.ContractTypeMailbox, version1_0_0)

	tests := []struct {
		name        string
		giveChain   string
		giveAddress string
		giveTV      registry.TypeAndVersion
		wantErr     string
		wantErrIs   error
	}{
		{
			name:        "empty chain name",
			giveChain:   "",
			giveAddress: "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
			giveTV:      tv,
			wantErr:     "chain name cannot be empty",
		},
		{
			name:      "empty address",
			giveChain: "alpha",
			giveTV:    tv,
			wantErr:   "address cannot be empty",
			wantErrIs: registry.ErrInvalidAddress,
		},
		{
			name:        "zero address",
			giveChain:   "alpha",
			giveAddress: "0x0000000000000000000000000000000000000000",
			giveTV:      tv,
			wantErr:     "address cannot be the zero address",
			wantErrIs:   registry.ErrInvalidAddress,
		},
		{
			name:        "empty type",
			giveChain:   "alpha",
			giveAddress: "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
			giveTV:      registry.TypeAndVersion{Version: version1_0_0},
			wantErr:     "type cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ab := registry.NewMemoryAddressBook()
			err := ab.Save(tt.giveChain, tt.giveAddress, tt.giveTV)
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.wantErr)
			if tt.wantErrIs != nil {
				assert.ErrorIs(t, err, tt.wantErrIs)
			}
		})
	}
}

func Test_AddressBookMap_Addresses(t *testing.T) {
	t.Parallel()

	mailbox := registry.NewTypeAndVersion(registry.ContractTypeMailbox, version1_0_0)
	igp := registry.NewTypeAndVersion(registry.ContractTypeInterchainGasPaymaster, version1_0_0)

	ab := registry.NewMemoryAddressBook()
	require.NoError(t, ab.Save("beta", "0x0000000000000000000000000000000000000001", mailbox))
	require.NoError(t, ab.Save("alpha", "0x0000000000000000000000000000000000000002", mailbox))
	require.NoError(t, ab.Save("alpha", "0x0000000000000000000000000000000000000003", igp))

	all, err := ab.Addresses()
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Len(t, all["alpha"], 2)
	assert.Len(t, all["beta"], 1)

	assert.Equal(t, []string{"alpha", "beta"}, ab.ChainNames())

	_, err = ab.AddressesForChain("gamma")
	assert.ErrorIs(t, err, registry.ErrChainNotFound)
}

func Test_AddressBookMap_Merge(t *testing.T) {
	t.Parallel()

	mailbox := registry.NewTypeAndVersion(registry.ContractTypeMailbox, version1_0_0)

	ab := registry.NewMemoryAddressBookFromMap(registry.AddressesByChain{
		"alpha": {"0x0000000000000000000000000000000000000001": mailbox},
	})
	other := registry.NewMemoryAddressBookFromMap(registry.AddressesByChain{
		"alpha": {"0x0000000000000000000000000000000000000002": mailbox},
		"beta":  {"0x0000000000000000000000000000000000000003": mailbox},
	})

	require.NoError(t, ab.Merge(other))

	addrs, err := ab.AddressesForChain("alpha")
	require.NoError(t, err)
	assert.Len(t, addrs, 2)
	assert.Equal(t, []string{"alpha", "beta"}, ab.ChainNames())

	// Conflicting addresses fail the merge
	conflict := registry.NewMemoryAddressBookFromMap(registry.AddressesByChain{
		"beta": {"0x0000000000000000000000000000000000000003": mailbox},
	})
	require.ErrorContains(t, ab.Merge(conflict), "already exists")
}

func Test_SearchAddressBook(t *testing.T) {
	t.Parallel()

	ab := registry.NewMemoryAddressBookFromMap(registry.AddressesByChain{
		"alpha": {
			"0x0000000000000000000000000000000000000001": registry.NewTypeAndVersion(registry.ContractTypeMailbox, version1_0_0),
		},
	})

	addr, err := registry.SearchAddressBook(ab, "alpha", registry.ContractTypeMailbox)
	require.NoError(t, err)
	assert.Equal(t, "0x0000000000000000000000000000000000000001", addr)

	_, err = registry.SearchAddressBook(ab, "alpha", registry.ContractTypeValidatorAnnounce)
	require.ErrorContains(t, err, "not found")

	_, err = registry.SearchAddressBook(ab, "beta", registry.ContractTypeMailbox)
	require.ErrorIs(t, err, registry.ErrChainNotFound)
}

func Test_TypeAndVersion(t *testing.T) {
	t.Parallel()

	tv, err := registry.TypeAndVersionFromString("Mailbox 1.2.3")
	require.NoError(t, err)
	assert.Equal(t, registry.ContractTypeMailbox, tv.Type)
	assert.Equal(t, "1.2.3", tv.Version.String())
	assert.Equal(t, "Mailbox 1.2.3", tv.String())

	other := registry.MustTypeAndVersionFromString("Mailbox 1.2.3")
	assert.True(t, tv.Equal(other))
	assert.False(t, tv.Equal(registry.NewTypeAndVersion(registry.ContractTypeMailbox, version1_0_0)))

	_, err = registry.TypeAndVersionFromString("Mailbox")
	require.ErrorContains(t, err, "invalid type and version string")

	_, err = registry.TypeAndVersionFromString("Mailbox not-a-version")
	require.Error(t, err)

	assert.Panics(t, func() {
		registry.MustTypeAndVersionFromString("garbage")
	})
}
