package keys

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartcontractkit/interchain-deployments-framework/chain"
	evmprov "github.com/smartcontractkit/interchain-deployments-framework/chain/evm/provider"
	"github.com/smartcontractkit/interchain-deployments-framework/config"
)

// fakeSignerFactory records the key IDs it was asked for and returns a canned address.
type fakeSignerFactory struct {
	gotKeyIDs []string
	address   string
	err       error
}

func (f *fakeSignerFactory) new(keyID, _, _ string) (string, evmprov.SignerGenerator, error) {
	f.gotKeyIDs = append(f.gotKeyIDs, keyID)
	if f.err != nil {
		return "", nil, f.err
	}

	return f.address, evmprov.TransactorRandom(), nil
}

func testKMSConfig() config.KMSConfig {
	return config.KMSConfig{
		KeyID:     "b0t63c15-13f6-44c3-a732-5theb66e5a7d",
		KeyRegion: "us-west-1",
	}
}

func Test_KMSStore_GetKey_FixedKeyID(t *testing.T) {
	t.Parallel()

	factory := &fakeSignerFactory{address: "0x2e988A386a799F506693793c6A5AF6B54dfAaBfB"}

	store := NewKMSStore(testKMSConfig())
	store.newSigner = factory.new

	key, err := store.GetKey(t.Context(), KeyRequest{
		Environment: "testnet",
		Context:     "hyperlane",
		ChainName:   "alpha",
		ChainFamily: chain.FamilyEVM,
		Role:        RoleDeployer,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{testKMSConfig().KeyID}, factory.gotKeyIDs)
	assert.Equal(t, chain.FamilyEVM, key.Family())
	assert.Equal(t, factory.address, key.Address())
}

func Test_KMSStore_GetKey_AliasPerTuple(t *testing.T) {
	t.Parallel()

	factory := &fakeSignerFactory{address: "0x2e988A386a799F506693793c6A5AF6B54dfAaBfB"}

	store := NewKMSStore(testKMSConfig(), WithAliasPrefix("hyperlane"))
	store.newSigner = factory.new

	_, err := store.GetKey(t.Context(), KeyRequest{
		Environment: "testnet",
		Context:     "hyperlane",
		ChainName:   "alpha",
		ChainFamily: chain.FamilyEVM,
		Role:        RoleValidator,
		Index:       2,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"alias/hyperlane-testnet-key-alpha-validator-2"}, factory.gotKeyIDs)
}

func Test_KMSStore_GetKey_NonEVMFamily(t *testing.T) {
	t.Parallel()

	store := NewKMSStore(testKMSConfig())

	_, err := store.GetKey(t.Context(), KeyRequest{
		ChainName:   "solmain",
		ChainFamily: chain.FamilySolana,
		Role:        RoleDeployer,
	})
	require.Error(t, err)
	assert.ErrorContains(t, err, "KMS store only holds secp256k1 keys")
}

func Test_KMSStore_GetKey_SignerFailure(t *testing.T) {
	t.Parallel()

	factory := &fakeSignerFactory{err: errors.New("kms unavailable")}

	store := NewKMSStore(testKMSConfig())
	store.newSigner = factory.new

	_, err := store.GetKey(t.Context(), KeyRequest{
		ChainName:   "alpha",
		ChainFamily: chain.FamilyEVM,
		Role:        RoleDeployer,
	})
	require.Error(t, err)
	assert.ErrorContains(t, err, "kms unavailable")
}

func Test_KMSKey_NotExtractable(t *testing.T) {
	t.Parallel()

	factory := &fakeSignerFactory{address: "0x2e988A386a799F506693793c6A5AF6B54dfAaBfB"}

	store := NewKMSStore(testKMSConfig())
	store.newSigner = factory.new

	key, err := store.GetKey(t.Context(), KeyRequest{
		ChainName:   "alpha",
		ChainFamily: chain.FamilyEVM,
		Role:        RoleDeployer,
	})
	require.NoError(t, err)

	_, err = key.Raw()
	require.ErrorIs(t, err, ErrKeyNotExtractable)
}
