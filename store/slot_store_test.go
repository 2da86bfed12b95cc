package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaultnet/vaultd/codec"
	"github.com/vaultnet/vaultd/db"
	"github.com/vaultnet/vaultd/types"
)

func identity(fill byte) types.Identity {
	var id types.Identity
	for i := range id {
		id[i] = fill
	}
	return id
}

func newTestStore(t *testing.T, backend string) *GenericSlotStore {
	t.Helper()
	provider, err := db.NewProvider(backend, t.TempDir(), "")
	require.NoError(t, err)

	store, err := NewGenericSlotStore(provider)
	require.NoError(t, err)
	t.Cleanup(store.MustClose)
	return store
}

func TestSlotStoreRoundTrip(t *testing.T) {
	for _, backend := range []string{db.BackendBolt, db.BackendLevelDB} {
		t.Run(backend, func(t *testing.T) {
			store := newTestStore(t, backend)

			account := &types.SlotAccount{
				Address: identity(2),
				Owner:   identity(1),
				Data:    codec.EncodeRecord(&types.AccountRecord{Counter: 3, Balance: 500}),
			}
			require.NoError(t, store.Store(account))

			loaded, err := store.GetByAddr(account.Address)
			require.NoError(t, err)
			require.NotNil(t, loaded)
			assert.Equal(t, account, loaded)

			exists, err := store.ExistsByAddr(account.Address)
			require.NoError(t, err)
			assert.True(t, exists)
		})
	}
}

func TestSlotStoreMissingAccount(t *testing.T) {
	store := newTestStore(t, db.BackendBolt)

	loaded, err := store.GetByAddr(identity(9))
	require.NoError(t, err)
	assert.Nil(t, loaded)

	exists, err := store.ExistsByAddr(identity(9))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSlotStoreBatch(t *testing.T) {
	store := newTestStore(t, db.BackendBolt)

	accounts := []*types.SlotAccount{
		{Address: identity(2), Owner: identity(1)},
		{Address: identity(3), Owner: identity(1), Data: codec.EncodeRecord(&types.AccountRecord{Balance: 42})},
	}
	require.NoError(t, store.StoreBatch(accounts))

	for _, account := range accounts {
		loaded, err := store.GetByAddr(account.Address)
		require.NoError(t, err)
		require.NotNil(t, loaded)
		assert.Equal(t, account.Owner, loaded.Owner)
		assert.Equal(t, account.Data, loaded.Data)
	}
}

func TestSlotStoreOverwrite(t *testing.T) {
	store := newTestStore(t, db.BackendBolt)

	account := &types.SlotAccount{Address: identity(2), Owner: identity(1)}
	require.NoError(t, store.Store(account))

	account.Data = codec.EncodeRecord(&types.AccountRecord{Balance: 100})
	require.NoError(t, store.Store(account))

	loaded, err := store.GetByAddr(account.Address)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, account.Data, loaded.Data)
}

func TestNewGenericSlotStoreRejectsNilProvider(t *testing.T) {
	_, err := NewGenericSlotStore(nil)
	require.Error(t, err)
}
