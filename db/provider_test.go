package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProvider(t *testing.T, backend string) DatabaseProvider {
	t.Helper()
	provider, err := NewProvider(backend, t.TempDir(), "")
	require.NoError(t, err)
	t.Cleanup(func() { provider.Close() })
	return provider
}

func TestProviderBasicOps(t *testing.T) {
	for _, backend := range []string{BackendBolt, BackendLevelDB} {
		t.Run(backend, func(t *testing.T) {
			provider := newProvider(t, backend)

			key, value := []byte("slot:abc"), []byte("payload")

			got, err := provider.Get(key)
			require.NoError(t, err)
			assert.Nil(t, got, "missing key must yield nil, nil")

			require.NoError(t, provider.Put(key, value))

			got, err = provider.Get(key)
			require.NoError(t, err)
			assert.Equal(t, value, got)

			has, err := provider.Has(key)
			require.NoError(t, err)
			assert.True(t, has)

			require.NoError(t, provider.Delete(key))
			has, err = provider.Has(key)
			require.NoError(t, err)
			assert.False(t, has)
		})
	}
}

func TestProviderBatchWrite(t *testing.T) {
	for _, backend := range []string{BackendBolt, BackendLevelDB} {
		t.Run(backend, func(t *testing.T) {
			provider := newProvider(t, backend)

			require.NoError(t, provider.Put([]byte("stale"), []byte("x")))

			batch := provider.Batch()
			batch.Put([]byte("a"), []byte("1"))
			batch.Put([]byte("b"), []byte("2"))
			batch.Delete([]byte("stale"))
			require.NoError(t, batch.Write())

			for key, want := range map[string]string{"a": "1", "b": "2"} {
				got, err := provider.Get([]byte(key))
				require.NoError(t, err)
				assert.Equal(t, []byte(want), got)
			}

			has, err := provider.Has([]byte("stale"))
			require.NoError(t, err)
			assert.False(t, has)
		})
	}
}

func TestNewProviderUnknownBackend(t *testing.T) {
	_, err := NewProvider("cassandra", t.TempDir(), "")
	require.Error(t, err)
}
