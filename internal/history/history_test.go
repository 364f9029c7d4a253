package history

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *BoltStore {
	t.Helper()
	store, err := OpenBolt(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestBoltStoreRoundtrip(t *testing.T) {
	store := openTestStore(t)

	found, err := store.Contains("tech", "https://example.com/a")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Append("tech", []string{
		"https://example.com/a",
		"https://example.com/b",
	}))

	for _, key := range []string{"https://example.com/a", "https://example.com/b"} {
		found, err = store.Contains("tech", key)
		require.NoError(t, err)
		assert.True(t, found, key)
	}
}

func TestBoltStoreProfileIsolation(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Append("tech", []string{"https://example.com/a"}))

	found, err := store.Contains("science", "https://example.com/a")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestBoltStoreAppendIsIdempotent(t *testing.T) {
	store := openTestStore(t)

	keys := []string{"https://example.com/a"}
	require.NoError(t, store.Append("tech", keys))
	require.NoError(t, store.Append("tech", keys))

	found, err := store.Contains("tech", keys[0])
	require.NoError(t, err)
	assert.True(t, found)
}

func TestBoltStoreSkipsEmptyKeysAndBatches(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Append("tech", nil))
	require.NoError(t, store.Append("tech", []string{"", "https://example.com/a"}))

	found, err := store.Contains("tech", "")
	require.NoError(t, err)
	assert.False(t, found)

	found, err = store.Contains("tech", "https://example.com/a")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestBoltStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	store, err := OpenBolt(path)
	require.NoError(t, err)
	require.NoError(t, store.Append("tech", []string{"https://example.com/a"}))
	require.NoError(t, store.Close())

	reopened, err := OpenBolt(path)
	require.NoError(t, err)
	defer reopened.Close()

	found, err := reopened.Contains("tech", "https://example.com/a")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()

	require.NoError(t, store.Append("tech", []string{"a", "b"}))
	require.NoError(t, store.Append("tech", []string{"b"}))

	found, err := store.Contains("tech", "a")
	require.NoError(t, err)
	assert.True(t, found)

	found, err = store.Contains("science", "a")
	require.NoError(t, err)
	assert.False(t, found)

	assert.Equal(t, 2, store.Size("tech"))
}
