package cart

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorePersistsEveryMutation(t *testing.T) {
	storage := NewMemoryStorage()
	store := NewStore(storage)

	_, err := store.AddItem("s1", pastel(1, 8.5), 2)
	require.NoError(t, err)
	store.UpdateItemQuantity("s1", 1, 4)

	// a fresh store must rehydrate the same cart from storage
	again := NewStore(storage)
	c := again.Get("s1")
	require.Len(t, c.Items, 1)
	assert.Equal(t, 4, c.Items[0].Quantity)
}

func TestStoreSessionsAreIsolated(t *testing.T) {
	store := NewStore(NewMemoryStorage())
	_, _ = store.AddItem("s1", pastel(1, 8.5), 1)
	_, _ = store.AddItem("s2", pastel(2, 6.0), 3)

	assert.Equal(t, 1, store.Get("s1").TotalCount())
	assert.Equal(t, 3, store.Get("s2").TotalCount())
}

func TestStoreMalformedDataFallsBackToEmptyCart(t *testing.T) {
	storage := NewMemoryStorage()
	require.NoError(t, storage.Save("s1", []byte("{broken")))

	store := NewStore(storage)
	c := store.Get("s1")
	assert.Empty(t, c.Items)

	// the session stays usable afterwards
	c, err := store.AddItem("s1", pastel(1, 8.5), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, c.TotalCount())
}

func TestStoreClearEmptiesPersistedState(t *testing.T) {
	storage := NewMemoryStorage()
	store := NewStore(storage)
	_, _ = store.AddItem("s1", pastel(1, 8.5), 2)

	c := store.Clear("s1")
	assert.Equal(t, 0, c.TotalCount())

	data, err := storage.Load("s1")
	require.NoError(t, err)
	assert.Nil(t, data)

	again := NewStore(storage)
	assert.Empty(t, again.Get("s1").Items)
}

func TestBoltStorageRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cart.db")
	storage, err := NewBoltStorage(path)
	require.NoError(t, err)
	defer func() { _ = storage.Close() }()

	store := NewStore(storage)
	want, err := store.AddItem("s1", pastel(2, 6.0), 3)
	require.NoError(t, err)
	want, err = store.AddItem("s1", pastel(1, 8.5), 1)
	require.NoError(t, err)

	again := NewStore(storage)
	got := again.Get("s1")
	assert.Equal(t, want.Items, got.Items)

	require.NoError(t, storage.Delete("s1"))
	data, err := storage.Load("s1")
	require.NoError(t, err)
	assert.Nil(t, data)
}
