package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "journal.db"), "pending_deletes")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestEnqueueAndGetBatch(t *testing.T) {
	store := newStore(t)

	require.NoError(t, store.Enqueue(Entry{UserID: "user-1", Email: "a@example.com"}))
	require.NoError(t, store.Enqueue(Entry{UserID: "user-2", Email: "b@example.com"}))

	size, err := store.Size()
	require.NoError(t, err)
	assert.Equal(t, 2, size)

	entries, err := store.GetBatch(10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.NotEmpty(t, entries[0].ID)
	assert.False(t, entries[0].CreatedAt.IsZero())
}

func TestGetBatch_OldestFirst(t *testing.T) {
	store := newStore(t)

	now := time.Now()
	require.NoError(t, store.Enqueue(Entry{UserID: "newer", CreatedAt: now}))
	require.NoError(t, store.Enqueue(Entry{UserID: "older", CreatedAt: now.Add(-time.Hour)}))

	entries, err := store.GetBatch(10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "older", entries[0].UserID)
	assert.Equal(t, "newer", entries[1].UserID)
}

func TestGetBatch_HonorsLimit(t *testing.T) {
	store := newStore(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Enqueue(Entry{UserID: "user"}))
	}

	entries, err := store.GetBatch(3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestRemove(t *testing.T) {
	store := newStore(t)

	require.NoError(t, store.Enqueue(Entry{UserID: "user-1"}))
	entries, err := store.GetBatch(1)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	require.NoError(t, store.Remove(entries[0]))

	size, err := store.Size()
	require.NoError(t, err)
	assert.Equal(t, 0, size)
}

func TestRequeue_KeepsAttempts(t *testing.T) {
	store := newStore(t)

	require.NoError(t, store.Enqueue(Entry{UserID: "user-1"}))
	entries, err := store.GetBatch(1)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entry := entries[0]
	entry.Attempts = 2
	require.NoError(t, store.Remove(entry))
	require.NoError(t, store.Requeue(entry))

	entries, err = store.GetBatch(1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 2, entries[0].Attempts)
	assert.Equal(t, "user-1", entries[0].UserID)
}

func TestEnqueue_DistinctKeysForSameTimestamp(t *testing.T) {
	store := newStore(t)

	now := time.Now()
	require.NoError(t, store.Enqueue(Entry{UserID: "user-1", CreatedAt: now}))
	require.NoError(t, store.Enqueue(Entry{UserID: "user-2", CreatedAt: now}))

	size, err := store.Size()
	require.NoError(t, err)
	assert.Equal(t, 2, size)
}
