package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/identigo/backend/domain"
	"github.com/identigo/backend/internal/infrastructure/journal"
	"github.com/identigo/backend/repository/memory"
)

type stubHealth struct{ online bool }

func (s stubHealth) IsOnline() bool { return s.online }

type failingDeleteRepo struct {
	*memory.UserRepository
}

func (r *failingDeleteRepo) Delete(context.Context, string) error {
	return errors.New("connection reset")
}

func newTestStore(t *testing.T) *journal.Store {
	t.Helper()

	store, err := journal.Open(filepath.Join(t.TempDir(), "journal.db"), "pending_deletes")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestDrain_DeletesPendingUsers(t *testing.T) {
	store := newTestStore(t)
	users := memory.NewUserRepository()
	require.NoError(t, users.Create(context.Background(), &domain.User{ID: "user-1", Email: "a@example.com"}))

	jp := NewJournalProcessor(store, stubHealth{online: true}, users, nil, ProcessorConfig{Interval: time.Minute})
	require.NoError(t, jp.Record(journal.Entry{UserID: "user-1", Email: "a@example.com"}))

	require.NoError(t, jp.Drain(context.Background()))

	assert.Equal(t, 0, users.Count())
	assert.Equal(t, 0, jp.Size())
}

func TestDrain_MissingRowCountsAsSuccess(t *testing.T) {
	store := newTestStore(t)
	jp := NewJournalProcessor(store, stubHealth{online: true}, memory.NewUserRepository(), nil, ProcessorConfig{Interval: time.Minute})
	require.NoError(t, jp.Record(journal.Entry{UserID: "already-gone"}))

	require.NoError(t, jp.Drain(context.Background()))

	assert.Equal(t, 0, jp.Size())
}

func TestDrain_SkipsWhileOffline(t *testing.T) {
	store := newTestStore(t)
	users := memory.NewUserRepository()
	require.NoError(t, users.Create(context.Background(), &domain.User{ID: "user-1", Email: "a@example.com"}))

	jp := NewJournalProcessor(store, stubHealth{online: false}, users, nil, ProcessorConfig{Interval: time.Minute})
	require.NoError(t, jp.Record(journal.Entry{UserID: "user-1"}))

	require.NoError(t, jp.Drain(context.Background()))

	assert.Equal(t, 1, users.Count())
	assert.Equal(t, 1, jp.Size())
}

func TestDrain_RequeuesFailureUntilBudgetExhausted(t *testing.T) {
	store := newTestStore(t)
	users := &failingDeleteRepo{memory.NewUserRepository()}
	jp := NewJournalProcessor(store, stubHealth{online: true}, users, nil, ProcessorConfig{
		Interval:   time.Minute,
		MaxRetries: 3,
	})
	require.NoError(t, jp.Record(journal.Entry{UserID: "user-1"}))

	for i := 0; i < 2; i++ {
		require.NoError(t, jp.Drain(context.Background()))
		assert.Equal(t, 1, jp.Size())
	}

	// third failed attempt reaches the budget and drops the entry
	require.NoError(t, jp.Drain(context.Background()))
	assert.Equal(t, 0, jp.Size())
}

func TestJournalBridge_RecordsUser(t *testing.T) {
	store := newTestStore(t)
	jp := NewJournalProcessor(store, stubHealth{online: true}, memory.NewUserRepository(), nil, ProcessorConfig{Interval: time.Minute})
	bridge := NewJournalBridge(jp)

	require.NoError(t, bridge.RecordDelete(context.Background(), &domain.User{ID: "user-1", Email: "a@example.com"}))

	assert.Equal(t, 1, jp.Size())

	entries, err := store.GetBatch(1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "user-1", entries[0].UserID)
	assert.Equal(t, "a@example.com", entries[0].Email)
}
