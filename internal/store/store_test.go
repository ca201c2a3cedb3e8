package store_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todopro/internal/model"
	"todopro/internal/store"
)

func newDB(t *testing.T) *store.DB {
	t.Helper()
	db, err := store.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestTaskStoreAbsentPartitionIsEmpty(t *testing.T) {
	ts := store.NewTaskStore(newDB(t))

	tasks, err := ts.List("nobody")
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestTaskStoreAddAndList(t *testing.T) {
	ts := store.NewTaskStore(newDB(t))

	require.NoError(t, ts.Add("u1", model.Task{ID: "a", Title: "Buy milk"}))
	require.NoError(t, ts.Add("u1", model.Task{ID: "b", Title: "Buy eggs"}))

	tasks, err := ts.List("u1")
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "Buy milk", tasks[0].Title)
	assert.Equal(t, "Buy eggs", tasks[1].Title)
}

func TestTaskStorePartitionIsolation(t *testing.T) {
	ts := store.NewTaskStore(newDB(t))

	require.NoError(t, ts.Add("u1", model.Task{ID: "a", Title: "mine"}))
	require.NoError(t, ts.Add("u2", model.Task{ID: "b", Title: "theirs"}))
	require.NoError(t, ts.Add(store.DefaultPartition, model.Task{ID: "c", Title: "anonymous"}))

	u1, err := ts.List("u1")
	require.NoError(t, err)
	require.Len(t, u1, 1)
	assert.Equal(t, "mine", u1[0].Title)

	u2, err := ts.List("u2")
	require.NoError(t, err)
	require.Len(t, u2, 1)
	assert.Equal(t, "theirs", u2[0].Title)

	anon, err := ts.List("")
	require.NoError(t, err)
	require.Len(t, anon, 1)
	assert.Equal(t, "anonymous", anon[0].Title)
}

func TestTaskStoreReadTagsOriginLocal(t *testing.T) {
	ts := store.NewTaskStore(newDB(t))

	require.NoError(t, ts.Add("u1", model.Task{ID: "a", Title: "x"}))

	tasks, err := ts.List("u1")
	require.NoError(t, err)
	assert.Equal(t, model.OriginLocal, tasks[0].Origin)
}

func TestTaskStoreUpdatePreservesIdentity(t *testing.T) {
	ts := store.NewTaskStore(newDB(t))
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, ts.Add("u1", model.Task{ID: "a", Title: "old", CreatedAt: created}))

	got, err := ts.Update("u1", "a", func(task *model.Task) {
		task.ID = "mangled"
		task.Title = "new"
		task.CreatedAt = time.Now()
	})
	require.NoError(t, err)
	assert.Equal(t, "a", got.ID)
	assert.Equal(t, "new", got.Title)
	assert.True(t, got.CreatedAt.Equal(created))
}

func TestTaskStoreUpdateNotFound(t *testing.T) {
	ts := store.NewTaskStore(newDB(t))

	_, err := ts.Update("u1", "missing", func(task *model.Task) {})
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestTaskStoreDeleteIsIdempotent(t *testing.T) {
	ts := store.NewTaskStore(newDB(t))
	require.NoError(t, ts.Add("u1", model.Task{ID: "a", Title: "x"}))

	require.NoError(t, ts.Delete("u1", "a"))
	require.NoError(t, ts.Delete("u1", "a"))
	require.NoError(t, ts.Delete("u1", "never-existed"))

	tasks, err := ts.List("u1")
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestAccountStoreCreateAndGet(t *testing.T) {
	as := store.NewAccountStore(newDB(t))

	cred := model.Credential{Email: "a@b.com", PasswordHash: "hash", Name: "Alice", UserID: "u1"}
	require.NoError(t, as.Create(cred))

	got, err := as.Get("a@b.com")
	require.NoError(t, err)
	assert.Equal(t, cred, got)
}

func TestAccountStoreGetMissing(t *testing.T) {
	as := store.NewAccountStore(newDB(t))

	_, err := as.Get("nobody@b.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestAccountStoreCreateExistingRejected(t *testing.T) {
	as := store.NewAccountStore(newDB(t))

	first := model.Credential{Email: "a@b.com", PasswordHash: "hash1", UserID: "u1"}
	require.NoError(t, as.Create(first))

	err := as.Create(model.Credential{Email: "a@b.com", PasswordHash: "hash2", UserID: "u2"})
	require.ErrorIs(t, err, store.ErrExists)

	// Existing record stays untouched.
	got, err := as.Get("a@b.com")
	require.NoError(t, err)
	assert.Equal(t, first, got)
}
