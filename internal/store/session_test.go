package store_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todopro/internal/model"
	"todopro/internal/store"
)

func newSessionStore(t *testing.T) *store.SessionStore {
	t.Helper()
	return store.NewSessionStore(filepath.Join(t.TempDir(), "session.json"))
}

func TestSessionStoreEmpty(t *testing.T) {
	ss := newSessionStore(t)

	_, ok := ss.Get()
	assert.False(t, ok)

	_, ok = ss.Token()
	assert.False(t, ok)
}

func TestSessionStoreSaveAndGet(t *testing.T) {
	ss := newSessionStore(t)

	sess := model.Session{
		User:      model.User{ID: "u1", Email: "a@b.com", Name: "Alice"},
		Token:     "tok-1",
		ExpiresAt: time.Now().Add(time.Hour).UTC(),
	}
	require.NoError(t, ss.Save(sess))

	got, ok := ss.Get()
	require.True(t, ok)
	assert.Equal(t, sess.User, got.User)
	assert.Equal(t, "tok-1", got.Token)
	assert.True(t, got.ExpiresAt.Equal(sess.ExpiresAt))

	token, ok := ss.Token()
	require.True(t, ok)
	assert.Equal(t, "tok-1", token)
}

func TestSessionStoreSaveReplaces(t *testing.T) {
	ss := newSessionStore(t)

	require.NoError(t, ss.Save(model.Session{User: model.User{ID: "u1"}, Token: "old"}))
	require.NoError(t, ss.Save(model.Session{User: model.User{ID: "u2"}, Token: "new"}))

	got, ok := ss.Get()
	require.True(t, ok)
	assert.Equal(t, "u2", got.User.ID)
	assert.Equal(t, "new", got.Token)
}

func TestSessionStoreClear(t *testing.T) {
	ss := newSessionStore(t)

	require.NoError(t, ss.Save(model.Session{Token: "tok"}))
	require.NoError(t, ss.Clear())

	_, ok := ss.Get()
	assert.False(t, ok)

	// Clearing again is not an error.
	require.NoError(t, ss.Clear())
}
