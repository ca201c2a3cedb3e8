package tasks_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todopro/internal/api"
	"todopro/internal/model"
	"todopro/internal/store"
	"todopro/internal/tasks"
	"todopro/internal/testutil"
)

func signUp(t *testing.T, env *testutil.Env, email string) model.Session {
	t.Helper()
	sess, err := env.Auth.SignUp(context.Background(), email, "password123", "")
	require.NoError(t, err)
	return sess
}

// localTasks reads a partition directly, bypassing the service.
func localTasks(t *testing.T, env *testutil.Env, partition string) []model.Task {
	t.Helper()
	got, err := store.NewTaskStore(env.DB).List(partition)
	require.NoError(t, err)
	return got
}

func TestAnonymousCreateAndList(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()

	task, err := env.Tasks.Create(ctx, "Buy milk", "2 liters")
	require.NoError(t, err)
	assert.NotEmpty(t, task.ID)
	assert.Equal(t, model.OriginLocal, task.Origin)
	assert.False(t, task.Completed)

	list, err := env.Tasks.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Buy milk", list[0].Title)
	assert.Equal(t, "2 liters", list[0].Description)

	// Anonymous tasks land in the default partition only.
	assert.Len(t, localTasks(t, env, store.DefaultPartition), 1)
}

func TestCreateValidatesBeforeAnyStoreAccess(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()

	tests := []struct {
		name        string
		title       string
		description string
		message     string
	}{
		{"empty title", "", "", tasks.MsgTitleRequired},
		{"whitespace title", "   ", "", tasks.MsgTitleRequired},
		{"title too long", strings.Repeat("x", tasks.MaxTitleLen+1), "", tasks.MsgTitleTooLong},
		{"multibyte title too long", strings.Repeat("€", tasks.MaxTitleLen+1), "", tasks.MsgTitleTooLong},
		{"description too long", "ok", strings.Repeat("x", tasks.MaxDescriptionLen+1), tasks.MsgDescTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.Tasks.Create(ctx, tt.title, tt.description)
			require.Error(t, err)
			assert.True(t, api.IsValidation(err))
			assert.Equal(t, tt.message, err.Error())
		})
	}

	assert.Empty(t, localTasks(t, env, store.DefaultPartition))
}

func TestCreateCountsCharactersNotBytes(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()

	// 150 characters but 450 bytes; the limit is per character.
	title := strings.Repeat("€", 150)
	task, err := env.Tasks.Create(ctx, title, strings.Repeat("€", tasks.MaxDescriptionLen))
	require.NoError(t, err)
	assert.Equal(t, title, task.Title)

	atLimit := strings.Repeat("€", tasks.MaxTitleLen)
	_, err = env.Tasks.Create(ctx, atLimit, "")
	require.NoError(t, err)
}

func TestCreateRemoteWhenSignedIn(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	sess := signUp(t, env, "alice@example.com")

	task, err := env.Tasks.Create(ctx, "Buy milk", "")
	require.NoError(t, err)
	assert.Equal(t, model.OriginRemote, task.Origin)
	assert.NotEmpty(t, task.ID)

	assert.Equal(t, []string{"Buy milk"}, env.Gateway.TaskTitles(sess.User.ID))
	assert.Empty(t, localTasks(t, env, sess.User.ID))
}

func TestCreateFallsBackWhenRemoteDown(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	sess := signUp(t, env, "bob@example.com")
	env.Gateway.Down = true

	task, err := env.Tasks.Create(ctx, "Buy milk", "")
	require.NoError(t, err)
	assert.Equal(t, model.OriginLocal, task.Origin)

	// The task exists in exactly one store: the user's local partition.
	assert.Empty(t, env.Gateway.TaskTitles(sess.User.ID))
	got := localTasks(t, env, sess.User.ID)
	require.Len(t, got, 1)
	assert.Equal(t, "Buy milk", got[0].Title)
}

func TestCreateFallsBackWhenResponseOmitsID(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	sess := signUp(t, env, "carol@example.com")
	env.Gateway.OmitTaskID = true

	task, err := env.Tasks.Create(ctx, "Buy milk", "")
	require.NoError(t, err)
	assert.NotEmpty(t, task.ID)
	assert.Equal(t, model.OriginLocal, task.Origin)
	assert.Len(t, localTasks(t, env, sess.User.ID), 1)
}

func TestUpdateRemote(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	sess := signUp(t, env, "dave@example.com")
	id := env.Gateway.SeedTask(sess.User.ID, "Old title", "old")

	_, err := env.Tasks.List(ctx)
	require.NoError(t, err)

	task, err := env.Tasks.Update(ctx, id, "New title", "new")
	require.NoError(t, err)
	assert.Equal(t, "New title", task.Title)
	assert.Equal(t, model.OriginRemote, task.Origin)

	assert.Equal(t, []string{"New title"}, env.Gateway.TaskTitles(sess.User.ID))
}

func TestUpdateRoutesLocalOriginToLocalStore(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	sess := signUp(t, env, "erin@example.com")

	// Created while offline: the task lives only in the local partition.
	env.Gateway.Down = true
	task, err := env.Tasks.Create(ctx, "Offline task", "")
	require.NoError(t, err)

	// Back online, the recorded origin still routes this id locally.
	env.Gateway.Down = false
	updated, err := env.Tasks.Update(ctx, task.ID, "Edited offline task", "")
	require.NoError(t, err)
	assert.Equal(t, "Edited offline task", updated.Title)

	assert.Empty(t, env.Gateway.TaskTitles(sess.User.ID))
	got := localTasks(t, env, sess.User.ID)
	require.Len(t, got, 1)
	assert.Equal(t, "Edited offline task", got[0].Title)
}

func TestUpdateMissingLocallyIsSurfaced(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	signUp(t, env, "frank@example.com")
	env.Gateway.Down = true

	_, err := env.Tasks.Update(ctx, "no-such-id", "Title", "")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestToggleCompleteLocalRoundtrip(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()

	task, err := env.Tasks.Create(ctx, "Buy milk", "")
	require.NoError(t, err)

	done, err := env.Tasks.ToggleComplete(ctx, task.ID, true)
	require.NoError(t, err)
	assert.True(t, done.Completed)

	undone, err := env.Tasks.ToggleComplete(ctx, task.ID, false)
	require.NoError(t, err)
	assert.False(t, undone.Completed)

	list, err := env.Tasks.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.False(t, list[0].Completed)
}

func TestToggleCompleteRemote(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	sess := signUp(t, env, "grace@example.com")
	id := env.Gateway.SeedTask(sess.User.ID, "Buy milk", "")

	_, err := env.Tasks.List(ctx)
	require.NoError(t, err)

	task, err := env.Tasks.ToggleComplete(ctx, id, true)
	require.NoError(t, err)
	assert.True(t, task.Completed)

	list, err := env.Tasks.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Completed)
}

func TestDeleteLocal(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()

	task, err := env.Tasks.Create(ctx, "Buy milk", "")
	require.NoError(t, err)

	require.NoError(t, env.Tasks.Delete(ctx, task.ID))

	list, err := env.Tasks.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	// Deletion is idempotent.
	require.NoError(t, env.Tasks.Delete(ctx, task.ID))
}

func TestDeleteRemote(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	sess := signUp(t, env, "heidi@example.com")
	id := env.Gateway.SeedTask(sess.User.ID, "Buy milk", "")

	_, err := env.Tasks.List(ctx)
	require.NoError(t, err)

	require.NoError(t, env.Tasks.Delete(ctx, id))
	assert.Empty(t, env.Gateway.TaskTitles(sess.User.ID))

	list, err := env.Tasks.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestListFallsBackWhenRemoteDown(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	sess := signUp(t, env, "ivan@example.com")
	env.Gateway.SeedTask(sess.User.ID, "Remote only", "")

	env.Gateway.Down = true
	list, err := env.Tasks.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestPartitionIsolationAcrossSessions(t *testing.T) {
	env := testutil.NewEnv(t)
	env.Gateway.Down = true
	ctx := context.Background()

	signUp(t, env, "alice@example.com")
	_, err := env.Tasks.Create(ctx, "Alice's task", "")
	require.NoError(t, err)
	require.NoError(t, env.Auth.SignOut(ctx))

	// Anonymous callers see only the default partition.
	list, err := env.Tasks.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	signUp(t, env, "bob@example.com")
	list, err = env.Tasks.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
	_, err = env.Tasks.Create(ctx, "Bob's task", "")
	require.NoError(t, err)
	require.NoError(t, env.Auth.SignOut(ctx))

	// Alice's partition survives the signout/signin cycle.
	_, err = env.Auth.SignIn(ctx, "alice@example.com", "password123")
	require.NoError(t, err)
	list, err = env.Tasks.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Alice's task", list[0].Title)
}
