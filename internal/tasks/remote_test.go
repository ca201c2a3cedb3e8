package tasks

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todopro/internal/model"
)

func TestDecodeRemoteTaskStringID(t *testing.T) {
	task, ok := decodeRemoteTask(json.RawMessage(`{"id":"abc","title":"Buy milk","completed":true,"created_at":"2026-01-02T03:04:05Z"}`))
	require.True(t, ok)
	assert.Equal(t, "abc", task.ID)
	assert.Equal(t, "Buy milk", task.Title)
	assert.True(t, task.Completed)
	assert.Equal(t, model.OriginRemote, task.Origin)
	assert.Equal(t, 2026, task.CreatedAt.Year())
}

func TestDecodeRemoteTaskNumericID(t *testing.T) {
	task, ok := decodeRemoteTask(json.RawMessage(`{"id":42,"title":"x"}`))
	require.True(t, ok)
	assert.Equal(t, "42", task.ID)
}

func TestDecodeRemoteTaskNullID(t *testing.T) {
	task, ok := decodeRemoteTask(json.RawMessage(`{"id":null,"title":"x"}`))
	require.True(t, ok)
	assert.Empty(t, task.ID)
}

func TestDecodeRemoteTaskMalformed(t *testing.T) {
	_, ok := decodeRemoteTask(json.RawMessage(`"not-an-object"`))
	assert.False(t, ok)

	_, ok = decodeRemoteTask(nil)
	assert.False(t, ok)
}

func TestDecodeRemoteTasks(t *testing.T) {
	tasks, ok := decodeRemoteTasks(json.RawMessage(`[{"id":1,"title":"a"},{"id":"2","title":"b"}]`))
	require.True(t, ok)
	require.Len(t, tasks, 2)
	assert.Equal(t, "1", tasks[0].ID)
	assert.Equal(t, "2", tasks[1].ID)

	_, ok = decodeRemoteTasks(json.RawMessage(`{"not":"a list"}`))
	assert.False(t, ok)
}
