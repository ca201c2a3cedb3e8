package tasks

import (
	"encoding/json"
	"strings"
	"time"

	"todopro/internal/model"
)

// flexID decodes a task id that the remote service may send as either a
// JSON string or a number. The id space stays opaque; this only
// normalizes the wire representation to a string.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*f = ""
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

// remoteTask is the remote wire shape for a task.
type remoteTask struct {
	ID          flexID `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	CreatedAt   string `json:"created_at"`
}

// canonical maps the wire shape into the canonical Task: id as string,
// description defaulting to empty, completed defaulting to false.
func (r remoteTask) canonical() model.Task {
	task := model.Task{
		ID:          string(r.ID),
		Title:       r.Title,
		Description: r.Description,
		Completed:   r.Completed,
		Origin:      model.OriginRemote,
	}
	if r.CreatedAt != "" {
		if ts, err := time.Parse(time.RFC3339, r.CreatedAt); err == nil {
			task.CreatedAt = ts
		}
	}
	return task
}

func decodeRemoteTask(raw json.RawMessage) (model.Task, bool) {
	if len(raw) == 0 {
		return model.Task{}, false
	}
	var rt remoteTask
	if err := json.Unmarshal(raw, &rt); err != nil {
		return model.Task{}, false
	}
	return rt.canonical(), true
}

func decodeRemoteTasks(raw json.RawMessage) ([]model.Task, bool) {
	var rts []remoteTask
	if err := json.Unmarshal(raw, &rts); err != nil {
		return nil, false
	}
	tasks := make([]model.Task, 0, len(rts))
	for _, rt := range rts {
		tasks = append(tasks, rt.canonical())
	}
	return tasks, true
}
