// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"todopro/internal/api"
	"todopro/internal/model"
)

// AuditEvent is a recorded auth log entry.
type AuditEvent struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Action string `json:"action"`
}

type fakeUser struct {
	ID       string
	Email    string
	Name     string
	Password string
}

type fakeTask struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	CreatedAt   string `json:"created_at"`
}

// FakeGateway is an in-memory stand-in for the remote task service. It
// serves the same endpoints and returns the same wire shapes, with
// switches to simulate outages and malformed responses.
type FakeGateway struct {
	mu    sync.Mutex
	users map[string]fakeUser   // email -> account
	tasks map[string][]fakeTask // userID -> tasks
	next  int

	// Audits records every auth log event received.
	Audits []AuditEvent

	// Down makes every call fail with a network error.
	Down bool

	// FailWith, when set, is returned verbatim by every call.
	FailWith error

	// OmitTaskID drops the id from task create responses.
	OmitTaskID bool
}

// NewFakeGateway creates an empty fake remote service.
func NewFakeGateway() *FakeGateway {
	return &FakeGateway{
		users: make(map[string]fakeUser),
		tasks: make(map[string][]fakeTask),
	}
}

// SeedUser registers an account directly and returns its user id.
func (f *FakeGateway) SeedUser(email, password, name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID("user")
	f.users[email] = fakeUser{ID: id, Email: email, Name: name, Password: password}
	return id
}

// SeedTask adds a task directly to a user's collection and returns its id.
func (f *FakeGateway) SeedTask(userID, title, description string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID("task")
	f.tasks[userID] = append(f.tasks[userID], fakeTask{
		ID:          id,
		Title:       title,
		Description: description,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	})
	return id
}

// TaskTitles returns the titles currently stored for a user, in order.
func (f *FakeGateway) TaskTitles(userID string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var titles []string
	for _, t := range f.tasks[userID] {
		titles = append(titles, t.Title)
	}
	return titles
}

func (f *FakeGateway) nextID(prefix string) string {
	f.next++
	return fmt.Sprintf("%s-%d", prefix, f.next)
}

func (f *FakeGateway) callErr() error {
	if f.FailWith != nil {
		return f.FailWith
	}
	if f.Down {
		return &api.Error{Kind: api.KindNetwork, Message: api.MsgNetworkError}
	}
	return nil
}

// Get implements the gateway surface.
func (f *FakeGateway) Get(ctx context.Context, endpoint string, opts api.Options) (json.RawMessage, error) {
	if err := f.callErr(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if userID, ok := splitTasksPath(endpoint); ok {
		tasks := f.tasks[userID]
		if tasks == nil {
			tasks = []fakeTask{}
		}
		return marshal(tasks), nil
	}
	return nil, notFound()
}

// Post implements the gateway surface.
func (f *FakeGateway) Post(ctx context.Context, endpoint string, body any, opts api.Options) (json.RawMessage, error) {
	if err := f.callErr(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	switch endpoint {
	case api.SignupEndpoint:
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
			Name     string `json:"name"`
		}
		decodeBody(body, &req)
		if _, exists := f.users[req.Email]; exists {
			return nil, &api.Error{Kind: api.KindValidation, Status: 400, Message: "email already registered"}
		}
		u := fakeUser{ID: f.nextID("user"), Email: req.Email, Name: req.Name, Password: req.Password}
		f.users[req.Email] = u
		return f.sessionJSON(u), nil

	case api.SigninEndpoint:
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		decodeBody(body, &req)
		u, ok := f.users[req.Email]
		if !ok || u.Password != req.Password {
			return nil, &api.Error{Kind: api.KindValidation, Status: 400, Message: "Invalid email or password"}
		}
		return f.sessionJSON(u), nil

	case api.AuthLogEndpoint:
		var ev AuditEvent
		decodeBody(body, &ev)
		f.Audits = append(f.Audits, ev)
		return nil, nil
	}

	if userID, ok := splitTasksPath(endpoint); ok {
		var req struct {
			Title       string `json:"title"`
			Description string `json:"description"`
		}
		decodeBody(body, &req)
		t := fakeTask{
			ID:          f.nextID("task"),
			Title:       req.Title,
			Description: req.Description,
			CreatedAt:   time.Now().UTC().Format(time.RFC3339),
		}
		f.tasks[userID] = append(f.tasks[userID], t)
		if f.OmitTaskID {
			t.ID = ""
		}
		return marshal(t), nil
	}
	return nil, notFound()
}

// Put implements the gateway surface.
func (f *FakeGateway) Put(ctx context.Context, endpoint string, body any, opts api.Options) (json.RawMessage, error) {
	if err := f.callErr(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	userID, taskID, ok := splitTaskPath(endpoint)
	if !ok {
		return nil, notFound()
	}
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	decodeBody(body, &req)
	for i, t := range f.tasks[userID] {
		if t.ID == taskID {
			f.tasks[userID][i].Title = req.Title
			f.tasks[userID][i].Description = req.Description
			return marshal(f.tasks[userID][i]), nil
		}
	}
	return nil, notFound()
}

// Patch implements the gateway surface.
func (f *FakeGateway) Patch(ctx context.Context, endpoint string, body any, opts api.Options) (json.RawMessage, error) {
	if err := f.callErr(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if endpoint == api.ProfileEndpoint {
		var req struct {
			Name string `json:"name"`
		}
		decodeBody(body, &req)
		// Single-user fakes are enough here; update every account.
		for email, u := range f.users {
			u.Name = req.Name
			f.users[email] = u
			return marshal(model.User{ID: u.ID, Email: u.Email, Name: u.Name}), nil
		}
		return nil, notFound()
	}

	userID, taskID, ok := splitTaskCompletePath(endpoint)
	if !ok {
		return nil, notFound()
	}
	for i, t := range f.tasks[userID] {
		if t.ID == taskID {
			f.tasks[userID][i].Completed = !t.Completed
			return marshal(f.tasks[userID][i]), nil
		}
	}
	return nil, notFound()
}

// Delete implements the gateway surface. Deleting an absent task is a
// silent no-op, matching the remote service.
func (f *FakeGateway) Delete(ctx context.Context, endpoint string, opts api.Options) (json.RawMessage, error) {
	if err := f.callErr(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	userID, taskID, ok := splitTaskPath(endpoint)
	if !ok {
		return nil, notFound()
	}
	tasks := f.tasks[userID]
	for i, t := range tasks {
		if t.ID == taskID {
			f.tasks[userID] = append(tasks[:i], tasks[i+1:]...)
			break
		}
	}
	return nil, nil
}

func (f *FakeGateway) sessionJSON(u fakeUser) json.RawMessage {
	resp := map[string]any{
		"user": model.User{ID: u.ID, Email: u.Email, Name: u.Name},
	}
	resp["token"] = "remote-" + u.ID
	return marshal(resp)
}

func notFound() *api.Error {
	return &api.Error{Kind: api.KindNotFound, Status: 404, Message: api.MsgNotFound}
}

func marshal(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}

func decodeBody(body, into any) {
	data, err := json.Marshal(body)
	if err != nil {
		return
	}
	_ = json.Unmarshal(data, into)
}

// splitTasksPath matches /{userID}/tasks.
func splitTasksPath(endpoint string) (string, bool) {
	parts := pathParts(endpoint)
	if len(parts) == 2 && parts[1] == "tasks" {
		return parts[0], true
	}
	return "", false
}

// splitTaskPath matches /{userID}/tasks/{taskID}.
func splitTaskPath(endpoint string) (string, string, bool) {
	parts := pathParts(endpoint)
	if len(parts) == 3 && parts[1] == "tasks" {
		return parts[0], parts[2], true
	}
	return "", "", false
}

// splitTaskCompletePath matches /{userID}/tasks/{taskID}/complete.
func splitTaskCompletePath(endpoint string) (string, string, bool) {
	parts := pathParts(endpoint)
	if len(parts) == 4 && parts[1] == "tasks" && parts[3] == "complete" {
		return parts[0], parts[2], true
	}
	return "", "", false
}

func pathParts(endpoint string) []string {
	return strings.Split(strings.Trim(endpoint, "/"), "/")
}
