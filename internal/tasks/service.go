// Package tasks orchestrates task CRUD over the remote service with a
// local-store fallback. Each operation resolves the current user once,
// tries the remote gateway when a session exists, and otherwise (or on
// any remote failure) works against the local partition for that user.
// Exactly one store acts per operation; there is no reconciliation
// between the two afterwards.
package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"todopro/internal/api"
	"todopro/internal/model"
	"todopro/internal/store"
)

// Field limits enforced before any store or network access.
const (
	MaxTitleLen       = 200
	MaxDescriptionLen = 1000
)

// Validation messages.
const (
	MsgTitleRequired = "Title is required"
	MsgTitleTooLong  = "Title must be at most 200 characters"
	MsgDescTooLong   = "Description must be at most 1000 characters"
)

// Gateway is the remote call surface the task service needs.
type Gateway interface {
	Get(ctx context.Context, endpoint string, opts api.Options) (json.RawMessage, error)
	Post(ctx context.Context, endpoint string, body any, opts api.Options) (json.RawMessage, error)
	Put(ctx context.Context, endpoint string, body any, opts api.Options) (json.RawMessage, error)
	Patch(ctx context.Context, endpoint string, body any, opts api.Options) (json.RawMessage, error)
	Delete(ctx context.Context, endpoint string, opts api.Options) (json.RawMessage, error)
}

// SessionSource resolves the current session. No session means the
// unauthenticated, local-only path, never an error.
type SessionSource interface {
	Session() (model.Session, bool)
}

// Service is the fallback-aware task layer. It keeps an in-memory view
// of the last listed tasks so mutations can be reconciled for the
// caller and so update/delete can route by a task's recorded origin
// instead of guessing from the id shape.
type Service struct {
	gw    Gateway
	store *store.TaskStore
	auth  SessionSource
	log   *slog.Logger

	now   func() time.Time
	newID func() string

	mu   sync.Mutex
	view []model.Task
}

// New creates a task service.
func New(gw Gateway, st *store.TaskStore, auth SessionSource, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		gw:    gw,
		store: st,
		auth:  auth,
		log:   log,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// partition returns the storage partition and session for the current
// caller: the session's user id, or the default partition when
// unauthenticated.
func (s *Service) partition() (string, model.Session, bool) {
	sess, ok := s.auth.Session()
	if !ok {
		return store.DefaultPartition, model.Session{}, false
	}
	return sess.User.ID, sess, true
}

// List returns the current user's tasks: from the remote service when a
// session exists and the call succeeds, else from the local partition.
// The result replaces the in-memory view. Callers derive any counts
// from the returned slice.
func (s *Service) List(ctx context.Context) ([]model.Task, error) {
	partition, sess, authed := s.partition()

	if authed {
		raw, err := s.gw.Get(ctx, api.TasksEndpoint(sess.User.ID), api.Options{IncludeToken: true})
		if err == nil {
			if tasks, ok := decodeRemoteTasks(raw); ok {
				s.setView(tasks)
				return s.viewCopy(), nil
			}
			err = fmt.Errorf("malformed task list response")
		}
		s.log.Debug("remote list unavailable, using local store", "partition", partition, "err", err)
	}

	tasks, err := s.store.List(partition)
	if err != nil {
		return nil, err
	}
	s.setView(tasks)
	return s.viewCopy(), nil
}

// Create validates the fields, then creates the task remotely when a
// session exists, falling back to the local partition. A remote
// response without an id is treated as a failure. Exactly one of the
// two stores ends up holding the new task.
func (s *Service) Create(ctx context.Context, title, description string) (model.Task, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if err := validateFields(title, description); err != nil {
		return model.Task{}, err
	}

	partition, sess, authed := s.partition()

	if authed {
		payload := map[string]string{
			"title":       title,
			"description": description,
			"user_id":     sess.User.ID,
		}
		raw, err := s.gw.Post(ctx, api.TasksEndpoint(sess.User.ID), payload, api.Options{IncludeToken: true})
		if err == nil {
			if task, ok := decodeRemoteTask(raw); ok && task.ID != "" {
				s.appendView(task)
				return task, nil
			}
			err = fmt.Errorf("create response missing task id")
		}
		s.log.Debug("remote create unavailable, using local store", "partition", partition, "err", err)
	}

	now := s.now()
	task := model.Task{
		ID:          s.newID(),
		Title:       title,
		Description: description,
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
		Origin:      model.OriginLocal,
	}
	if err := s.store.Add(partition, task); err != nil {
		return model.Task{}, err
	}
	s.appendView(task)
	return task, nil
}

// Update replaces the task's title and description. A task recorded as
// local-origin goes straight to the local store; otherwise the remote
// service is tried first with the local partition as fallback. Absence
// from the fallback store is surfaced.
func (s *Service) Update(ctx context.Context, id, title, description string) (model.Task, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if err := validateFields(title, description); err != nil {
		return model.Task{}, err
	}

	partition, sess, authed := s.partition()

	if authed && s.originOf(id) != model.OriginLocal {
		payload := map[string]string{"title": title, "description": description}
		raw, err := s.gw.Put(ctx, api.TaskEndpoint(sess.User.ID, id), payload, api.Options{IncludeToken: true})
		if err == nil {
			task, ok := decodeRemoteTask(raw)
			if !ok {
				task = model.Task{ID: id, Title: title, Description: description, Origin: model.OriginRemote}
			}
			s.replaceView(task)
			return task, nil
		}
		s.log.Debug("remote update unavailable, using local store", "id", id, "err", err)
	}

	task, err := s.store.Update(partition, id, func(t *model.Task) {
		t.Title = title
		t.Description = description
		t.UpdatedAt = s.now()
	})
	if err != nil {
		return model.Task{}, err
	}
	s.replaceView(task)
	return task, nil
}

// ToggleComplete sets the task's completed flag, leaving other fields
// untouched apart from updatedAt in the local store.
func (s *Service) ToggleComplete(ctx context.Context, id string, completed bool) (model.Task, error) {
	partition, sess, authed := s.partition()

	if authed && s.originOf(id) != model.OriginLocal {
		raw, err := s.gw.Patch(ctx, api.TaskCompleteEndpoint(sess.User.ID, id), nil, api.Options{IncludeToken: true})
		if err == nil {
			task, ok := decodeRemoteTask(raw)
			if !ok {
				task = model.Task{ID: id, Completed: completed, Origin: model.OriginRemote}
			}
			task.Completed = completed
			s.setCompletedInView(id, completed)
			return task, nil
		}
		s.log.Debug("remote toggle unavailable, using local store", "id", id, "err", err)
	}

	task, err := s.store.Update(partition, id, func(t *model.Task) {
		t.Completed = completed
		t.UpdatedAt = s.now()
	})
	if err != nil {
		return model.Task{}, err
	}
	s.setCompletedInView(id, completed)
	return task, nil
}

// Delete removes the task remotely when a session exists, else (or on
// failure) from the local partition. The in-memory view drops the id
// regardless of which store acted, so the caller's list stays
// consistent even if the remote delete was silently a no-op.
func (s *Service) Delete(ctx context.Context, id string) error {
	partition, sess, authed := s.partition()
	defer s.removeFromView(id)

	if authed && s.originOf(id) != model.OriginLocal {
		_, err := s.gw.Delete(ctx, api.TaskEndpoint(sess.User.ID, id), api.Options{IncludeToken: true})
		if err == nil {
			return nil
		}
		s.log.Debug("remote delete unavailable, using local store", "id", id, "err", err)
	}

	return s.store.Delete(partition, id)
}

// originOf reports the recorded origin of id in the current view, or
// empty when the view does not know the task.
func (s *Service) originOf(id string) model.Origin {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.view {
		if t.ID == id {
			return t.Origin
		}
	}
	return ""
}

func (s *Service) setView(tasks []model.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = append(s.view[:0:0], tasks...)
}

func (s *Service) viewCopy() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Task(nil), s.view...)
}

func (s *Service) appendView(task model.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = append(s.view, task)
}

func (s *Service) replaceView(task model.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.view {
		if s.view[i].ID == task.ID {
			if task.Origin == "" {
				task.Origin = s.view[i].Origin
			}
			if task.CreatedAt.IsZero() {
				task.CreatedAt = s.view[i].CreatedAt
			}
			s.view[i] = task
			return
		}
	}
	s.view = append(s.view, task)
}

func (s *Service) setCompletedInView(id string, completed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.view {
		if s.view[i].ID == id {
			s.view[i].Completed = completed
			return
		}
	}
}

func (s *Service) removeFromView(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.view[:0]
	for _, t := range s.view {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	s.view = kept
}

// validateFields bounds the fields in characters, not bytes.
func validateFields(title, description string) error {
	if title == "" {
		return api.NewValidationError(MsgTitleRequired)
	}
	if utf8.RuneCountInString(title) > MaxTitleLen {
		return api.NewValidationError(MsgTitleTooLong)
	}
	if utf8.RuneCountInString(description) > MaxDescriptionLen {
		return api.NewValidationError(MsgDescTooLong)
	}
	return nil
}
