package testutil

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"todopro/internal/auth"
	"todopro/internal/service"
	"todopro/internal/store"
	"todopro/internal/tasks"
)

// Env wires real auth and task services over a fake gateway, an
// in-memory database, and a temp session file.
type Env struct {
	Gateway  *FakeGateway
	Sessions *store.SessionStore
	DB       *store.DB
	Auth     *auth.Service
	Tasks    *tasks.Service
	Service  *service.Service
}

// NewEnv builds a full service stack for tests. Everything is torn down
// automatically when the test finishes.
func NewEnv(t *testing.T) *Env {
	t.Helper()

	db, err := store.OpenInMemory()
	if err != nil {
		t.Fatalf("open in-memory store: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	gw := NewFakeGateway()
	sessions := store.NewSessionStore(filepath.Join(t.TempDir(), "session.json"))

	authSvc := auth.New(gw, store.NewAccountStore(db), sessions, auth.NewAuditor(gw, log), log)
	taskSvc := tasks.New(gw, store.NewTaskStore(db), authSvc, log)

	return &Env{
		Gateway:  gw,
		Sessions: sessions,
		DB:       db,
		Auth:     authSvc,
		Tasks:    taskSvc,
		Service:  &service.Service{Auth: authSvc, Tasks: taskSvc},
	}
}
