// Package service defines the operations the CLI drives: the auth
// state machine and the fallback-aware task layer. Commands never talk
// to the gateway or the stores directly.
package service

import (
	"context"

	"todopro/internal/model"
)

// Auth is the signup/signin/signout surface.
type Auth interface {
	// SignUp registers an account and establishes a session. Falls back
	// to the local account store when the remote service fails.
	SignUp(ctx context.Context, email, password, name string) (model.Session, error)

	// SignIn authenticates and establishes a session, with the same
	// fallback. Unknown email and wrong password are indistinguishable.
	SignIn(ctx context.Context, email, password string) (model.Session, error)

	// Session returns the active session unless it is absent or expired.
	Session() (model.Session, bool)

	// SignOut clears the session after a best-effort audit event.
	SignOut(ctx context.Context) error

	// UpdateProfile changes the current user's name. Remote only.
	UpdateProfile(ctx context.Context, name string) (model.User, error)
}

// Tasks is the task CRUD surface, scoped to the current session's user
// (or the default partition when unauthenticated).
type Tasks interface {
	List(ctx context.Context) ([]model.Task, error)
	Create(ctx context.Context, title, description string) (model.Task, error)
	Update(ctx context.Context, id, title, description string) (model.Task, error)
	ToggleComplete(ctx context.Context, id string, completed bool) (model.Task, error)
	Delete(ctx context.Context, id string) error
}

// Service bundles the two surfaces plus the resources behind them.
type Service struct {
	Auth  Auth
	Tasks Tasks

	closers []func() error
}

// AddCloser registers a cleanup function run by Close.
func (s *Service) AddCloser(fn func() error) {
	s.closers = append(s.closers, fn)
}

// Close releases underlying resources (the local database).
func (s *Service) Close() error {
	var first error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}
