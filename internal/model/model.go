// Package model defines the canonical records shared by the auth and task
// services and the local stores.
package model

import "time"

// Origin records which store created a task. The remote and local id
// spaces are never merged, so routing on update/delete follows this tag
// rather than guessing from the id shape.
type Origin string

const (
	// OriginRemote marks a task created by the remote service.
	OriginRemote Origin = "remote"

	// OriginLocal marks a task created in the local store.
	OriginLocal Origin = "local"
)

// Task is a single task item. ID is opaque and stable for the task's
// lifetime; it is assigned by whichever store created the task.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
	Origin      Origin    `json:"origin,omitempty"`
}

// User is an authenticated identity. Email is the unique, case-sensitive
// key; only Name changes after creation (via profile update).
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Session is the single active authenticated identity plus its expiry.
// The token is an opaque string used to gate authenticated calls.
type Session struct {
	User      User      `json:"user"`
	Token     string    `json:"token,omitempty"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Valid reports whether the session has not expired at the given time.
// An expired or zero session is equivalent to "unauthenticated".
func (s Session) Valid(now time.Time) bool {
	return s.ExpiresAt.After(now)
}

// Credential is a local-fallback account record, used only when the
// remote service is unreachable. One record per email. UserID is the
// id assigned at local signup so the user's task partition survives
// repeated local signins.
type Credential struct {
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
	Name         string `json:"name,omitempty"`
	UserID       string `json:"userId"`
}

// AuthAction is the kind of an audit event.
type AuthAction string

const (
	ActionSignup  AuthAction = "signup"
	ActionSignin  AuthAction = "signin"
	ActionSignout AuthAction = "signout"
)
