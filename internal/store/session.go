package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"todopro/internal/model"
)

// SessionStore holds the single active session in a JSON file. The file
// is written with mode 0600, like any other stored credential.
//
// Expiry is the reader's concern: Get returns whatever is on disk and
// the auth service decides whether it still counts. Expired sessions
// are ignored on read rather than purged.
type SessionStore struct {
	mu   sync.Mutex
	path string
}

// NewSessionStore creates a session store backed by the file at path.
func NewSessionStore(path string) *SessionStore {
	return &SessionStore{path: path}
}

// Get reads the stored session. ok is false when no session is stored
// or the file cannot be parsed.
func (s *SessionStore) Get() (model.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return model.Session{}, false
	}
	var sess model.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return model.Session{}, false
	}
	return sess, true
}

// Save persists the session, replacing any previous one.
func (s *SessionStore) Save(sess model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Clear removes the stored session. Clearing an absent session is not
// an error.
func (s *SessionStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Token resolves the stored bearer token for the gateway. A missing or
// tokenless session reports ok=false.
func (s *SessionStore) Token() (string, bool) {
	sess, ok := s.Get()
	if !ok || sess.Token == "" {
		return "", false
	}
	return sess.Token, true
}
