package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"todopro/internal/model"
)

// AccountStore keeps local-fallback credential records, one per email.
// It is consulted only when the remote service is unreachable.
type AccountStore struct {
	db *DB
}

// NewAccountStore creates an account store over db.
func NewAccountStore(db *DB) *AccountStore {
	return &AccountStore{db: db}
}

func accountKey(email string) string {
	return "account/" + email
}

// Get looks up the credential record for email.
func (s *AccountStore) Get(email string) (model.Credential, error) {
	data, err := s.db.get(accountKey(email))
	if err != nil {
		return model.Credential{}, err
	}
	var cred model.Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return model.Credential{}, fmt.Errorf("decode account %s: %w", email, err)
	}
	return cred, nil
}

// Create stores a new credential record. An existing record for the
// same email is rejected and left untouched.
func (s *AccountStore) Create(cred model.Credential) error {
	if _, err := s.Get(cred.Email); err == nil {
		return fmt.Errorf("account %s: %w", cred.Email, ErrExists)
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}
	data, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("encode account %s: %w", cred.Email, err)
	}
	return s.db.set(accountKey(cred.Email), data)
}
