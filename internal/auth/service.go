// Package auth orchestrates signup, signin, and signout. Every
// operation tries the remote service first and falls back to the local
// account and session stores when the remote attempt fails, so the
// application stays usable without connectivity.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"todopro/internal/api"
	"todopro/internal/model"
	"todopro/internal/store"
)

// SessionTTL is the validity window for locally synthesized sessions.
const SessionTTL = 24 * time.Hour

// MinPasswordLen is the minimum accepted password length on signup.
const MinPasswordLen = 8

// User-facing auth failure messages. The signin message is identical
// for unknown emails and wrong passwords so accounts cannot be
// enumerated.
const (
	MsgEmailRegistered    = "email already registered"
	MsgInvalidCredentials = "Invalid email or password"
	MsgCredsRequired      = "Email and password are required"
	MsgPasswordTooShort   = "Password must be at least 8 characters"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Gateway is the remote call surface the auth service needs.
type Gateway interface {
	Post(ctx context.Context, endpoint string, body any, opts api.Options) (json.RawMessage, error)
	Patch(ctx context.Context, endpoint string, body any, opts api.Options) (json.RawMessage, error)
}

// Service is the auth state machine: Anonymous or Authenticated with
// the single active session held in the session store.
type Service struct {
	gw       Gateway
	accounts *store.AccountStore
	sessions *store.SessionStore
	audit    *Auditor
	log      *slog.Logger

	now   func() time.Time
	newID func() string
}

// New creates an auth service. audit may be nil to disable audit events.
func New(gw Gateway, accounts *store.AccountStore, sessions *store.SessionStore, audit *Auditor, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		gw:       gw,
		accounts: accounts,
		sessions: sessions,
		audit:    audit,
		log:      log,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// sessionResponse is the remote shape for signin/signup. Token and
// expiry are optional; absent values are synthesized.
type sessionResponse struct {
	User      model.User `json:"user"`
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expiresAt"`
}

// SignUp registers a new account and establishes a session. Validation
// failures are reported before any network or store access. On any
// remote failure the account is created in the local fallback store
// unless the email is already registered there.
func (s *Service) SignUp(ctx context.Context, email, password, name string) (model.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return model.Session{}, api.NewValidationError(MsgCredsRequired)
	}
	if utf8.RuneCountInString(password) < MinPasswordLen {
		return model.Session{}, api.NewValidationError(MsgPasswordTooShort)
	}

	payload := map[string]string{"email": email, "password": password}
	if name != "" {
		payload["name"] = name
	}
	raw, err := s.gw.Post(ctx, api.SignupEndpoint, payload, api.Options{IncludeToken: false})
	if err == nil {
		if sess, ok := s.decodeSession(raw); ok {
			if err := s.sessions.Save(sess); err != nil {
				return model.Session{}, err
			}
			s.audit.Record(ctx, model.ActionSignup, sess.User.ID, email)
			return sess, nil
		}
		err = errors.New("signup response missing user")
	}
	s.log.Debug("remote signup unavailable, using local fallback", "email", email, "err", err)

	return s.localSignUp(ctx, email, password, name)
}

func (s *Service) localSignUp(ctx context.Context, email, password, name string) (model.Session, error) {
	if _, err := s.accounts.Get(email); err == nil {
		return model.Session{}, api.NewValidationError(MsgEmailRegistered)
	} else if !errors.Is(err, store.ErrNotFound) {
		return model.Session{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return model.Session{}, err
	}
	if name == "" {
		name = nameFromEmail(email)
	}
	userID := s.newID()
	cred := model.Credential{Email: email, PasswordHash: string(hash), Name: name, UserID: userID}
	if err := s.accounts.Create(cred); err != nil {
		if errors.Is(err, store.ErrExists) {
			return model.Session{}, api.NewValidationError(MsgEmailRegistered)
		}
		return model.Session{}, err
	}

	sess := s.synthesizeSession(userID, email, name)
	if err := s.sessions.Save(sess); err != nil {
		return model.Session{}, err
	}
	s.audit.Record(ctx, model.ActionSignup, sess.User.ID, email)
	return sess, nil
}

// SignIn authenticates against the remote service, falling back to the
// local account store. The failure message never distinguishes an
// unknown email from a wrong password.
func (s *Service) SignIn(ctx context.Context, email, password string) (model.Session, error) {
	email = strings.TrimSpace(email)
	if !emailPattern.MatchString(email) || password == "" {
		return model.Session{}, api.NewValidationError(api.MsgValidation)
	}

	payload := map[string]string{"email": email, "password": password}
	raw, err := s.gw.Post(ctx, api.SigninEndpoint, payload, api.Options{IncludeToken: false})
	if err == nil {
		if sess, ok := s.decodeSession(raw); ok {
			if err := s.sessions.Save(sess); err != nil {
				return model.Session{}, err
			}
			s.audit.Record(ctx, model.ActionSignin, sess.User.ID, email)
			return sess, nil
		}
		err = errors.New("signin response missing user")
	}
	s.log.Debug("remote signin unavailable, using local fallback", "email", email, "err", err)

	return s.localSignIn(ctx, email, password)
}

func (s *Service) localSignIn(ctx context.Context, email, password string) (model.Session, error) {
	cred, err := s.accounts.Get(email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.Session{}, api.NewValidationError(MsgInvalidCredentials)
		}
		return model.Session{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)) != nil {
		return model.Session{}, api.NewValidationError(MsgInvalidCredentials)
	}

	userID := cred.UserID
	if userID == "" {
		userID = s.newID()
	}
	sess := s.synthesizeSession(userID, email, cred.Name)
	if err := s.sessions.Save(sess); err != nil {
		return model.Session{}, err
	}
	s.audit.Record(ctx, model.ActionSignin, sess.User.ID, email)
	return sess, nil
}

// Session returns the active session if one exists and has not expired.
// Expired sessions are ignored, not purged.
func (s *Service) Session() (model.Session, bool) {
	sess, ok := s.sessions.Get()
	if !ok || !sess.Valid(s.now()) {
		return model.Session{}, false
	}
	return sess, true
}

// SignOut records a best-effort signout event for the current session
// and then clears the session store unconditionally.
func (s *Service) SignOut(ctx context.Context) error {
	if sess, ok := s.Session(); ok {
		s.audit.Record(ctx, model.ActionSignout, sess.User.ID, sess.User.Email)
	}
	return s.sessions.Clear()
}

// UpdateProfile changes the authenticated user's name via the remote
// service and re-persists the session with the updated user. There is
// no local fallback for profile updates.
func (s *Service) UpdateProfile(ctx context.Context, name string) (model.User, error) {
	sess, ok := s.Session()
	if !ok {
		return model.User{}, &api.Error{Kind: api.KindUnauthenticated, Message: api.MsgUnauthenticated}
	}
	raw, err := s.gw.Patch(ctx, api.ProfileEndpoint, map[string]string{"name": name}, api.Options{IncludeToken: true})
	if err != nil {
		return model.User{}, err
	}
	var user model.User
	if err := json.Unmarshal(raw, &user); err != nil || user.ID == "" {
		// Tolerate a sparse response; the name change is what matters.
		user = sess.User
		user.Name = name
	}
	sess.User = user
	if err := s.sessions.Save(sess); err != nil {
		return model.User{}, err
	}
	return user, nil
}

// decodeSession normalizes a remote signin/signup response. A missing
// token or expiry is synthesized; a missing user fails the decode.
func (s *Service) decodeSession(raw json.RawMessage) (model.Session, bool) {
	var resp sessionResponse
	if err := json.Unmarshal(raw, &resp); err != nil || resp.User.ID == "" {
		return model.Session{}, false
	}
	sess := model.Session{User: resp.User, Token: resp.Token, ExpiresAt: resp.ExpiresAt}
	if sess.Token == "" {
		sess.Token = "token-" + s.newID()
	}
	if sess.ExpiresAt.IsZero() {
		sess.ExpiresAt = s.now().Add(SessionTTL)
	}
	return sess, true
}

// synthesizeSession builds a local session with a random token and the
// fixed validity window.
func (s *Service) synthesizeSession(userID, email, name string) model.Session {
	if name == "" {
		name = nameFromEmail(email)
	}
	user := model.User{
		ID:        userID,
		Email:     email,
		Name:      name,
		CreatedAt: s.now(),
	}
	return model.Session{
		User:      user,
		Token:     "local-" + s.newID(),
		ExpiresAt: s.now().Add(SessionTTL),
	}
}

func nameFromEmail(email string) string {
	if i := strings.Index(email, "@"); i > 0 {
		return email[:i]
	}
	return email
}
