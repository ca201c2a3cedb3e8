// Package api is the typed request layer for the remote task service.
// It builds requests against a configured base URL, attaches bearer
// credentials, and classifies HTTP outcomes into a fixed error taxonomy.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds every remote call so a hung backend cannot
// block fallback selection.
const DefaultTimeout = 10 * time.Second

// TokenSource resolves the current bearer token. Returning ok=false is
// not an error; the call proceeds unauthenticated.
type TokenSource interface {
	Token() (string, bool)
}

// SessionClearer drops the active session. Invoked on a 401 so stale
// credentials are never replayed.
type SessionClearer interface {
	Clear() error
}

// Options control a single call.
type Options struct {
	// IncludeToken attaches the bearer header when a token is resolvable.
	IncludeToken bool
}

// Client issues HTTP calls to the remote task service. Every call is
// independent and stateless; retries are a caller decision.
type Client struct {
	baseURL  string
	http     *http.Client
	tokens   TokenSource
	sessions SessionClearer
	log      *slog.Logger
}

// New creates a gateway client. tokens and sessions may be nil, in which
// case calls are always unauthenticated and 401s have no side effect.
func New(baseURL string, timeout time.Duration, tokens TokenSource, sessions SessionClearer, log *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: timeout},
		tokens:   tokens,
		sessions: sessions,
		log:      log,
	}
}

// Call issues a request and returns the response body on 2xx, or a
// classified *Error otherwise.
func (c *Client) Call(ctx context.Context, method, endpoint string, body any, opts Options) (json.RawMessage, error) {
	url := c.baseURL + endpoint

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, &Error{Kind: KindValidation, Message: MsgValidation}
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Message: MsgNetworkError}
	}
	req.Header.Set("Content-Type", "application/json")

	if opts.IncludeToken && c.tokens != nil {
		if token, ok := c.tokens.Token(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	c.log.Debug("api call", "method", method, "endpoint", endpoint)

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("api call failed", "method", method, "endpoint", endpoint, "err", err)
		return nil, &Error{Kind: KindNetwork, Message: MsgNetworkError}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Message: MsgNetworkError}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if !isJSON(resp.Header.Get("Content-Type")) {
			// Opaque text body; callers that need structure will fail to
			// decode it and treat the call as a failure.
			return json.RawMessage(nil), nil
		}
		return json.RawMessage(data), nil
	}

	return nil, c.classify(resp.StatusCode, data)
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, endpoint string, opts Options) (json.RawMessage, error) {
	return c.Call(ctx, http.MethodGet, endpoint, nil, opts)
}

// Post issues a POST request with an optional JSON body.
func (c *Client) Post(ctx context.Context, endpoint string, body any, opts Options) (json.RawMessage, error) {
	return c.Call(ctx, http.MethodPost, endpoint, body, opts)
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, endpoint string, body any, opts Options) (json.RawMessage, error) {
	return c.Call(ctx, http.MethodPut, endpoint, body, opts)
}

// Patch issues a PATCH request with an optional JSON body.
func (c *Client) Patch(ctx context.Context, endpoint string, body any, opts Options) (json.RawMessage, error) {
	return c.Call(ctx, http.MethodPatch, endpoint, body, opts)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, endpoint string, opts Options) (json.RawMessage, error) {
	return c.Call(ctx, http.MethodDelete, endpoint, nil, opts)
}

// classify maps a non-2xx response to the error taxonomy.
func (c *Client) classify(status int, body []byte) *Error {
	switch {
	case status == http.StatusUnauthorized:
		// Stale or revoked token: drop the session so the caller lands
		// on the sign-in path.
		if c.sessions != nil {
			if err := c.sessions.Clear(); err != nil {
				c.log.Debug("session clear after 401 failed", "err", err)
			}
		}
		return &Error{Kind: KindUnauthenticated, Status: status, Message: MsgUnauthenticated}
	case status == http.StatusForbidden:
		return &Error{Kind: KindUnauthorized, Status: status, Message: MsgUnauthorized}
	case status == http.StatusNotFound:
		return &Error{Kind: KindNotFound, Status: status, Message: MsgNotFound}
	case status >= 400 && status < 500:
		return &Error{Kind: KindValidation, Status: status, Message: validationMessage(body)}
	default:
		return &Error{Kind: KindServer, Status: status, Message: MsgServerError}
	}
}

// validationMessage pulls the server's message field if the body carries
// one, else falls back to the generic validation message.
func validationMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return MsgValidation
}

func isJSON(contentType string) bool {
	return strings.Contains(contentType, "application/json")
}

// Endpoint helpers mirror the remote route table.

// TasksEndpoint is the collection path for a user's tasks.
func TasksEndpoint(userID string) string {
	return fmt.Sprintf("/%s/tasks", userID)
}

// TaskEndpoint is the path for a single task.
func TaskEndpoint(userID, taskID string) string {
	return fmt.Sprintf("/%s/tasks/%s", userID, taskID)
}

// TaskCompleteEndpoint is the completion-toggle path for a single task.
func TaskCompleteEndpoint(userID, taskID string) string {
	return fmt.Sprintf("/%s/tasks/%s/complete", userID, taskID)
}

const (
	// SignupEndpoint creates an account and returns a session.
	SignupEndpoint = "/auth/signup"

	// SigninEndpoint authenticates and returns a session.
	SigninEndpoint = "/auth/signin"

	// ProfileEndpoint updates the authenticated user's profile.
	ProfileEndpoint = "/auth/profile"

	// AuthLogEndpoint records an auth audit event. Fire-and-forget.
	AuthLogEndpoint = "/api/auth/log"
)
