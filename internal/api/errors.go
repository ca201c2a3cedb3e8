package api

import (
	"errors"
	"fmt"
)

// Kind classifies a gateway outcome. Upstream code branches on this
// taxonomy, never on raw HTTP status codes.
type Kind int

const (
	// KindValidation is a client-detected or server-reported input error.
	// No fallback-eligible work happened on the remote side.
	KindValidation Kind = iota

	// KindNetwork means the request could not be sent or received at all.
	KindNetwork

	// KindUnauthenticated is a 401. The client clears the session store
	// before returning it, signalling the caller to re-authenticate.
	KindUnauthenticated

	// KindUnauthorized is a 403.
	KindUnauthorized

	// KindNotFound is a 404.
	KindNotFound

	// KindServer is a remote 5xx.
	KindServer
)

// String returns the taxonomy name for the kind.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNetwork:
		return "network"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindServer:
		return "server"
	default:
		return "unknown"
	}
}

// Default user-facing messages for each kind.
const (
	MsgUnauthorized    = "You are not authorized to perform this action."
	MsgUnauthenticated = "Please sign in to continue."
	MsgNotFound        = "The requested resource was not found."
	MsgServerError     = "An error occurred. Please try again later."
	MsgNetworkError    = "Network error. Please check your connection."
	MsgValidation      = "Please check your input and try again."
)

// Error is a classified gateway outcome.
type Error struct {
	Kind    Kind
	Status  int // HTTP status, 0 for network/client-side errors
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("api error (%s)", e.Kind)
}

// NewValidationError builds a client-detected validation error. No I/O
// was attempted when one of these is returned.
func NewValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// ErrorKind extracts the Kind from err, reporting ok=false when err is
// not a gateway error.
func ErrorKind(err error) (Kind, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind, true
	}
	return 0, false
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool {
	k, ok := ErrorKind(err)
	return ok && k == KindValidation
}
