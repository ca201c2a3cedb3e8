// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, invalid input, not found).
	UserError = 1

	// AuthError indicates an auth error (invalid credentials, no session).
	AuthError = 2

	// BackendError indicates a storage or remote-service error.
	BackendError = 3
)
