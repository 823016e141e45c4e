package api

import (
	"errors"
	"fmt"
)

// Sentinel errors for portal API calls.
var (
	// ErrAuthRequired marks an unauthenticated call (HTTP 401). Callers
	// treat this as the expected anonymous state, not a failure.
	ErrAuthRequired = errors.New("lostaf: authentication required")

	// ErrRejected marks a refused state change (HTTP 403), e.g. a resolve
	// attempt by a non-owner. The server is the authority for these.
	ErrRejected = errors.New("lostaf: rejected by server")

	ErrNotFound = errors.New("lostaf: not found")

	// ErrNetwork marks a transport-level failure: the request never
	// produced an HTTP status.
	ErrNetwork = errors.New("lostaf: network error")
)

// Error wraps an underlying error with the failed operation and, when the
// server answered at all, the HTTP status.
type Error struct {
	Op     string // "listItems", "createSession", ...
	Status int    // 0 when the request never reached an HTTP response
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("lostaf %s [%d]: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("lostaf %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func wrapError(op string, status int, err error) error {
	return &Error{Op: op, Status: status, Err: err}
}

// IsNetwork reports whether err was a transport failure rather than an
// HTTP-status failure.
func IsNetwork(err error) bool { return errors.Is(err, ErrNetwork) }
