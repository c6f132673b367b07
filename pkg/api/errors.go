package api

import (
	"errors"
	"fmt"
)

// Sentinel errors callers branch on. All client methods return one of these,
// a *RemoteError, or a *NetworkError; raw transport and decode errors never
// escape the package undressed.
var (
	// ErrUnauthenticated means no session token is available.
	ErrUnauthenticated = errors.New("not authenticated: please log in to Fuze")

	// ErrUnconfigured means no API base URL is configured.
	ErrUnconfigured = errors.New("api url not configured")

	// ErrNotFound means no remote record matched the requested bookmark.
	ErrNotFound = errors.New("bookmark not found in Fuze")
)

// RemoteError is an explicit non-2xx response from the bookmark service.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server rejected request (HTTP %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("server rejected request (HTTP %d)", e.StatusCode)
}

// NetworkError wraps a transport-level failure. It is distinct from
// RemoteError on purpose: an unreachable server is a soft condition (the
// session stays valid), while an explicit rejection is not.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("could not connect to Fuze: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// IsUnreachable reports whether err is a transport failure rather than a
// response from the server.
func IsUnreachable(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// IsRejected reports whether err is an explicit non-2xx server response.
func IsRejected(err error) bool {
	var re *RemoteError
	return errors.As(err, &re)
}
