package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized matches a TransportError with status 401 or 403.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotSignedIn is the reason of a CapabilityError raised when an
	// action needs a session that is absent.
	ErrNotSignedIn = errors.New("not signed in")

	// ErrIdentityUnknown is the reason of a CapabilityError raised when an
	// action needs the signed-in user's identity but the session is token-only.
	ErrIdentityUnknown = errors.New("identity not yet confirmed")

	ErrInvalidStatus     = errors.New("invalid skill-swap status")
	ErrInvalidTransition = errors.New("skill-swap status can no longer change")
)

// NetworkError means the request never produced a response.
// Retrying is left to the caller.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// TransportError means the server rejected the request, or answered with a
// body that could not be decoded.
type TransportError struct {
	Status  int
	Message string
	Err     error
}

func (e *TransportError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server error: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("server error: %d: %s", e.Status, e.Message)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool {
	return target == ErrUnauthorized && (e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden)
}

// AuthError means credentials were rejected or a session was required but
// absent. It wraps the underlying cause so a NetworkError behind a failed
// login stays detectable.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed: %v", e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// CapabilityError means an action was attempted without the session state
// it requires. It is raised before any network call.
type CapabilityError struct {
	Action string
	Reason error
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("%s: %v", e.Action, e.Reason)
}

func (e *CapabilityError) Unwrap() error { return e.Reason }

// IsUnauthorized reports whether err is a 401/403 rejection from the server.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
