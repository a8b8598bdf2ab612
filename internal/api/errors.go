package api

import (
	"errors"
	"fmt"
)

// Kind classifies a failed API call. Callers branch on the kind, not on
// status codes: an authorization failure must clear the session, a not-found
// is a normal state, and a transport failure leaves cached state untouched.
type Kind int

const (
	// KindTransport covers network errors and 5xx responses. Retryable by
	// the user; never mutates client state.
	KindTransport Kind = iota

	// KindAuthentication is a rejected login or registration. The session
	// is unchanged.
	KindAuthentication

	// KindAuthorization is a missing, invalid, or expired token on a
	// protected call. The session must be cleared.
	KindAuthorization

	// KindValidation is a malformed payload, caught client-side where
	// feasible or reported by the server.
	KindValidation

	// KindNotFound marks an absent resource. An absent profile or empty
	// history is a valid state, not an error condition for the user.
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	default:
		return "transport"
	}
}

// Error is the failure type returned by every Client call.
type Error struct {
	Kind    Kind
	Status  int    // HTTP status, 0 for network-level failures
	Message string // server detail when available
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, e.Message)
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, k Kind) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == k
}
