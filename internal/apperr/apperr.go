// Package apperr defines the error kinds surfaced to visitors: failed remote calls,
// local validation failures and rejected credentials. Every kind carries a message
// that can be shown as-is.
package apperr

import (
	"errors"
	"net/http"
)

// GenericMessage is shown for errors outside the taxonomy.
const GenericMessage = "Something went wrong. Please try again."

// NetworkError reports a failed or malformed remote call.
type NetworkError struct {
	Message    string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *NetworkError) Error() string {
	return e.Message
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ValidationError reports a local precondition failure. It never reaches the network.
type ValidationError struct {
	Message string
	Fields  []string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// AuthError reports a failed credential check.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

// Message returns displayable text for err. Known kinds return their own message.
func Message(err error) string {
	if err == nil {
		return ""
	}

	var netErr *NetworkError
	if errors.As(err, &netErr) && netErr.Message != "" {
		return netErr.Message
	}
	var valErr *ValidationError
	if errors.As(err, &valErr) && valErr.Message != "" {
		return valErr.Message
	}
	var authErr *AuthError
	if errors.As(err, &authErr) && authErr.Message != "" {
		return authErr.Message
	}
	return GenericMessage
}

// IsNotFound reports whether err is a NetworkError caused by a 404 response.
func IsNotFound(err error) bool {
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr.StatusCode == http.StatusNotFound
	}
	return false
}

// HTTPStatus maps err to the status code used when rendering it.
func HTTPStatus(err error) int {
	var (
		netErr  *NetworkError
		valErr  *ValidationError
		authErr *AuthError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &valErr):
		return http.StatusBadRequest
	case errors.As(err, &authErr):
		return http.StatusUnauthorized
	case errors.As(err, &netErr):
		if netErr.StatusCode == http.StatusNotFound {
			return http.StatusNotFound
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
