package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Error classes returned by the client.
var (
	ErrNetwork = errors.New("network error")
	ErrDecode  = errors.New("decode error")
)

// Validation errors for request parameters.
var (
	ErrInvalidDiet          = errors.New("invalid diet type")
	ErrInvalidClusterCount  = errors.New("invalid cluster count")
	ErrInvalidProvider      = errors.New("invalid OAuth provider")
	ErrEmptyCode            = errors.New("2FA code cannot be empty")
	ErrNoResourcesSelected  = errors.New("select at least one resource to delete")
	ErrConfirmationRequired = errors.New("deletion must be confirmed")
)

// APIError is an error payload returned by the backend.
type APIError struct {
	// Status is the HTTP status code of the response.
	Status int
	// Message is the backend's "error" or "message" text.
	Message string
}

func (e *APIError) Error() string {
	if e.Status == 0 || e.Status == http.StatusOK {
		return e.Message
	}
	return fmt.Sprintf("%s (HTTP %d)", e.Message, e.Status)
}

// IsAPIError reports whether err wraps an *APIError and returns it.
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// Kind names the error class for display: "network", "decode", "api" or "unknown".
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNetwork):
		return "network"
	case errors.Is(err, ErrDecode):
		return "decode"
	}
	if _, ok := IsAPIError(err); ok {
		return "api"
	}
	return "unknown"
}
