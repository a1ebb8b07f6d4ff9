package catalog

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is returned when the catalog answers with a non-2xx status.
type APIError struct {
	Op     string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("failed to %s: %d %s", e.Op, e.Status, http.StatusText(e.Status))
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// IsNotFound reports whether the catalog did not know the requested resource.
func (e *APIError) IsNotFound() bool {
	return e.Status == http.StatusNotFound
}

// IsUnauthorized reports a rejected or missing API key.
func (e *APIError) IsUnauthorized() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.IsNotFound()
}

// IsUnauthorized reports whether err is an APIError for a rejected API key.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.IsUnauthorized()
}
