package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound matches any 404 from the API via errors.Is.
	ErrNotFound = errors.New("api: not found")
	// ErrUnavailable is returned while the circuit breaker is open.
	ErrUnavailable = errors.New("api: upstream unavailable")
)

// Error is a non-2xx response.
type Error struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *Error) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("api: %s %s: status %d", e.Method, e.Path, e.Status)
	}
	return fmt.Sprintf("api: %s %s: status %d: %s", e.Method, e.Path, e.Status, e.Body)
}

func (e *Error) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
