package client

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound matches an APIError with status 404.
var ErrNotFound = errors.New("not found")

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Code       string // machine-readable code, may be empty
	Message    string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("mathdocs: %d: %s", e.StatusCode, msg)
}

// Is reports ErrNotFound for 404 responses.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}
