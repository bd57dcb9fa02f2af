package service

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when a board or user does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAmbiguous is returned when a name matches more than one board.
	ErrAmbiguous = errors.New("ambiguous")

	// ErrUnavailable is returned when the backend could not be reached.
	ErrUnavailable = errors.New("backend unavailable")

	// ErrPermissionDenied is returned when the backend refused the request.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrConflict is returned when a write carried a stale version.
	ErrConflict = errors.New("board changed since it was loaded")

	// ErrAuth is returned for bad credentials or an expired session.
	ErrAuth = errors.New("auth error")
)

// ValidationError reports an empty required field. It is raised before any
// state is touched.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return "please enter " + e.Field
}

// Required returns a ValidationError if value is blank.
func Required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: field}
	}
	return nil
}
