package catalog

import (
	"errors"
	"fmt"
)

// ErrServiceNotFound is returned by write paths when the named service does
// not exist. Read paths report absence as a nil record, not an error.
var ErrServiceNotFound = errors.New("service not found")

// UnavailableError reports that the catalog backend itself could not be
// reached. It is the one failure the resolution core propagates: without the
// catalog, "no owner" and "don't know" are indistinguishable.
type UnavailableError struct {
	Backend string
	Err     error
}

// Error implements the error interface.
func (e *UnavailableError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("catalog backend %s unavailable", e.Backend)
	}
	return fmt.Sprintf("catalog backend %s unavailable: %v", e.Backend, e.Err)
}

// Unwrap exposes the underlying error for errors.Is/As.
func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// Unavailable wraps err as an UnavailableError for backend. A nil err stays nil.
func Unavailable(backend string, err error) error {
	if err == nil {
		return nil
	}
	var existing *UnavailableError
	if errors.As(err, &existing) {
		return err
	}
	return &UnavailableError{Backend: backend, Err: err}
}

// IsUnavailable reports whether err (or anything it wraps) is an UnavailableError.
func IsUnavailable(err error) bool {
	var target *UnavailableError
	return errors.As(err, &target)
}

// ValidationError describes why a service record was rejected.
type ValidationError struct {
	Service string
	Field   string
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Service == "" {
		return fmt.Sprintf("invalid service record: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("invalid service record %q: %s: %s", e.Service, e.Field, e.Message)
}
