package market

import (
	"errors"
	"fmt"
)

// NotFoundKind names the catalog level that failed to resolve
type NotFoundKind string

const (
	KindCommodity NotFoundKind = "commodity"
	KindState     NotFoundKind = "state"
	KindDistrict  NotFoundKind = "district"
)

// NotFoundError is returned when a user-facing name has no catalog match.
// It is an expected outcome, not a failure of the upstream.
type NotFoundError struct {
	Kind NotFoundKind
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %q", e.Kind, e.Name)
}

// NewNotFoundError builds a NotFoundError
func NewNotFoundError(kind NotFoundKind, name string) *NotFoundError {
	return &NotFoundError{Kind: kind, Name: name}
}

// IsNotFound reports whether err wraps a NotFoundError
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

var (
	// ErrInvalidPageSize is returned when a page size is not positive
	ErrInvalidPageSize = errors.New("invalid page size")

	// ErrInvalidSortDirection is returned for an unknown sort direction
	ErrInvalidSortDirection = errors.New("invalid sort direction")
)
