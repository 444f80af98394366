package store

import (
	"errors"
	"fmt"
)

// Error taxonomy for store operations. Callers branch with errors.Is:
// validation and not-found errors are recoverable and should turn into
// corrective user-facing messages; storage errors surface as a generic
// retry-later message.
var (
	// ErrValidation marks malformed or out-of-range user input.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a referenced entity that is absent, not owned by
	// the acting user, or in the wrong status.
	ErrNotFound = errors.New("not found")

	// ErrStorage marks a persistence layer failure, including bounded
	// timeout expiry.
	ErrStorage = errors.New("storage failure")
)

func validationErr(reason string) error {
	return fmt.Errorf("%w: %s", ErrValidation, reason)
}

func notFoundErr(kind string, id int64) error {
	return fmt.Errorf("%s %d: %w", kind, id, ErrNotFound)
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}
