package service

import (
	"github.com/cockroachdb/errors"
)

// Error kinds returned by Service. Test with errors.Is or the Is* helpers.
//
// Not-found is not an error: lookups and deletes report absence with a
// boolean.
var (
	// ErrInvalidInput marks an empty or whitespace-only value or query, or
	// an internally inconsistent predicate set.
	ErrInvalidInput = errors.New("invalid input")

	// ErrAlreadyExists marks a create whose fingerprint is already stored.
	// It is an expected outcome, not a failure.
	ErrAlreadyExists = errors.New("already exists")
)

// IsInvalidInput reports whether err carries ErrInvalidInput.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsAlreadyExists reports whether err carries ErrAlreadyExists.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}
