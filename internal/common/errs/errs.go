// Package errs holds the error taxonomy shared by the workflow services.
//
// Stores and collaborators return the sentinels (optionally wrapped) so that
// controllers can map them onto user-visible messages:
//   - ErrNotFound: the process or reference record does not exist
//   - ErrPermissionDenied: calendar or notification access was refused
//   - ErrDataUnavailable: reference data needed for a draft is not loaded
//   - ErrSuperseded: a newer request replaced this one before it completed
//   - ErrInvalidInput: the payload failed validation at creation time
package errs

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("access denied")
	ErrDataUnavailable  = errors.New("data unavailable")
	ErrSuperseded       = errors.New("superseded by a newer request")
	ErrInvalidInput     = errors.New("invalid input")
)

// PersistenceError reports a failed repository call. The in-memory state is
// left as it was before the attempt.
type PersistenceError struct {
	Op        string
	ProcessID string
	Err       error
}

func (e *PersistenceError) Error() string {
	if e.ProcessID == "" {
		return fmt.Sprintf("%s process: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s process %s: %v", e.Op, e.ProcessID, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Invalid wraps ErrInvalidInput with a field specific message.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
