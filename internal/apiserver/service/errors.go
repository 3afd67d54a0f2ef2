package service

import "errors"

// Domain outcomes surfaced to handlers. Handlers translate these into
// user-visible messages; anything else is an internal error.
var (
	// ErrNotFound means the referenced entity is absent or inactive
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput means a submitted value failed validation
	ErrInvalidInput = errors.New("invalid input")
	// ErrDuplicateSubmission means a reading already exists for the
	// tenant, meter type and calendar day
	ErrDuplicateSubmission = errors.New("duplicate submission")
)
