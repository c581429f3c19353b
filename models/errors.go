package models

import "errors"

// Error taxonomy for the interaction layer. Services wrap these with
// fmt.Errorf("...: %w", ...) and controllers map them to HTTP statuses
// with errors.Is.
var (
	// ErrInvalidArgument - malformed or missing required fields, or a
	// self-referential request.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound - the operation targets an entity that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransition - the request is already in a terminal state.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrConflict - a concurrent writer got there first. Callers that can
	// resolve the conflict (duplicate interest requests) never surface it.
	ErrConflict = errors.New("conflict")

	// ErrUnavailable - the persistence layer is unreachable.
	ErrUnavailable = errors.New("storage unavailable")
)
