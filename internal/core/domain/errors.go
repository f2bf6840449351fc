package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConnectivity indicates the annotation server is unreachable or the
	// project no longer exists. Raised on handle resolution; never retried
	// automatically.
	ErrConnectivity = errors.New("cannot reach annotation server")

	// ErrSchema indicates a malformed label config: a missing or wrong root
	// element, or a field tag with no known column type.
	ErrSchema = errors.New("invalid label config")

	// ErrValidation indicates a sync precondition failed: an unstored media
	// column selected for push, a local file reference in a multi-field
	// batch, or a column mapping missing the annotations target on pull.
	ErrValidation = errors.New("validation failed")
)
