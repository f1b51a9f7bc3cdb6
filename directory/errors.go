package directory

import "errors"

var (
	// ErrInvalidDocument indicates the institution document could not be decoded.
	ErrInvalidDocument = errors.New("invalid institution document")

	// ErrUnknownCategory is returned by ByCategory for unrecognized category names.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrRepositoryRequired is returned when a repository is not provided.
	ErrRepositoryRequired = errors.New("institution repository required")
)
