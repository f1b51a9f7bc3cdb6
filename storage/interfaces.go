package storage

import (
	"context"

	"github.com/poiesic/kehilla/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// Close closes the storage backend and releases resources.
	Close() error
}

// InstitutionRepository persists the static institution document.
type InstitutionRepository interface {
	Repository
	// AddInstitutions stores institutions and indexes them by postal code.
	// Records with ID=0 get a content-based ID from name and address.
	// Re-adding an institution with the same content overwrites it.
	AddInstitutions(ctx context.Context, institutions ...*core.Institution) ([]*core.Institution, error)

	// GetInstitution retrieves a single institution by ID.
	// Returns ErrNotFound if the institution doesn't exist.
	GetInstitution(ctx context.Context, id core.ID) (*core.Institution, error)

	// ListByPostalCode returns the institutions filed under a postal code
	// in document order. Returns an empty slice for unknown codes.
	ListByPostalCode(ctx context.Context, postalCode string) ([]*core.Institution, error)

	// ListInstitutions returns every institution, ordered by postal code
	// and then by document order within a postal code.
	ListInstitutions(ctx context.Context) ([]*core.Institution, error)

	// Count returns the number of stored institutions.
	Count(ctx context.Context) (int, error)
}
