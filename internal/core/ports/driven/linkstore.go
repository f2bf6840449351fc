package driven

import (
	"context"

	"github.com/variantlabs/annosync/internal/core/domain"
)

// LinkStore persists project links.
type LinkStore interface {
	// Save stores or updates a link.
	Save(ctx context.Context, link domain.ProjectLink) error

	// Get retrieves a link by ID, or domain.ErrNotFound.
	Get(ctx context.Context, id string) (*domain.ProjectLink, error)

	// List returns all links.
	List(ctx context.Context) ([]domain.ProjectLink, error)

	// Delete removes a link by ID.
	Delete(ctx context.Context, id string) error
}
