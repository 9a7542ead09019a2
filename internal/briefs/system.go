package briefs

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/muse/pkg/pagination"
)

// System defines brief management operations.
type System interface {
	// Handler creates an HTTP handler for this system.
	Handler() *Handler

	// List returns a paginated, filtered set of briefs.
	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Brief], error)

	// Find returns a brief by id.
	Find(ctx context.Context, id uuid.UUID) (*Brief, error)

	// Create builds the prompt logic object from the command's schema and
	// values, compiles it, and persists the result.
	Create(ctx context.Context, cmd CreateCommand) (*Brief, error)

	// Delete removes a brief.
	Delete(ctx context.Context, id uuid.UUID) error
}
