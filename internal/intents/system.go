package intents

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/muse/pkg/imagefetch"
	"github.com/JaimeStill/muse/pkg/pagination"
)

// System defines the public contract for intent domain operations.
type System interface {
	Handler(maxUploadSize int64, fetcher *imagefetch.Fetcher) *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Intent], error)

	Find(ctx context.Context, id uuid.UUID) (*Intent, error)
	Analyze(ctx context.Context, cmd AnalyzeCommand) (*Intent, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
