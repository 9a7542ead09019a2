// Package dimensions generates supplemental form fields from free-form
// dimension names. Results are ephemeral: fields are returned to the
// caller for client-side schema extension and never persisted.
package dimensions

import (
	"context"

	"github.com/JaimeStill/muse/internal/engine"
)

// System defines dimension field generation operations.
type System interface {
	// Handler creates an HTTP handler for this system.
	Handler() *Handler

	// Generate produces one form field per requested dimension, isolating
	// per-dimension failures in the batch result.
	Generate(ctx context.Context, req engine.BatchRequest) (*engine.BatchResult, error)
}
