package briefs

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/muse/internal/engine"
	"github.com/JaimeStill/muse/internal/intents"
)

var (
	// ErrNotFound indicates the requested brief does not exist.
	ErrNotFound = errors.New("brief not found")

	// ErrDuplicate indicates a brief conflicts with an existing one.
	ErrDuplicate = errors.New("brief already exists")

	// ErrNoSchema indicates the request carried neither an intent id
	// nor inline fields to compile from.
	ErrNoSchema = errors.New("intent id or inline fields required")
)

// MapHTTPStatus translates brief errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, intents.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrNoSchema):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
