package dimensions

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/muse/internal/engine"
)

// MapHTTPStatus translates dimension errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, engine.ErrBatchTooLarge):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
