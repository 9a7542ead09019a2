package intents

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/muse/internal/engine"
)

// Domain errors for intent operations.
var (
	ErrNotFound      = errors.New("intent not found")
	ErrDuplicate     = errors.New("intent already exists")
	ErrEmptyText     = errors.New("request text is empty")
	ErrTooManyImages = errors.New("too many reference images")
)

// MapHTTPStatus maps intent domain and pipeline errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrEmptyText), errors.Is(err, ErrTooManyImages):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrUnparseable), errors.Is(err, engine.ErrInvalidSchema):
		return http.StatusUnprocessableEntity
	case errors.Is(err, engine.ErrTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
