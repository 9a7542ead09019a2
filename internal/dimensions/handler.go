package dimensions

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/muse/internal/engine"
	"github.com/JaimeStill/muse/pkg/handlers"
	"github.com/JaimeStill/muse/pkg/routes"
)

// Handler provides HTTP endpoints for dimension field generation.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "dimensions"),
	}
}

// Routes returns the route group definition for dimension endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/dimensions",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/generate", Handler: h.Generate},
		},
	}
}

// Generate accepts a batch of dimension names and returns one generated
// field per dimension, with per-dimension failures reported inline.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var req engine.BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.sys.Generate(r.Context(), req)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
