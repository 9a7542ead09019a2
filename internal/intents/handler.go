package intents

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/muse/internal/engine"
	"github.com/JaimeStill/muse/pkg/handlers"
	"github.com/JaimeStill/muse/pkg/imagefetch"
	"github.com/JaimeStill/muse/pkg/pagination"
	"github.com/JaimeStill/muse/pkg/routes"
)

// Handler provides HTTP endpoints for intent operations.
type Handler struct {
	sys           System
	logger        *slog.Logger
	pagination    pagination.Config
	maxUploadSize int64
	fetcher       *imagefetch.Fetcher
}

// SearchRequest combines pagination and filter criteria for the search endpoint.
type SearchRequest struct {
	pagination.PageRequest
	Filters
}

// AnalyzeURLRequest is the JSON entry point: text plus image URLs that
// are fetched server-side before analysis.
type AnalyzeURLRequest struct {
	Text      string   `json:"text"`
	ImageURLs []string `json:"image_urls,omitempty"`
}

// NewHandler creates a Handler with the given system, logger, pagination
// config, upload size limit, and image fetcher.
func NewHandler(
	sys System,
	logger *slog.Logger,
	pagination pagination.Config,
	maxUploadSize int64,
	fetcher *imagefetch.Fetcher,
) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "intents"),
		pagination:    pagination,
		maxUploadSize: maxUploadSize,
		fetcher:       fetcher,
	}
}

// Routes returns the route group definition for intent endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/intents",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "POST", Pattern: "", Handler: h.Analyze},
			{Method: "POST", Pattern: "/urls", Handler: h.AnalyzeURLs},
			{Method: "POST", Pattern: "/search", Handler: h.Search},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete},
		},
	}
}

// List returns a paginated list of analysis runs with optional query parameter filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns a single analysis run by its UUID path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNotFound)
		return
	}

	intent, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, intent)
}

// Analyze processes a multipart form with the request text and up to
// four reference image files, runs the pipeline, and returns the stored run.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, err)
		return
	}

	cmd := AnalyzeCommand{Text: r.FormValue("prompt")}

	if r.MultipartForm != nil {
		files := r.MultipartForm.File["images"]
		if len(files) > MaxImages {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrTooManyImages)
			return
		}

		for _, header := range files {
			file, err := header.Open()
			if err != nil {
				h.logger.Warn("reference image unreadable, dropped", "filename", header.Filename, "error", err)
				continue
			}

			data, err := io.ReadAll(file)
			file.Close()
			if err != nil {
				h.logger.Warn("reference image unreadable, dropped", "filename", header.Filename, "error", err)
				continue
			}

			contentType := header.Header.Get("Content-Type")
			if contentType == "" {
				contentType = http.DetectContentType(data)
			}

			cmd.Images = append(cmd.Images, engine.ReferenceImage{
				MimeType: contentType,
				Data:     data,
			})
		}
	}

	h.respondAnalyze(w, r, cmd)
}

// AnalyzeURLs processes a JSON body with the request text and image URLs.
// Failed or oversized fetches drop that image rather than failing the run.
func (h *Handler) AnalyzeURLs(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if len(req.ImageURLs) > MaxImages {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrTooManyImages)
		return
	}

	cmd := AnalyzeCommand{Text: req.Text}

	for _, url := range req.ImageURLs {
		img, err := h.fetcher.Fetch(r.Context(), url)
		if err != nil {
			h.logger.Warn("reference image fetch failed, dropped", "url", url, "error", err)
			continue
		}
		cmd.Images = append(cmd.Images, engine.ReferenceImage{
			MimeType: img.ContentType,
			Data:     img.Data,
		})
	}

	h.respondAnalyze(w, r, cmd)
}

func (h *Handler) respondAnalyze(w http.ResponseWriter, r *http.Request, cmd AnalyzeCommand) {
	intent, err := h.sys.Analyze(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, intent)
}

// Search accepts a JSON body with pagination and filter criteria and returns matching runs.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	req.PageRequest.Normalize(h.pagination)

	result, err := h.sys.List(r.Context(), req.PageRequest, req.Filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Delete removes an analysis run and its archived reference images.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNotFound)
		return
	}

	if err := h.sys.Delete(r.Context(), id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
