package api

import (
	"net/http"

	"github.com/JaimeStill/muse/internal/config"
	"github.com/JaimeStill/muse/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) {
	storage := newStorageHandler(
		runtime.Storage,
		runtime.Logger,
		cfg.Storage.MaxListSize,
	)

	routes.Register(
		mux,
		domain.Intents.Handler(cfg.API.MaxUploadSizeBytes(), runtime.Fetcher).Routes(),
		domain.Dimensions.Handler().Routes(),
		domain.Briefs.Handler().Routes(),
		domain.Prompts.Handler().Routes(),
		storage.routes(),
	)
}
