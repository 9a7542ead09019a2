package api

import (
	"time"

	"github.com/JaimeStill/muse/internal/config"
	"github.com/JaimeStill/muse/internal/infrastructure"
	"github.com/JaimeStill/muse/pkg/imagefetch"
	"github.com/JaimeStill/muse/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination    pagination.Config
	EngineTimeout time.Duration
	Fetcher       *imagefetch.Fetcher
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Agent:     infra.Agent,
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Storage:   infra.Storage,
		},
		Pagination:    cfg.API.Pagination,
		EngineTimeout: cfg.Engine.TimeoutDuration(),
		Fetcher:       imagefetch.New(&cfg.Fetch),
	}
}
