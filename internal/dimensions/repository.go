package dimensions

import (
	"context"
	"log/slog"
	"time"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/JaimeStill/muse/internal/engine"
	"github.com/JaimeStill/muse/internal/prompts"
)

type repo struct {
	rt     *engine.Runtime
	logger *slog.Logger
}

// New creates a dimension generation system. It holds no database
// handle: generated fields live only in the response.
func New(
	agent gaconfig.AgentConfig,
	logger *slog.Logger,
	prompts prompts.System,
	timeout time.Duration,
) System {
	rt := &engine.Runtime{
		Agent:   agent,
		Prompts: prompts,
		Logger:  logger.With("engine", "dimensions"),
		Timeout: timeout,
	}
	return &repo{
		rt:     rt,
		logger: logger.With("system", "dimensions"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func (r *repo) Generate(ctx context.Context, req engine.BatchRequest) (*engine.BatchResult, error) {
	if r.rt.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.rt.Timeout)
		defer cancel()
	}

	result, err := engine.DimensionBatch(ctx, r.rt, req)
	if err != nil {
		return nil, err
	}

	r.logger.Info("dimension batch complete",
		"requested", len(req.Dimensions),
		"succeeded", result.TotalSuccess,
		"failed", result.TotalFailed,
	)

	return result, nil
}
