package intents

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/JaimeStill/muse/internal/engine"
	"github.com/JaimeStill/muse/internal/prompts"
	"github.com/JaimeStill/muse/pkg/imagefetch"
	"github.com/JaimeStill/muse/pkg/pagination"
	"github.com/JaimeStill/muse/pkg/query"
	"github.com/JaimeStill/muse/pkg/repository"
	"github.com/JaimeStill/muse/pkg/storage"
)

// MaxImages caps reference images per analysis run.
const MaxImages = 4

type repo struct {
	db         *sql.DB
	rt         *engine.Runtime
	store      storage.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates an intent repository implementing the System interface.
// It internally constructs the pipeline runtime from the provided dependencies.
func New(
	db *sql.DB,
	agent gaconfig.AgentConfig,
	logger *slog.Logger,
	pagination pagination.Config,
	store storage.System,
	prompts prompts.System,
	timeout time.Duration,
) System {
	rt := &engine.Runtime{
		Agent:   agent,
		Prompts: prompts,
		Logger:  logger.With("engine", "vision-logic"),
		Timeout: timeout,
	}
	return &repo{
		db:         db,
		rt:         rt,
		store:      store,
		logger:     logger.With("system", "intents"),
		pagination: pagination,
	}
}

func (r *repo) Handler(maxUploadSize int64, fetcher *imagefetch.Fetcher) *Handler {
	return NewHandler(r, r.logger, r.pagination, maxUploadSize, fetcher)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Intent], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "InputText", "ContentCategory")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count intents: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanIntent)
	if err != nil {
		return nil, fmt.Errorf("query intents: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Intent, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	i, err := repository.QueryOne(ctx, r.db, q, args, scanIntent)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &i, nil
}

func (r *repo) Analyze(ctx context.Context, cmd AnalyzeCommand) (*Intent, error) {
	if cmd.Text == "" {
		return nil, ErrEmptyText
	}
	if len(cmd.Images) > MaxImages {
		return nil, fmt.Errorf("%w: %d supplied, limit %d", ErrTooManyImages, len(cmd.Images), MaxImages)
	}

	result, err := engine.Execute(ctx, r.rt, engine.AnalyzeInput{
		Text:   cmd.Text,
		Images: cmd.Images,
	})
	if err != nil {
		return nil, fmt.Errorf("analyze request: %w", err)
	}

	id := uuid.New()

	imageKeys := r.archiveImages(ctx, id, cmd.Images)

	recordJSON, err := json.Marshal(result.Intent)
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}
	schemaJSON, err := json.Marshal(result.Schema)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	keysJSON, err := json.Marshal(imageKeys)
	if err != nil {
		return nil, fmt.Errorf("marshal image keys: %w", err)
	}

	insertQ := `
		INSERT INTO intents(
			id, input_text, content_category, image_count, image_keys,
			record, schema, model_name, provider_name
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, input_text, content_category, image_count, image_keys,
				  record, schema, model_name, provider_name, analyzed_at`

	insertArgs := []any{
		id,
		cmd.Text,
		result.Intent.ContentCategory,
		len(cmd.Images),
		keysJSON,
		recordJSON,
		schemaJSON,
		r.rt.Agent.Model.Name,
		r.rt.Agent.Provider.Name,
	}

	i, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Intent, error) {
		return repository.QueryOne(ctx, tx, insertQ, insertArgs, scanIntent)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("request analyzed",
		"id", i.ID,
		"content_category", i.ContentCategory,
		"image_count", i.ImageCount,
		"field_count", len(i.Schema.Fields),
	)
	return &i, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	intent, err := r.Find(ctx, id)
	if err != nil {
		return err
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM intents WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	for _, key := range intent.ImageKeys {
		if err := r.store.Delete(ctx, key); err != nil {
			r.logger.Warn("reference image cleanup failed", "key", key, "error", err)
		}
	}

	r.logger.Info("intent deleted", "id", id)
	return nil
}

// archiveImages uploads reference images so prior analysis runs can be
// recreated. Archive failures are logged, not fatal; the analysis result
// stands on its own.
func (r *repo) archiveImages(ctx context.Context, id uuid.UUID, images []engine.ReferenceImage) []string {
	keys := make([]string, 0, len(images))

	for idx, img := range images {
		key := fmt.Sprintf("intents/%s/image-%d", id, idx)
		if err := r.store.Upload(ctx, key, bytes.NewReader(img.Data), img.MimeType); err != nil {
			r.logger.Warn("reference image archive failed", "key", key, "error", err)
			continue
		}
		keys = append(keys, key)
	}

	return keys
}
