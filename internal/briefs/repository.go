package briefs

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/JaimeStill/muse/internal/engine"
	"github.com/JaimeStill/muse/internal/intents"
	"github.com/JaimeStill/muse/internal/prompts"
	"github.com/JaimeStill/muse/pkg/pagination"
	"github.com/JaimeStill/muse/pkg/query"
	"github.com/JaimeStill/muse/pkg/repository"
)

type repo struct {
	db         *sql.DB
	rt         *engine.Runtime
	intents    intents.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a brief repository implementing the System interface.
// The intent system resolves stored schemas when a create command
// references an analysis run instead of carrying inline fields.
func New(
	db *sql.DB,
	agent gaconfig.AgentConfig,
	logger *slog.Logger,
	pagination pagination.Config,
	prompts prompts.System,
	intentSys intents.System,
	timeout time.Duration,
) System {
	rt := &engine.Runtime{
		Agent:   agent,
		Prompts: prompts,
		Logger:  logger.With("engine", "briefs"),
		Timeout: timeout,
	}
	return &repo{
		db:         db,
		rt:         rt,
		intents:    intentSys,
		logger:     logger.With("system", "briefs"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Brief], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "InputText", "Native")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count briefs: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanBrief)
	if err != nil {
		return nil, fmt.Errorf("query briefs: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Brief, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	b, err := repository.QueryOne(ctx, r.db, q, args, scanBrief)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &b, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Brief, error) {
	input, err := r.resolveInput(ctx, cmd)
	if err != nil {
		return nil, err
	}

	plo := engine.BuildPLO(*input)

	var compiled *engine.CompiledPrompt
	narrated := false
	if cmd.Narrate {
		runCtx := ctx
		if r.rt.Timeout > 0 {
			var cancel context.CancelFunc
			runCtx, cancel = context.WithTimeout(ctx, r.rt.Timeout)
			defer cancel()
		}
		compiled, narrated = engine.Narrate(runCtx, r.rt, plo)
	} else {
		compiled = engine.Compile(plo)
	}

	id := uuid.New()

	highlightsJSON, err := json.Marshal(compiled.Highlights)
	if err != nil {
		return nil, fmt.Errorf("marshal highlights: %w", err)
	}
	ploJSON, err := json.Marshal(plo)
	if err != nil {
		return nil, fmt.Errorf("marshal plo: %w", err)
	}

	insertQ := `
		INSERT INTO briefs(
			id, intent_id, input_text, aspect_ratio, native,
			highlights, plo, narrated, model_name, provider_name
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, intent_id, input_text, aspect_ratio, native,
				  highlights, plo, narrated, model_name, provider_name, compiled_at`

	insertArgs := []any{
		id,
		cmd.IntentID,
		input.InputText,
		input.AspectRatio,
		compiled.Native,
		highlightsJSON,
		ploJSON,
		narrated,
		r.rt.Agent.Model.Name,
		r.rt.Agent.Provider.Name,
	}

	b, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Brief, error) {
		return repository.QueryOne(ctx, tx, insertQ, insertArgs, scanBrief)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("brief compiled",
		"id", b.ID,
		"narrated", b.Narrated,
		"highlight_count", len(b.Highlights),
	)
	return &b, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM briefs WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("brief deleted", "id", id)
	return nil
}

// resolveInput assembles the builder input from the command, pulling the
// stored schema and request text when an intent id is supplied. Inline
// fields win over the stored schema when both are present.
func (r *repo) resolveInput(ctx context.Context, cmd CreateCommand) (*engine.BuildInput, error) {
	input := &engine.BuildInput{
		InputText:   cmd.InputText,
		Fields:      cmd.Fields,
		FormValues:  cmd.FormValues,
		AspectRatio: cmd.AspectRatio,
	}

	if cmd.IntentID != nil {
		intent, err := r.intents.Find(ctx, *cmd.IntentID)
		if err != nil {
			return nil, err
		}

		input.SchemaRef = intent.ID.String()
		if input.InputText == "" {
			input.InputText = intent.InputText
		}
		if len(input.Fields) == 0 {
			input.Fields = intent.Schema.Fields
		}
		if input.AspectRatio == "" {
			input.AspectRatio = intent.Record.InternalSignals.AspectRatio
		}
	}

	if len(input.Fields) == 0 {
		return nil, ErrNoSchema
	}

	if input.AspectRatio == "" {
		input.AspectRatio = "1:1"
	}

	return input, nil
}
