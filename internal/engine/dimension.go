package engine

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/JaimeStill/go-agents/pkg/agent"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/muse/internal/prompts"
	"github.com/JaimeStill/muse/pkg/formatting"
)

// BatchLimit caps the number of dimensions resolved in one batch call.
const BatchLimit = 5

// BatchRequest asks for additional fields from free-text dimension names.
type BatchRequest struct {
	Dimensions       []string `json:"dimensions"`
	Context          string   `json:"context"`
	ExistingFieldIDs []string `json:"existingFieldIds"`
}

// DimensionResult reports the outcome of a single dimension within a batch.
type DimensionResult struct {
	Dimension string     `json:"dimension"`
	Field     *FormField `json:"field,omitempty"`
	Merged    bool       `json:"merged,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// BatchResult aggregates per-dimension outcomes. One failing dimension
// never fails its siblings.
type BatchResult struct {
	Results      []DimensionResult `json:"results"`
	TotalSuccess int               `json:"totalSuccess"`
	TotalFailed  int               `json:"totalFailed"`
}

type dimensionRequest struct {
	Dimension        string   `json:"dimension"`
	Context          string   `json:"context"`
	ExistingFieldIDs []string `json:"existingFieldIds"`
}

// Dimension generates one form field from a free-text dimension name.
// A name colliding with an existing field id gets a disambiguating suffix.
func Dimension(ctx context.Context, rt *Runtime, name, fieldContext string, existingIDs []string) (*FormField, error) {
	a, err := agent.New(&rt.Agent)
	if err != nil {
		return nil, fmt.Errorf("create agent: %w", err)
	}

	req := dimensionRequest{
		Dimension:        name,
		Context:          fieldContext,
		ExistingFieldIDs: existingIDs,
	}

	prompt, err := ComposePrompt(ctx, rt.Prompts, prompts.StageDimension, req)
	if err != nil {
		return nil, err
	}

	resp, err := a.Chat(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("chat call: %w", err)
	}

	field, err := formatting.Parse[FormField](resp.Content())
	if err != nil {
		return nil, err
	}

	if field.ID == "" {
		field.ID = slug(name)
	}
	if Excluded(field.ID) {
		return nil, fmt.Errorf("%w: %q is a reserved technical parameter", ErrInvalidSchema, field.ID)
	}
	if field.Type == FieldCharacterMapper {
		return nil, fmt.Errorf("%w: character_mapper fields cannot be generated on demand", ErrInvalidSchema)
	}

	for suffix := 2; slices.Contains(existingIDs, field.ID); suffix++ {
		field.ID = fmt.Sprintf("%s_%d", slug(name), suffix)
	}

	field.Normalize()
	if err := field.Validate(); err != nil {
		return nil, err
	}

	return &field, nil
}

// DimensionBatch resolves up to BatchLimit dimensions concurrently,
// reassembled by index. Each dimension succeeds or fails independently.
func DimensionBatch(ctx context.Context, rt *Runtime, req BatchRequest) (*BatchResult, error) {
	if len(req.Dimensions) == 0 {
		return &BatchResult{Results: []DimensionResult{}}, nil
	}
	if len(req.Dimensions) > BatchLimit {
		return nil, fmt.Errorf("%w: %d dimensions, limit %d", ErrBatchTooLarge, len(req.Dimensions), BatchLimit)
	}

	result := &BatchResult{
		Results: make([]DimensionResult, len(req.Dimensions)),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workerCount(len(req.Dimensions)))

	for i, name := range req.Dimensions {
		g.Go(func() error {
			result.Results[i] = resolveDimension(gctx, rt, name, req)
			return nil
		})
	}

	// resolveDimension never returns an error; failures are per-dimension
	g.Wait()

	for i := range result.Results {
		if result.Results[i].Error == "" {
			result.TotalSuccess++
		} else {
			result.TotalFailed++
		}
	}

	rt.Logger.InfoContext(
		ctx, "dimension batch complete",
		"requested", len(req.Dimensions),
		"succeeded", result.TotalSuccess,
		"failed", result.TotalFailed,
	)

	return result, nil
}

func resolveDimension(ctx context.Context, rt *Runtime, name string, req BatchRequest) DimensionResult {
	res := DimensionResult{Dimension: name}

	if slices.Contains(req.ExistingFieldIDs, slug(name)) {
		res.Merged = true
		return res
	}

	field, err := Dimension(ctx, rt, name, req.Context, req.ExistingFieldIDs)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	res.Field = field
	return res
}

func slug(name string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			sb.WriteRune('_')
		}
	}
	return strings.Trim(sb.String(), "_")
}
