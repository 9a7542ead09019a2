package engine_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"

	"github.com/JaimeStill/muse/internal/engine"
	"github.com/JaimeStill/muse/internal/prompts"
	"github.com/JaimeStill/muse/pkg/pagination"
)

func testRuntime() *engine.Runtime {
	return &engine.Runtime{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestDimensionBatchEmpty(t *testing.T) {
	result, err := engine.DimensionBatch(context.Background(), testRuntime(), engine.BatchRequest{})
	if err != nil {
		t.Fatalf("empty batch failed: %v", err)
	}
	if len(result.Results) != 0 {
		t.Errorf("Results = %+v, want empty", result.Results)
	}
}

func TestDimensionBatchTooLarge(t *testing.T) {
	req := engine.BatchRequest{
		Dimensions: []string{"a", "b", "c", "d", "e", "f"},
	}

	_, err := engine.DimensionBatch(context.Background(), testRuntime(), req)
	if !errors.Is(err, engine.ErrBatchTooLarge) {
		t.Errorf("error = %v, want ErrBatchTooLarge", err)
	}
}

func TestDimensionBatchMergesExistingIDs(t *testing.T) {
	req := engine.BatchRequest{
		Dimensions:       []string{"Color Temperature", "mood"},
		ExistingFieldIDs: []string{"color_temperature", "mood", "subject"},
	}

	result, err := engine.DimensionBatch(context.Background(), testRuntime(), req)
	if err != nil {
		t.Fatalf("batch failed: %v", err)
	}

	if len(result.Results) != 2 {
		t.Fatalf("Results = %d, want 2", len(result.Results))
	}
	for i, r := range result.Results {
		if !r.Merged {
			t.Errorf("result %d (%s) not marked merged", i, r.Dimension)
		}
		if r.Field != nil {
			t.Errorf("result %d carries a field despite merging", i)
		}
		if r.Error != "" {
			t.Errorf("result %d has error %q", i, r.Error)
		}
	}
	if result.TotalSuccess != 2 || result.TotalFailed != 0 {
		t.Errorf("totals = %d/%d, want 2/0", result.TotalSuccess, result.TotalFailed)
	}
}

type failingPrompts struct{}

var errPromptStore = errors.New("prompt store unavailable")

func (failingPrompts) Handler() *prompts.Handler { return nil }

func (failingPrompts) List(context.Context, pagination.PageRequest, prompts.Filters) (*pagination.PageResult[prompts.Prompt], error) {
	return nil, errPromptStore
}

func (failingPrompts) Instructions(context.Context, prompts.Stage) (string, error) {
	return "", errPromptStore
}

func (failingPrompts) Spec(context.Context, prompts.Stage) (string, error) {
	return "", errPromptStore
}

func (failingPrompts) Find(context.Context, uuid.UUID) (*prompts.Prompt, error) {
	return nil, errPromptStore
}

func (failingPrompts) Create(context.Context, prompts.CreateCommand) (*prompts.Prompt, error) {
	return nil, errPromptStore
}

func (failingPrompts) Update(context.Context, uuid.UUID, prompts.UpdateCommand) (*prompts.Prompt, error) {
	return nil, errPromptStore
}

func (failingPrompts) Delete(context.Context, uuid.UUID) error { return errPromptStore }

func (failingPrompts) Activate(context.Context, uuid.UUID) (*prompts.Prompt, error) {
	return nil, errPromptStore
}

func (failingPrompts) Deactivate(context.Context, uuid.UUID) (*prompts.Prompt, error) {
	return nil, errPromptStore
}

func TestDimensionBatchIsolatesFailure(t *testing.T) {
	rt := testRuntime()
	rt.Prompts = failingPrompts{}

	req := engine.BatchRequest{
		Dimensions: []string{
			"Color Temperature",
			"mood",
			"lighting",
			"art_style",
			"render quality",
		},
		ExistingFieldIDs: []string{"color_temperature", "mood", "lighting", "art_style"},
	}

	result, err := engine.DimensionBatch(context.Background(), rt, req)
	if err != nil {
		t.Fatalf("batch failed: %v", err)
	}

	if result.TotalSuccess != 4 || result.TotalFailed != 1 {
		t.Fatalf("totals = %d/%d, want 4/1", result.TotalSuccess, result.TotalFailed)
	}

	for i, r := range result.Results[:4] {
		if !r.Merged {
			t.Errorf("result %d (%s) not marked merged", i, r.Dimension)
		}
		if r.Error != "" {
			t.Errorf("result %d (%s) has error %q", i, r.Dimension, r.Error)
		}
		if r.Field != nil {
			t.Errorf("result %d (%s) carries a field despite merging", i, r.Dimension)
		}
	}

	failed := result.Results[4]
	if failed.Dimension != "render quality" {
		t.Errorf("failed dimension = %q, want %q", failed.Dimension, "render quality")
	}
	if failed.Error == "" {
		t.Error("failed dimension has no error")
	}
	if failed.Merged {
		t.Error("failed dimension marked merged")
	}
	if failed.Field != nil {
		t.Errorf("failed dimension carries field %+v", failed.Field)
	}
}
