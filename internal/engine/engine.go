package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
	gaoconfig "github.com/JaimeStill/go-agents-orchestration/pkg/config"
	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/JaimeStill/muse/internal/prompts"
)

// Runtime bundles the dependencies that pipeline nodes require.
// It is constructed by higher-level composition code from Infrastructure
// and Domain systems.
type Runtime struct {
	Agent   gaconfig.AgentConfig
	Prompts prompts.System
	Logger  *slog.Logger
	Timeout time.Duration
}

// Execute runs the two-stage pipeline for a single request: analyze the
// raw input into an IntentRecord, then generate the field schema from it.
// The whole run is bounded by the runtime's wall-clock budget; exceeding
// it surfaces as ErrTimeout, distinct from an inference failure, so
// callers may safely retry.
func Execute(ctx context.Context, rt *Runtime, input AnalyzeInput) (*Result, error) {
	if rt.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, rt.Timeout)
		defer cancel()
	}

	graph, err := buildGraph(rt)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}

	initialState := state.New(nil)
	initialState = initialState.Set(KeyInput, input)

	finalState, err := graph.Execute(ctx, initialState)
	if err != nil {
		return nil, graphError(ctx, err)
	}

	return extractResult(finalState)
}

// graphError classifies a pipeline failure. Only an exhausted deadline
// maps to ErrTimeout; caller cancellation is not retryable and surfaces
// as a plain execution error.
func graphError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return fmt.Errorf("execute graph: %w", err)
}

func buildGraph(rt *Runtime) (state.StateGraph, error) {
	cfg := gaoconfig.DefaultGraphConfig("muse-vision-logic")
	cfg.Observer = "noop"

	graph, err := state.NewGraph(cfg)
	if err != nil {
		return nil, err
	}

	if err := graph.AddNode("analyze", AnalyzeNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("fields", FieldsNode(rt)); err != nil {
		return nil, err
	}

	// analyze → fields (unconditional; fields requires the intent record)
	if err := graph.AddEdge("analyze", "fields", nil); err != nil {
		return nil, err
	}

	if err := graph.SetEntryPoint("analyze"); err != nil {
		return nil, err
	}

	if err := graph.SetExitPoint("fields"); err != nil {
		return nil, err
	}

	return graph, nil
}

func extractResult(s state.State) (*Result, error) {
	intentVal, ok := s.Get(KeyIntent)
	if !ok {
		return nil, fmt.Errorf("missing %s in final state", KeyIntent)
	}

	intent, ok := intentVal.(IntentRecord)
	if !ok {
		return nil, fmt.Errorf("%s is not IntentRecord", KeyIntent)
	}

	schemaVal, ok := s.Get(KeyFieldSchema)
	if !ok {
		return nil, fmt.Errorf("missing %s in final state", KeyFieldSchema)
	}

	schema, ok := schemaVal.(GeneratedSchema)
	if !ok {
		return nil, fmt.Errorf("%s is not GeneratedSchema", KeyFieldSchema)
	}

	return &Result{
		Intent:      intent,
		Schema:      schema,
		CompletedAt: time.Now(),
	}, nil
}

func workerCount(n int) int {
	return max(min(runtime.NumCPU(), n), 1)
}
