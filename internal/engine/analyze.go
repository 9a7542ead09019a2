package engine

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/JaimeStill/go-agents/pkg/agent"
	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/JaimeStill/muse/internal/prompts"
	"github.com/JaimeStill/muse/pkg/formatting"
)

type analyzeRequest struct {
	Text       string   `json:"text"`
	ImageCount int      `json:"imageCount"`
	Language   string   `json:"language"`
	ImageNotes []string `json:"imageNotes,omitempty"`
}

// AnalyzeNode returns a state node that runs intent analysis on the raw
// input and stores the resulting IntentRecord in the workflow state bag.
func AnalyzeNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		input, err := extractInput(s)
		if err != nil {
			return s, fmt.Errorf("analyze: %w", err)
		}

		record, err := Analyze(ctx, rt, input)
		if err != nil {
			return s, fmt.Errorf("analyze: %w", err)
		}

		rt.Logger.InfoContext(
			ctx, "analyze node complete",
			"subject", record.Subject,
			"complexity", record.InputComplexity,
			"ambiguities", len(record.Ambiguities),
		)

		s = s.Set(KeyIntent, *record)
		return s, nil
	})
}

// Analyze infers a structured IntentRecord from raw text plus reference
// images. The inference gets one corrective retry on unparseable or
// structurally incomplete output; after that the caller receives
// ErrUnparseable and should ask the user to rephrase.
func Analyze(ctx context.Context, rt *Runtime, input AnalyzeInput) (*IntentRecord, error) {
	a, err := agent.New(&rt.Agent)
	if err != nil {
		return nil, fmt.Errorf("%w: create agent: %w", ErrAnalyzeFailed, err)
	}

	req := analyzeRequest{
		Text:       input.Text,
		ImageCount: len(input.Images),
		Language:   DetectLanguage(input.Text),
		ImageNotes: imageNotes(input.Images),
	}

	prompt, err := ComposePrompt(ctx, rt.Prompts, prompts.StageIntent, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAnalyzeFailed, err)
	}

	record, err := inferIntent(ctx, a, prompt, input)
	if err != nil {
		corrective := prompt + "\n\nYour previous response could not be used. " +
			"Respond with only the JSON object described above, including internalSignals."
		record, err = inferIntent(ctx, a, corrective, input)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnparseable, err)
		}
	}

	sanitizeIntent(record, input)
	return record, nil
}

func inferIntent(ctx context.Context, a agent.Agent, prompt string, input AnalyzeInput) (*IntentRecord, error) {
	content, err := infer(ctx, a, prompt, input.Images)
	if err != nil {
		return nil, err
	}

	record, err := formatting.Parse[IntentRecord](content)
	if err != nil {
		return nil, err
	}

	if record.Subject == "" || record.InternalSignals.PrimaryIntent == "" {
		return nil, fmt.Errorf("incomplete intent record")
	}

	return &record, nil
}

func infer(ctx context.Context, a agent.Agent, prompt string, images []ReferenceImage) (string, error) {
	if len(images) == 0 {
		resp, err := a.Chat(ctx, prompt)
		if err != nil {
			return "", fmt.Errorf("chat call: %w", err)
		}
		return resp.Content(), nil
	}

	uris := make([]string, len(images))
	for i := range images {
		uris[i] = images[i].DataURI()
	}

	resp, err := a.Vision(ctx, prompt, uris)
	if err != nil {
		return "", fmt.Errorf("vision call: %w", err)
	}
	return resp.Content(), nil
}

// imageNotes builds per-image role guidance so multi-subject uploads get
// independent imageAnalysis entries instead of a merged description.
func imageNotes(images []ReferenceImage) []string {
	if len(images) < 2 {
		return nil
	}

	notes := make([]string, len(images))
	for i := range images {
		notes[i] = fmt.Sprintf(
			"Image %d: describe independently with its own userApparentIntent (e.g. \"use as character %d\")",
			i+1, i+1,
		)
	}
	return notes
}

// sanitizeIntent normalizes an analyzer response: empty collections instead
// of nulls, the ambiguity exclusion rule, entries clamped to real images,
// and internal signals backfilled from deterministic extraction.
func sanitizeIntent(r *IntentRecord, input AnalyzeInput) {
	if r.TechnicalConstraints == nil {
		r.TechnicalConstraints = []string{}
	}
	if r.ExplicitDetails == nil {
		r.ExplicitDetails = []string{}
	}
	if r.ImageAnalysis == nil {
		r.ImageAnalysis = []ImageAnalysis{}
	}
	if r.Ambiguities == nil {
		r.Ambiguities = []Ambiguity{}
	}
	if r.DetectedText == nil {
		r.DetectedText = []string{}
	}

	switch r.InputComplexity {
	case ComplexityMinimal, ComplexityModerate, ComplexityRich:
	default:
		r.InputComplexity = ComplexityModerate
	}

	// a detail still under active choice must never be presented as settled fact
	contested := make(map[string]bool)
	for _, amb := range r.Ambiguities {
		for _, opt := range amb.Options {
			contested[strings.ToLower(strings.TrimSpace(opt))] = true
		}
	}
	r.ExplicitDetails = slices.DeleteFunc(r.ExplicitDetails, func(d string) bool {
		return contested[strings.ToLower(strings.TrimSpace(d))]
	})

	if len(r.ImageAnalysis) > len(input.Images) {
		r.ImageAnalysis = r.ImageAnalysis[:len(input.Images)]
	}
	for i := range r.ImageAnalysis {
		if r.ImageAnalysis[i].ImageIndex < 0 || r.ImageAnalysis[i].ImageIndex >= len(input.Images) {
			r.ImageAnalysis[i].ImageIndex = i
		}
		if r.ImageAnalysis[i].DetectedFeatures == nil {
			r.ImageAnalysis[i].DetectedFeatures = []string{}
		}
	}

	if r.InternalSignals.AspectRatio == "" {
		r.InternalSignals.AspectRatio = ExtractRatio(input.Text)
	} else if !SupportedRatio(r.InternalSignals.AspectRatio) {
		r.InternalSignals.AspectRatio = ExtractRatio(r.InternalSignals.AspectRatio)
	}
	if r.InternalSignals.Language == "" {
		r.InternalSignals.Language = DetectLanguage(input.Text)
	}
}

func extractInput(s state.State) (AnalyzeInput, error) {
	val, ok := s.Get(KeyInput)
	if !ok {
		return AnalyzeInput{}, fmt.Errorf("%w: missing %s in state", ErrAnalyzeFailed, KeyInput)
	}

	input, ok := val.(AnalyzeInput)
	if !ok {
		return AnalyzeInput{}, fmt.Errorf("%w: %s is not AnalyzeInput", ErrAnalyzeFailed, KeyInput)
	}

	return input, nil
}
