package engine

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/JaimeStill/go-agents/pkg/agent"

	"github.com/JaimeStill/muse/internal/prompts"
)

var (
	markerPattern    = regexp.MustCompile(`\[\[\s*([^\]:]+?)\s*:\s*([^\]]+?)\s*\]\]`)
	incompleteMarker = regexp.MustCompile(`\[\[[^\]]*$`)
)

// Narrate renders a PLO through the narrative prompt stage: the model
// rewrites the parameter set as flowing prose, tagging each contributed
// phrase with [[field_id:text]] markers that become highlight spans.
// Any failure, including markers that drop detected text, falls back to
// the deterministic compiler; Narrate never fails a request. The second
// return reports whether the narrative pass was actually used.
func Narrate(ctx context.Context, rt *Runtime, plo *PLO) (*CompiledPrompt, bool) {
	compiled, err := narrate(ctx, rt, plo)
	if err != nil {
		rt.Logger.WarnContext(
			ctx, "narration fell back to deterministic compile",
			"error", err,
		)
		return Compile(plo), false
	}
	return compiled, true
}

func narrate(ctx context.Context, rt *Runtime, plo *PLO) (*CompiledPrompt, error) {
	a, err := agent.New(&rt.Agent)
	if err != nil {
		return nil, fmt.Errorf("%w: create agent: %w", ErrNarrateFailed, err)
	}

	prompt, err := ComposePrompt(ctx, rt.Prompts, prompts.StageNarrative, plo)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNarrateFailed, err)
	}

	resp, err := a.Chat(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: chat call: %w", ErrNarrateFailed, err)
	}

	compiled, err := ParseMarkers(resp.Content(), plo)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNarrateFailed, err)
	}

	for _, text := range plo.TextRender {
		if !strings.Contains(compiled.Native, fmt.Sprintf("%q", text)) {
			return nil, fmt.Errorf("%w: narration dropped literal text %q", ErrNarrateFailed, text)
		}
	}

	return compiled, nil
}

// ParseMarkers extracts [[field_id:text]] markers from narrated output,
// producing clean prompt text with highlight spans computed over it. A
// trailing incomplete marker from a truncated response is stripped.
func ParseMarkers(content string, plo *PLO) (*CompiledPrompt, error) {
	content = strings.TrimSpace(content)
	content = incompleteMarker.ReplaceAllString(content, "")

	matches := markerPattern.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return nil, fmt.Errorf("no provenance markers in narrated output")
	}

	var sb strings.Builder
	var highlights []PromptHighlight
	last := 0

	for _, m := range matches {
		sb.WriteString(content[last:m[0]])

		fieldID := strings.TrimSpace(content[m[2]:m[3]])
		text := strings.TrimSpace(content[m[4]:m[5]])

		start := sb.Len()
		sb.WriteString(text)

		h := PromptHighlight{
			Start:    start,
			End:      sb.Len(),
			FieldID:  fieldID,
			Category: CategoryTechnical,
		}

		if param, ok := plo.NarrativeParams[fieldID]; ok {
			h.FieldLabel = param.Label
			h.Category = param.Category
			h.OriginalValue = fmt.Sprint(param.Value)
			if h.OriginalValue != text {
				h.TransformedTo = text
			}
			if param.Source == SourceUserConstraint {
				h.TransformedTo = ""
			}
		} else {
			h.OriginalValue = text
		}

		highlights = append(highlights, h)
		last = m[1]
	}

	sb.WriteString(content[last:])

	native := strings.TrimSpace(sb.String())
	trimmed := len(sb.String()) - len(strings.TrimLeft(sb.String(), " \t\n"))
	if trimmed > 0 {
		for i := range highlights {
			highlights[i].Start -= trimmed
			highlights[i].End -= trimmed
		}
	}

	return &CompiledPrompt{
		Native:     native,
		Highlights: ResolveOverlaps(highlights, len(native)),
	}, nil
}
