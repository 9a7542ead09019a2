package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/JaimeStill/muse/internal/prompts"
)

// ComposePrompt builds a system prompt by combining tunable instructions,
// the immutable output specification, and an optional JSON payload for a
// given pipeline stage.
func ComposePrompt(
	ctx context.Context,
	ps prompts.System,
	stage prompts.Stage,
	payload any,
) (string, error) {
	instructions, err := ps.Instructions(ctx, stage)
	if err != nil {
		return "", fmt.Errorf("load instructions for %s: %w", stage, err)
	}

	spec, err := ps.Spec(ctx, stage)
	if err != nil {
		return "", fmt.Errorf("load spec for %s: %w", stage, err)
	}

	var sb strings.Builder
	sb.WriteString(instructions)
	sb.WriteString("\n\n")
	sb.WriteString(spec)

	if payload != nil {
		payloadJSON, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return "", fmt.Errorf("serialize %s payload: %w", stage, err)
		}

		sb.WriteString("\n\nRequest payload:\n\n")
		sb.WriteString(string(payloadJSON))
	}

	return sb.String(), nil
}
