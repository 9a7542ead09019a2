// Package briefs persists compiled generation prompts. A brief captures
// the prompt text, its provenance highlight spans, and the prompt logic
// object it was rendered from, optionally linked back to the analysis
// run that produced the field schema.
package briefs

import (
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/muse/internal/engine"
)

// Brief is a compiled generation prompt with its provenance.
type Brief struct {
	ID          uuid.UUID                `json:"id"`
	IntentID    *uuid.UUID               `json:"intent_id,omitempty"`
	InputText   string                   `json:"input_text"`
	AspectRatio string                   `json:"aspect_ratio"`
	Native      string                   `json:"native"`
	Highlights  []engine.PromptHighlight `json:"highlights"`
	PLO         engine.PLO               `json:"plo"`
	Narrated    bool                     `json:"narrated"`
	ModelName   string                   `json:"model_name"`
	Provider    string                   `json:"provider_name"`
	CompiledAt  time.Time                `json:"compiled_at"`
}

// CreateCommand describes a compilation request. Either IntentID or
// Fields must be provided; when both are present the inline fields
// replace the stored schema.
type CreateCommand struct {
	IntentID    *uuid.UUID         `json:"intent_id,omitempty"`
	InputText   string             `json:"input_text,omitempty"`
	Fields      []engine.FormField `json:"fields,omitempty"`
	FormValues  map[string]any     `json:"form_values,omitempty"`
	AspectRatio string             `json:"aspect_ratio,omitempty"`
	Narrate     bool               `json:"narrate,omitempty"`
}
