// Package intents implements the analysis domain for Muse. It provides
// types, data access, and business logic for running the vision logic
// pipeline over raw creative requests and storing the resulting intent
// records and field schemas.
package intents

import (
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/muse/internal/engine"
)

// Intent represents a stored analysis run: the raw input, the inferred
// intent record, and the generated field schema.
type Intent struct {
	ID              uuid.UUID              `json:"id"`
	InputText       string                 `json:"input_text"`
	ContentCategory string                 `json:"content_category"`
	ImageCount      int                    `json:"image_count"`
	ImageKeys       []string               `json:"image_keys"`
	Record          engine.IntentRecord    `json:"record"`
	Schema          engine.GeneratedSchema `json:"schema"`
	ModelName       string                 `json:"model_name"`
	ProviderName    string                 `json:"provider_name"`
	AnalyzedAt      time.Time              `json:"analyzed_at"`
}

// AnalyzeCommand carries the raw material for an analysis run.
// Images holds decoded bytes; URL resolution happens at the transport
// boundary before the command is built.
type AnalyzeCommand struct {
	Text   string
	Images []engine.ReferenceImage
}
