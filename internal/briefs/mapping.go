package briefs

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/JaimeStill/muse/internal/engine"
	"github.com/JaimeStill/muse/pkg/query"
	"github.com/JaimeStill/muse/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "briefs", "b").
	Project("id", "ID").
	Project("intent_id", "IntentID").
	Project("input_text", "InputText").
	Project("aspect_ratio", "AspectRatio").
	Project("native", "Native").
	Project("highlights", "Highlights").
	Project("plo", "PLO").
	Project("narrated", "Narrated").
	Project("model_name", "ModelName").
	Project("provider_name", "Provider").
	Project("compiled_at", "CompiledAt")

var defaultSort = query.SortField{
	Field:      "CompiledAt",
	Descending: true,
}

// Filters contains optional filtering criteria for brief queries.
// Nil fields are ignored.
type Filters struct {
	IntentID    *uuid.UUID `json:"intent_id,omitempty"`
	AspectRatio *string    `json:"aspect_ratio,omitempty"`
	Narrated    *bool      `json:"narrated,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("IntentID", f.IntentID).
		WhereEquals("AspectRatio", f.AspectRatio).
		WhereEquals("Narrated", f.Narrated)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if raw := values.Get("intent_id"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			f.IntentID = &id
		}
	}

	if a := values.Get("aspect_ratio"); a != "" {
		f.AspectRatio = &a
	}

	if raw := values.Get("narrated"); raw != "" {
		if n, err := strconv.ParseBool(raw); err == nil {
			f.Narrated = &n
		}
	}

	return f
}

func scanBrief(s repository.Scanner) (Brief, error) {
	var b Brief
	var highlightsRaw, ploRaw []byte

	err := s.Scan(
		&b.ID,
		&b.IntentID,
		&b.InputText,
		&b.AspectRatio,
		&b.Native,
		&highlightsRaw,
		&ploRaw,
		&b.Narrated,
		&b.ModelName,
		&b.Provider,
		&b.CompiledAt,
	)

	if err != nil {
		return b, err
	}

	if len(highlightsRaw) > 0 {
		if err := json.Unmarshal(highlightsRaw, &b.Highlights); err != nil {
			return b, fmt.Errorf("unmarshal highlights: %w", err)
		}
	}
	if b.Highlights == nil {
		b.Highlights = []engine.PromptHighlight{}
	}

	if len(ploRaw) > 0 {
		if err := json.Unmarshal(ploRaw, &b.PLO); err != nil {
			return b, fmt.Errorf("unmarshal plo: %w", err)
		}
	}

	return b, nil
}
