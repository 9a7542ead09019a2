package intents

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/JaimeStill/muse/pkg/query"
	"github.com/JaimeStill/muse/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "intents", "i").
	Project("id", "ID").
	Project("input_text", "InputText").
	Project("content_category", "ContentCategory").
	Project("image_count", "ImageCount").
	Project("image_keys", "ImageKeys").
	Project("record", "Record").
	Project("schema", "Schema").
	Project("model_name", "ModelName").
	Project("provider_name", "ProviderName").
	Project("analyzed_at", "AnalyzedAt")

var defaultSort = query.SortField{
	Field:      "AnalyzedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for intent queries.
// Nil fields are ignored. All fields use exact matching.
type Filters struct {
	ContentCategory *string `json:"content_category,omitempty"`
	ModelName       *string `json:"model_name,omitempty"`
	ProviderName    *string `json:"provider_name,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("ContentCategory", f.ContentCategory).
		WhereEquals("ModelName", f.ModelName).
		WhereEquals("ProviderName", f.ProviderName)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if c := values.Get("content_category"); c != "" {
		f.ContentCategory = &c
	}

	if m := values.Get("model_name"); m != "" {
		f.ModelName = &m
	}

	if p := values.Get("provider_name"); p != "" {
		f.ProviderName = &p
	}

	return f
}

func scanIntent(s repository.Scanner) (Intent, error) {
	var i Intent
	var keysRaw, recordRaw, schemaRaw []byte

	err := s.Scan(
		&i.ID,
		&i.InputText,
		&i.ContentCategory,
		&i.ImageCount,
		&keysRaw,
		&recordRaw,
		&schemaRaw,
		&i.ModelName,
		&i.ProviderName,
		&i.AnalyzedAt,
	)

	if err != nil {
		return i, err
	}

	if len(keysRaw) > 0 {
		if err := json.Unmarshal(keysRaw, &i.ImageKeys); err != nil {
			return i, fmt.Errorf("unmarshal image_keys: %w", err)
		}
	}
	if i.ImageKeys == nil {
		i.ImageKeys = []string{}
	}

	if len(recordRaw) > 0 {
		if err := json.Unmarshal(recordRaw, &i.Record); err != nil {
			return i, fmt.Errorf("unmarshal record: %w", err)
		}
	}

	if len(schemaRaw) > 0 {
		if err := json.Unmarshal(schemaRaw, &i.Schema); err != nil {
			return i, fmt.Errorf("unmarshal schema: %w", err)
		}
	}

	return i, nil
}
