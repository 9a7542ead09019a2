package engine

import (
	"fmt"
	"regexp"
	"strings"
)

// FieldType discriminates the FormField variant.
type FieldType string

// Valid field types.
const (
	FieldText            FieldType = "text"
	FieldSelect          FieldType = "select"
	FieldSlider          FieldType = "slider"
	FieldToggle          FieldType = "toggle"
	FieldCharacterMapper FieldType = "character_mapper"
)

// FieldSource records where a field's default value came from.
type FieldSource string

const (
	SourceExpanded       FieldSource = "expanded"
	SourceUserConstraint FieldSource = "user_constraint"
	SourceImageDerived   FieldSource = "image_derived"
)

// CharacterSlot binds one reference image to a named role inside a
// character_mapper field.
type CharacterSlot struct {
	ImageIndex int    `json:"imageIndex"`
	Role       string `json:"role"`
	Features   string `json:"features,omitempty"`
}

// FormField is one user-tunable creative dimension. Type selects the
// variant; the type-specific attributes are meaningful only for that
// variant and normalized by Normalize.
type FormField struct {
	ID           string      `json:"id"`
	Type         FieldType   `json:"type"`
	Label        string      `json:"label"`
	DefaultValue any         `json:"defaultValue"`
	IsAdvanced   bool        `json:"isAdvanced"`
	Source       FieldSource `json:"source,omitempty"`

	// select
	Options []string `json:"options,omitempty"`

	// slider
	Min      *float64 `json:"min,omitempty"`
	Max      *float64 `json:"max,omitempty"`
	Step     *float64 `json:"step,omitempty"`
	MinLabel string   `json:"minLabel,omitempty"`
	MaxLabel string   `json:"maxLabel,omitempty"`

	// character_mapper
	Images []CharacterSlot `json:"images,omitempty"`
}

// Parameter names that belong to the surrounding system, never to the
// creative schema.
var excludedFieldPatterns = []string{
	"aspect_ratio",
	"aspectratio",
	"seed",
	"steps",
	"cfg",
	"resolution",
	"dpi",
	"post_process",
	"post-process",
	"postprocess",
	"sampling",
	"inference",
}

var fieldIDPattern = regexp.MustCompile(`^[a-z0-9_]+$`)

// Excluded reports whether the field id matches a reserved technical
// parameter pattern.
func Excluded(id string) bool {
	lowered := strings.ToLower(id)
	for _, p := range excludedFieldPatterns {
		if strings.Contains(lowered, p) {
			return true
		}
	}
	return false
}

// Normalize fills variant-specific defaults in place, including slider
// bounds (0..1 step 0.1) and the midpoint default.
func (f *FormField) Normalize() {
	switch f.Type {
	case FieldSlider:
		if f.Min == nil {
			f.Min = ptr(0.0)
		}
		if f.Max == nil {
			f.Max = ptr(1.0)
		}
		if f.Step == nil {
			f.Step = ptr(0.1)
		}
		if f.DefaultValue == nil {
			f.DefaultValue = (*f.Min + *f.Max) / 2
		}
	case FieldSelect:
		if f.DefaultValue == nil && len(f.Options) > 0 {
			f.DefaultValue = ""
		}
	case FieldToggle:
		if f.DefaultValue == nil {
			f.DefaultValue = false
		}
	case FieldText:
		if f.DefaultValue == nil {
			f.DefaultValue = ""
		}
	case FieldCharacterMapper:
		// roles are assigned during schema validation
	}
}

// Validate checks structural requirements for the field's variant.
func (f *FormField) Validate() error {
	if f.ID == "" {
		return fmt.Errorf("%w: field id is empty", ErrInvalidSchema)
	}
	if !fieldIDPattern.MatchString(f.ID) {
		return fmt.Errorf("%w: field id %q is not snake_case", ErrInvalidSchema, f.ID)
	}
	if f.Label == "" {
		return fmt.Errorf("%w: field %s has no label", ErrInvalidSchema, f.ID)
	}

	switch f.Type {
	case FieldText, FieldSlider, FieldToggle:
		return nil
	case FieldSelect:
		if len(f.Options) < 2 {
			return fmt.Errorf("%w: select field %s needs at least 2 options", ErrInvalidSchema, f.ID)
		}
		return nil
	case FieldCharacterMapper:
		if len(f.Images) < 2 {
			return fmt.Errorf("%w: character_mapper field %s needs at least 2 images", ErrInvalidSchema, f.ID)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown field type %q on %s", ErrInvalidSchema, f.Type, f.ID)
	}
}

func ptr[T any](v T) *T {
	return &v
}
