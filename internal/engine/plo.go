package engine

import (
	"fmt"
	"strings"
)

// Strength tiers for narrative parameters.
const (
	strengthSelected  = 0.8
	strengthDefaulted = 0.7
	strengthText      = 0.9
)

// NarrativeParam is one resolved field value with its rendering weight.
type NarrativeParam struct {
	Value    any         `json:"value"`
	Strength float64     `json:"strength"`
	Emphasis string      `json:"emphasis,omitempty"`
	Label    string      `json:"label"`
	Category Category    `json:"category"`
	Source   FieldSource `json:"source,omitempty"`
}

// PLO is the Prompt Logic Object: fully-resolved field values plus
// metadata, the sole compiler input. Immutable once built.
type PLO struct {
	InputText            string                    `json:"inputText"`
	NarrativeParams      map[string]NarrativeParam `json:"narrativeParams"`
	TechnicalConstraints []string                  `json:"technicalConstraints,omitempty"`
	TextRender           []string                  `json:"textRender,omitempty"`
	AspectRatio          string                    `json:"aspectRatio"`
	SchemaRef            string                    `json:"schemaRef,omitempty"`
}

// BuildInput carries everything BuildPLO needs.
type BuildInput struct {
	InputText   string         `json:"inputText"`
	Fields      []FormField    `json:"fields"`
	FormValues  map[string]any `json:"formValues"`
	AspectRatio string         `json:"aspectRatio"`
	SchemaRef   string         `json:"schemaRef,omitempty"`
}

// BuildPLO merges a field schema with current form values into a PLO.
// Pure function: every schema field resolves to a narrative parameter,
// using the form value when present and the default otherwise. Stray
// value keys not present in the schema are dropped.
func BuildPLO(input BuildInput) *PLO {
	plo := &PLO{
		InputText:       input.InputText,
		NarrativeParams: make(map[string]NarrativeParam, len(input.Fields)),
		AspectRatio:     input.AspectRatio,
		SchemaRef:       input.SchemaRef,
	}

	for _, f := range input.Fields {
		value, touched := input.FormValues[f.ID]
		param := resolveParam(f, value, touched)
		param.Label = f.Label
		param.Category = fieldCategory(f.ID, f.Label)
		param.Source = f.Source
		plo.NarrativeParams[f.ID] = param

		switch f.Type {
		case FieldToggle:
			if enabled, ok := param.Value.(bool); ok && enabled {
				plo.TechnicalConstraints = append(plo.TechnicalConstraints, strings.ToLower(f.Label))
			}
		case FieldText:
			if f.Source == SourceUserConstraint {
				if s, ok := param.Value.(string); ok && s != "" {
					plo.TextRender = append(plo.TextRender, s)
				}
			}
		}
	}

	return plo
}

func resolveParam(f FormField, value any, touched bool) NarrativeParam {
	f.Normalize()

	switch f.Type {
	case FieldSlider:
		return resolveSlider(f, value, touched)
	case FieldSelect:
		return resolveSelect(f, value, touched)
	case FieldToggle:
		v := f.DefaultValue
		if touched {
			v = value
		}
		enabled, _ := v.(bool)
		return NarrativeParam{Value: enabled, Strength: strengthDefaulted}
	case FieldCharacterMapper:
		v := f.DefaultValue
		if touched {
			v = value
		}
		if v == nil {
			v = f.Images
		}
		return NarrativeParam{Value: v, Strength: strengthSelected}
	default: // text
		v := f.DefaultValue
		if touched {
			v = value
		}
		if v == nil {
			v = ""
		}
		return NarrativeParam{Value: v, Strength: strengthText}
	}
}

func resolveSlider(f FormField, value any, touched bool) NarrativeParam {
	v := f.DefaultValue
	if touched {
		v = value
	}

	number, ok := toFloat(v)
	if !ok {
		number = (*f.Min + *f.Max) / 2
	}

	span := *f.Max - *f.Min
	normalized := 0.5
	if span > 0 {
		normalized = (number - *f.Min) / span
	}
	normalized = min(max(normalized, 0), 1)

	emphasis := "low"
	switch {
	case normalized >= 0.7:
		emphasis = "high"
	case normalized >= 0.4:
		emphasis = "moderate"
	}

	return NarrativeParam{
		Value:    number,
		Strength: normalized,
		Emphasis: emphasis,
	}
}

func resolveSelect(f FormField, value any, touched bool) NarrativeParam {
	if touched {
		s := fmt.Sprint(value)
		if value == nil || s == "" {
			// the user deliberately cleared this choice
			return NarrativeParam{Value: "", Strength: 0}
		}
		return NarrativeParam{Value: s, Strength: strengthSelected}
	}

	if f.DefaultValue == nil || fmt.Sprint(f.DefaultValue) == "" {
		return NarrativeParam{Value: "", Strength: 0}
	}
	return NarrativeParam{Value: fmt.Sprint(f.DefaultValue), Strength: strengthDefaulted}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
