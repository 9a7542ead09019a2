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

// Provisional role names for character_mapper slots, in image order.
var characterRoles = []string{"Primary", "Secondary", "Tertiary", "Quaternary"}

// FieldsNode returns a state node that converts the stored IntentRecord
// into a validated field schema.
func FieldsNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		intent, err := extractIntent(s)
		if err != nil {
			return s, fmt.Errorf("fields: %w", err)
		}

		schema, err := GenerateFields(ctx, rt, intent)
		if err != nil {
			return s, fmt.Errorf("fields: %w", err)
		}

		rt.Logger.InfoContext(
			ctx, "fields node complete",
			"field_count", len(schema.Fields),
			"preserved_details", len(schema.PreservedDetails),
		)

		s = s.Set(KeyFieldSchema, *schema)
		return s, nil
	})
}

// GenerateFields converts an IntentRecord into an ordered set of form
// fields. Structurally invalid output gets one corrective retry; a second
// failure surfaces as ErrInvalidSchema. The returned schema has passed the
// cross-stage validation boundary: ambiguity options never restate explicit
// details, detected text survives as literal user constraints, and
// multi-character image sets collapse into a single character_mapper.
func GenerateFields(ctx context.Context, rt *Runtime, intent *IntentRecord) (*GeneratedSchema, error) {
	a, err := agent.New(&rt.Agent)
	if err != nil {
		return nil, fmt.Errorf("%w: create agent: %w", ErrFieldsFailed, err)
	}

	prompt, err := ComposePrompt(ctx, rt.Prompts, prompts.StageFields, intent)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFieldsFailed, err)
	}

	schema, err := inferSchema(ctx, a, prompt, intent)
	if err != nil {
		corrective := prompt + "\n\nYour previous response was structurally invalid: " +
			err.Error() + ". Respond with only the corrected JSON object."
		schema, err = inferSchema(ctx, a, corrective, intent)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
		}
	}

	return schema, nil
}

func inferSchema(ctx context.Context, a agent.Agent, prompt string, intent *IntentRecord) (*GeneratedSchema, error) {
	resp, err := a.Chat(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("chat call: %w", err)
	}

	parsed, err := formatting.Parse[GeneratedSchema](resp.Content())
	if err != nil {
		return nil, err
	}

	if len(parsed.Fields) == 0 {
		return nil, fmt.Errorf("schema has no fields")
	}

	return validateSchema(&parsed, intent)
}

// validateSchema is the single cross-stage validation boundary. It applies
// the exclusion policy, reshapes ambiguities and detected text into their
// mandated field forms, merges character images, and normalizes variants.
func validateSchema(schema *GeneratedSchema, intent *IntentRecord) (*GeneratedSchema, error) {
	fields := schema.Fields[:0]
	seen := make(map[string]bool)

	for _, f := range schema.Fields {
		if Excluded(f.ID) {
			continue
		}
		if seen[f.ID] {
			return nil, fmt.Errorf("duplicate field id %q", f.ID)
		}
		seen[f.ID] = true
		fields = append(fields, f)
	}
	schema.Fields = fields

	applyAmbiguities(schema, intent, seen)
	applyDetectedText(schema, intent, seen)
	if err := mergeCharacters(schema, intent, seen); err != nil {
		return nil, err
	}

	for i := range schema.Fields {
		schema.Fields[i].Normalize()
		if err := schema.Fields[i].Validate(); err != nil {
			return nil, err
		}
	}

	if schema.PreservedDetails == nil {
		schema.PreservedDetails = slices.Clone(intent.ExplicitDetails)
	}
	if schema.Context == "" {
		schema.Context = intent.Context
	}

	return schema, nil
}

// applyAmbiguities guarantees every ambiguity has exactly one select field
// whose options match the ambiguity and never restate an explicit detail.
func applyAmbiguities(schema *GeneratedSchema, intent *IntentRecord, seen map[string]bool) {
	settled := make(map[string]bool)
	for _, d := range intent.ExplicitDetails {
		settled[strings.ToLower(strings.TrimSpace(d))] = true
	}

	for _, amb := range intent.Ambiguities {
		options := slices.DeleteFunc(slices.Clone(amb.Options), func(o string) bool {
			return settled[strings.ToLower(strings.TrimSpace(o))]
		})
		if len(options) < 2 {
			continue
		}

		if idx := fieldIndex(schema.Fields, amb.ID); idx >= 0 {
			schema.Fields[idx].Type = FieldSelect
			schema.Fields[idx].Options = options
			schema.Fields[idx].DefaultValue = ""
			continue
		}

		seen[amb.ID] = true
		schema.Fields = append(schema.Fields, FormField{
			ID:           amb.ID,
			Type:         FieldSelect,
			Label:        amb.Description,
			DefaultValue: "",
			IsAdvanced:   false,
			Options:      options,
		})
	}
}

// applyDetectedText guarantees every detected text entry survives as a
// literal user constraint, never an AI-invented default.
func applyDetectedText(schema *GeneratedSchema, intent *IntentRecord, seen map[string]bool) {
	for i, text := range intent.DetectedText {
		idx := slices.IndexFunc(schema.Fields, func(f FormField) bool {
			return f.Source == SourceUserConstraint && f.DefaultValue == text
		})
		if idx >= 0 {
			schema.Fields[idx].Type = FieldText
			continue
		}

		id := fmt.Sprintf("text_content_%d", i+1)
		for seen[id] {
			id += "_x"
		}
		seen[id] = true

		schema.Fields = append(schema.Fields, FormField{
			ID:           id,
			Type:         FieldText,
			Label:        "Text Content",
			DefaultValue: text,
			IsAdvanced:   false,
			Source:       SourceUserConstraint,
		})
	}
}

// mergeCharacters collapses multi-character image analysis into exactly one
// character_mapper field carrying all images with provisional role names.
func mergeCharacters(schema *GeneratedSchema, intent *IntentRecord, seen map[string]bool) error {
	characters := characterEntries(intent)
	if len(characters) < 2 {
		// a single portrait never warrants a mapper; drop any the model invented
		schema.Fields = slices.DeleteFunc(schema.Fields, func(f FormField) bool {
			return f.Type == FieldCharacterMapper
		})
		return nil
	}

	slots := make([]CharacterSlot, len(characters))
	for i, entry := range characters {
		role := "Character " + fmt.Sprint(i+1)
		if i < len(characterRoles) {
			role = characterRoles[i]
		}
		slots[i] = CharacterSlot{
			ImageIndex: entry.ImageIndex,
			Role:       role,
			Features:   strings.Join(entry.DetectedFeatures, ", "),
		}
	}

	mapper := FormField{
		ID:         "character_roles",
		Type:       FieldCharacterMapper,
		Label:      "Character Roles",
		IsAdvanced: false,
		Source:     SourceImageDerived,
		Images:     slots,
	}

	kept := schema.Fields[:0]
	replaced := false
	for _, f := range schema.Fields {
		if f.Type != FieldCharacterMapper {
			kept = append(kept, f)
			continue
		}
		if !replaced {
			mapper.ID = f.ID
			mapper.Label = f.Label
			kept = append(kept, mapper)
			replaced = true
		}
	}
	if !replaced {
		if seen[mapper.ID] {
			return fmt.Errorf("duplicate field id %q", mapper.ID)
		}
		kept = append(kept, mapper)
	}
	seen[mapper.ID] = true

	schema.Fields = kept
	return nil
}

// characterEntries returns image analysis entries that imply distinct
// characters for multi-subject generation.
func characterEntries(intent *IntentRecord) []ImageAnalysis {
	var entries []ImageAnalysis
	for _, ia := range intent.ImageAnalysis {
		t := strings.ToLower(ia.ImageType)
		apparent := strings.ToLower(ia.UserApparentIntent)
		if strings.Contains(t, "person") || strings.Contains(t, "portrait") ||
			strings.Contains(t, "face") || strings.Contains(apparent, "character") {
			entries = append(entries, ia)
		}
	}
	return entries
}

func fieldIndex(fields []FormField, id string) int {
	return slices.IndexFunc(fields, func(f FormField) bool { return f.ID == id })
}

func extractIntent(s state.State) (*IntentRecord, error) {
	val, ok := s.Get(KeyIntent)
	if !ok {
		return nil, fmt.Errorf("%w: missing %s in state", ErrFieldsFailed, KeyIntent)
	}

	intent, ok := val.(IntentRecord)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not IntentRecord", ErrFieldsFailed, KeyIntent)
	}

	return &intent, nil
}
