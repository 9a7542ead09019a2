package engine_test

import (
	"testing"

	"github.com/JaimeStill/muse/internal/engine"
)

func floatPtr(v float64) *float64 { return &v }

func TestBuildPLOResolvesEveryField(t *testing.T) {
	input := engine.BuildInput{
		InputText: "a dragon over mountains",
		Fields: []engine.FormField{
			{ID: "subject", Type: engine.FieldText, Label: "Subject", DefaultValue: "a dragon"},
			{ID: "art_style", Type: engine.FieldSelect, Label: "Art Style", Options: []string{"oil painting", "watercolor"}, DefaultValue: "oil painting"},
			{ID: "lighting_intensity", Type: engine.FieldSlider, Label: "Lighting Intensity", Min: floatPtr(0), Max: floatPtr(10)},
		},
		FormValues:  map[string]any{"art_style": "watercolor"},
		AspectRatio: "16:9",
		SchemaRef:   "abc",
	}

	plo := engine.BuildPLO(input)

	if len(plo.NarrativeParams) != 3 {
		t.Fatalf("NarrativeParams has %d entries, want 3", len(plo.NarrativeParams))
	}
	if plo.InputText != input.InputText {
		t.Errorf("InputText = %q, want %q", plo.InputText, input.InputText)
	}
	if plo.AspectRatio != "16:9" {
		t.Errorf("AspectRatio = %q, want 16:9", plo.AspectRatio)
	}
	if plo.SchemaRef != "abc" {
		t.Errorf("SchemaRef = %q, want abc", plo.SchemaRef)
	}

	style := plo.NarrativeParams["art_style"]
	if style.Value != "watercolor" {
		t.Errorf("art_style value = %v, want watercolor", style.Value)
	}
	if style.Strength != 0.8 {
		t.Errorf("art_style strength = %v, want 0.8 for a user selection", style.Strength)
	}
}

func TestBuildPLOStrengthTiers(t *testing.T) {
	fields := []engine.FormField{
		{ID: "mood", Type: engine.FieldSelect, Label: "Mood", Options: []string{"calm", "tense"}, DefaultValue: "calm"},
		{ID: "subject", Type: engine.FieldText, Label: "Subject", DefaultValue: "a fox"},
	}

	plo := engine.BuildPLO(engine.BuildInput{Fields: fields, AspectRatio: "1:1"})

	if got := plo.NarrativeParams["mood"].Strength; got != 0.7 {
		t.Errorf("defaulted select strength = %v, want 0.7", got)
	}
	if got := plo.NarrativeParams["subject"].Strength; got != 0.9 {
		t.Errorf("text strength = %v, want 0.9", got)
	}

	plo = engine.BuildPLO(engine.BuildInput{
		Fields:      fields,
		FormValues:  map[string]any{"mood": "tense"},
		AspectRatio: "1:1",
	})
	if got := plo.NarrativeParams["mood"].Strength; got != 0.8 {
		t.Errorf("selected strength = %v, want 0.8", got)
	}
}

func TestBuildPLOClearedSelect(t *testing.T) {
	fields := []engine.FormField{
		{ID: "mood", Type: engine.FieldSelect, Label: "Mood", Options: []string{"calm", "tense"}, DefaultValue: "calm"},
	}

	plo := engine.BuildPLO(engine.BuildInput{
		Fields:      fields,
		FormValues:  map[string]any{"mood": ""},
		AspectRatio: "1:1",
	})

	param := plo.NarrativeParams["mood"]
	if param.Strength != 0 {
		t.Errorf("cleared select strength = %v, want 0", param.Strength)
	}
	if param.Value != "" {
		t.Errorf("cleared select value = %v, want empty", param.Value)
	}
}

func TestBuildPLOSliderEmphasis(t *testing.T) {
	tests := []struct {
		name         string
		value        any
		wantEmphasis string
	}{
		{"high", 9.0, "high"},
		{"moderate", 5.0, "moderate"},
		{"low", 1.0, "low"},
		{"integer value", 8, "high"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plo := engine.BuildPLO(engine.BuildInput{
				Fields: []engine.FormField{
					{ID: "detail_level", Type: engine.FieldSlider, Label: "Detail Level", Min: floatPtr(0), Max: floatPtr(10)},
				},
				FormValues:  map[string]any{"detail_level": tt.value},
				AspectRatio: "1:1",
			})

			if got := plo.NarrativeParams["detail_level"].Emphasis; got != tt.wantEmphasis {
				t.Errorf("emphasis = %q, want %q", got, tt.wantEmphasis)
			}
		})
	}
}

func TestBuildPLOSliderDefaultsToMidpoint(t *testing.T) {
	plo := engine.BuildPLO(engine.BuildInput{
		Fields: []engine.FormField{
			{ID: "grain", Type: engine.FieldSlider, Label: "Grain", Min: floatPtr(0), Max: floatPtr(10)},
		},
		AspectRatio: "1:1",
	})

	param := plo.NarrativeParams["grain"]
	if param.Value != 5.0 {
		t.Errorf("untouched slider value = %v, want midpoint 5", param.Value)
	}
	if param.Emphasis != "moderate" {
		t.Errorf("midpoint emphasis = %q, want moderate", param.Emphasis)
	}
}

func TestBuildPLODropsStrayValues(t *testing.T) {
	plo := engine.BuildPLO(engine.BuildInput{
		Fields: []engine.FormField{
			{ID: "subject", Type: engine.FieldText, Label: "Subject", DefaultValue: "a fox"},
		},
		FormValues:  map[string]any{"subject": "a wolf", "ghost_field": "ignored"},
		AspectRatio: "1:1",
	})

	if len(plo.NarrativeParams) != 1 {
		t.Fatalf("NarrativeParams has %d entries, want 1", len(plo.NarrativeParams))
	}
	if _, ok := plo.NarrativeParams["ghost_field"]; ok {
		t.Error("stray form value key leaked into NarrativeParams")
	}
}

func TestBuildPLOToggleConstraints(t *testing.T) {
	fields := []engine.FormField{
		{ID: "black_and_white", Type: engine.FieldToggle, Label: "Black and White", DefaultValue: true},
		{ID: "film_grain", Type: engine.FieldToggle, Label: "Film Grain", DefaultValue: false},
	}

	plo := engine.BuildPLO(engine.BuildInput{Fields: fields, AspectRatio: "1:1"})

	if len(plo.TechnicalConstraints) != 1 {
		t.Fatalf("TechnicalConstraints = %v, want exactly the enabled toggle", plo.TechnicalConstraints)
	}
	if plo.TechnicalConstraints[0] != "black and white" {
		t.Errorf("constraint = %q, want lowered label", plo.TechnicalConstraints[0])
	}

	plo = engine.BuildPLO(engine.BuildInput{
		Fields:      fields,
		FormValues:  map[string]any{"black_and_white": false, "film_grain": true},
		AspectRatio: "1:1",
	})
	if len(plo.TechnicalConstraints) != 1 || plo.TechnicalConstraints[0] != "film grain" {
		t.Errorf("TechnicalConstraints = %v, want [film grain]", plo.TechnicalConstraints)
	}
}

func TestBuildPLOTextRender(t *testing.T) {
	plo := engine.BuildPLO(engine.BuildInput{
		Fields: []engine.FormField{
			{
				ID:           "text_content_1",
				Type:         engine.FieldText,
				Label:        "Text Content",
				DefaultValue: "Grand Opening",
				Source:       engine.SourceUserConstraint,
			},
			{ID: "caption", Type: engine.FieldText, Label: "Caption", DefaultValue: "ignored"},
		},
		AspectRatio: "1:1",
	})

	if len(plo.TextRender) != 1 {
		t.Fatalf("TextRender = %v, want exactly the user constraint", plo.TextRender)
	}
	if plo.TextRender[0] != "Grand Opening" {
		t.Errorf("TextRender[0] = %q, want Grand Opening", plo.TextRender[0])
	}
}

func TestBuildPLOCharacterMapper(t *testing.T) {
	slots := []engine.CharacterSlot{
		{ImageIndex: 0, Role: "Primary"},
		{ImageIndex: 1, Role: "Secondary"},
	}

	plo := engine.BuildPLO(engine.BuildInput{
		Fields: []engine.FormField{
			{ID: "character_roles", Type: engine.FieldCharacterMapper, Label: "Character Roles", Images: slots},
		},
		AspectRatio: "1:1",
	})

	got, ok := plo.NarrativeParams["character_roles"].Value.([]engine.CharacterSlot)
	if !ok {
		t.Fatalf("character_roles value is %T, want []CharacterSlot", plo.NarrativeParams["character_roles"].Value)
	}
	if len(got) != 2 {
		t.Errorf("slot count = %d, want 2", len(got))
	}
}
