package engine_test

import (
	"strings"
	"testing"

	"github.com/JaimeStill/muse/internal/engine"
)

func narratePLO() *engine.PLO {
	return engine.BuildPLO(engine.BuildInput{
		InputText: "a fox in a forest",
		Fields: []engine.FormField{
			{ID: "subject", Type: engine.FieldText, Label: "Subject", DefaultValue: "a red fox"},
			{ID: "mood", Type: engine.FieldSelect, Label: "Mood", Options: []string{"serene", "ominous"}, DefaultValue: "serene"},
			{
				ID:           "text_content_1",
				Type:         engine.FieldText,
				Label:        "Text Content",
				DefaultValue: "Grand Opening",
				Source:       engine.SourceUserConstraint,
			},
		},
		AspectRatio: "1:1",
	})
}

func TestParseMarkers(t *testing.T) {
	content := `[[subject:A red fox]] wanders through [[mood:a serene]] clearing.`

	compiled, err := engine.ParseMarkers(content, narratePLO())
	if err != nil {
		t.Fatalf("ParseMarkers failed: %v", err)
	}

	want := "A red fox wanders through a serene clearing."
	if compiled.Native != want {
		t.Errorf("Native = %q, want %q", compiled.Native, want)
	}

	if len(compiled.Highlights) != 2 {
		t.Fatalf("highlights = %d, want 2", len(compiled.Highlights))
	}

	first := compiled.Highlights[0]
	if first.FieldID != "subject" {
		t.Errorf("first highlight field = %s, want subject", first.FieldID)
	}
	if got := compiled.Native[first.Start:first.End]; got != "A red fox" {
		t.Errorf("first span = %q, want A red fox", got)
	}
	if first.TransformedTo != "A red fox" {
		t.Errorf("TransformedTo = %q, want the reworded phrase", first.TransformedTo)
	}
	if first.Category != engine.CategorySubject {
		t.Errorf("category = %s, want subject", first.Category)
	}

	second := compiled.Highlights[1]
	if got := compiled.Native[second.Start:second.End]; got != "a serene" {
		t.Errorf("second span = %q, want a serene", got)
	}
}

func TestParseMarkersWhitespaceTolerant(t *testing.T) {
	content := `[[ subject : A red fox ]] in the woods.`

	compiled, err := engine.ParseMarkers(content, narratePLO())
	if err != nil {
		t.Fatalf("ParseMarkers failed: %v", err)
	}

	if compiled.Native != "A red fox in the woods." {
		t.Errorf("Native = %q", compiled.Native)
	}
	if compiled.Highlights[0].FieldID != "subject" {
		t.Errorf("field = %s, want subject", compiled.Highlights[0].FieldID)
	}
}

func TestParseMarkersStripsTruncatedMarker(t *testing.T) {
	content := `[[subject:A red fox]] rests in the shade [[mood:under a sere`

	compiled, err := engine.ParseMarkers(content, narratePLO())
	if err != nil {
		t.Fatalf("ParseMarkers failed: %v", err)
	}

	if strings.Contains(compiled.Native, "[[") {
		t.Errorf("truncated marker survived: %q", compiled.Native)
	}
	if len(compiled.Highlights) != 1 {
		t.Errorf("highlights = %d, want 1", len(compiled.Highlights))
	}
}

func TestParseMarkersUnknownField(t *testing.T) {
	content := `[[mystery:glowing mist]] drifts by.`

	compiled, err := engine.ParseMarkers(content, narratePLO())
	if err != nil {
		t.Fatalf("ParseMarkers failed: %v", err)
	}

	h := compiled.Highlights[0]
	if h.Category != engine.CategoryTechnical {
		t.Errorf("unknown field category = %s, want technical", h.Category)
	}
	if h.OriginalValue != "glowing mist" {
		t.Errorf("OriginalValue = %q, want the marker text", h.OriginalValue)
	}
}

func TestParseMarkersUserConstraintNeverTransformed(t *testing.T) {
	content := `A storefront banner reading [[text_content_1:"Grand Opening"]] in bold letters.`

	compiled, err := engine.ParseMarkers(content, narratePLO())
	if err != nil {
		t.Fatalf("ParseMarkers failed: %v", err)
	}

	for _, h := range compiled.Highlights {
		if h.FieldID == "text_content_1" && h.TransformedTo != "" {
			t.Errorf("user constraint marked transformed: %q", h.TransformedTo)
		}
	}
}

func TestParseMarkersNoMarkers(t *testing.T) {
	if _, err := engine.ParseMarkers("plain prose with no provenance", narratePLO()); err == nil {
		t.Fatal("expected error for markerless output")
	}
}
