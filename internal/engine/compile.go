package engine

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// Category is the semantic bucket a rendered phrase belongs to.
type Category string

// Highlight categories, in rendering order.
const (
	CategorySubject     Category = "subject"
	CategoryStyle       Category = "style"
	CategoryLighting    Category = "lighting"
	CategoryEnvironment Category = "environment"
	CategoryMood        Category = "mood"
	CategoryTechnical   Category = "technical"
)

// renderOrder is the category sequence for compiled prompts: subject
// first, technical last. A readability and model-attention heuristic.
var renderOrder = []Category{
	CategorySubject,
	CategoryStyle,
	CategoryLighting,
	CategoryEnvironment,
	CategoryMood,
	CategoryTechnical,
}

// precedence resolves span overlaps: higher wins the contested characters.
var precedence = map[Category]int{
	CategoryTechnical:   6,
	CategoryLighting:    5,
	CategoryEnvironment: 4,
	CategoryMood:        3,
	CategoryStyle:       2,
	CategorySubject:     1,
}

// PromptHighlight maps a substring of the compiled prompt back to the
// field that produced it. Offsets are byte positions into Native.
type PromptHighlight struct {
	Start         int      `json:"start"`
	End           int      `json:"end"`
	FieldID       string   `json:"fieldId"`
	FieldLabel    string   `json:"fieldLabel"`
	OriginalValue string   `json:"originalValue"`
	Category      Category `json:"category"`
	TransformedTo string   `json:"transformedTo,omitempty"`
}

// CompiledPrompt binds the final prompt text with its provenance spans.
// The two are computed together and must never be edited independently.
type CompiledPrompt struct {
	Native     string            `json:"native"`
	Highlights []PromptHighlight `json:"highlights"`
}

var categoryKeywords = map[Category][]string{
	CategorySubject:     {"subject", "character", "person", "figure", "object", "content"},
	CategoryStyle:       {"style", "art", "aesthetic", "technique", "medium", "render"},
	CategoryLighting:    {"light", "illumination", "glow", "shadow", "exposure"},
	CategoryEnvironment: {"environment", "background", "setting", "scene", "location", "weather"},
	CategoryMood:        {"mood", "atmosphere", "emotion", "tone", "feeling", "energy"},
}

// fieldCategory maps a field to its semantic category: exact id match
// first, then keyword containment over id and label, defaulting to
// technical.
func fieldCategory(id, label string) Category {
	lowered := strings.ToLower(id)
	for cat := range categoryKeywords {
		if lowered == string(cat) {
			return cat
		}
	}

	haystack := lowered + " " + strings.ToLower(label)
	for _, cat := range renderOrder[:len(renderOrder)-1] {
		for _, kw := range categoryKeywords[cat] {
			if strings.Contains(haystack, kw) {
				return cat
			}
		}
	}

	return CategoryTechnical
}

// Compile renders a PLO into final prompt text plus highlight spans.
// Deterministic: the same PLO always yields the same CompiledPrompt.
// Phrases are emitted category-ordered; detected text renders verbatim,
// quoted, with no transformation.
func Compile(plo *PLO) *CompiledPrompt {
	var sb strings.Builder
	var highlights []PromptHighlight

	appendPhrase := func(phrase string, h PromptHighlight) {
		if phrase == "" {
			return
		}
		if sb.Len() > 0 {
			sb.WriteString(", ")
		}
		h.Start = sb.Len()
		sb.WriteString(phrase)
		h.End = sb.Len()
		highlights = append(highlights, h)
	}

	for _, cat := range renderOrder {
		for _, id := range orderedParams(plo, cat) {
			param := plo.NarrativeParams[id]
			phrase, transformed := renderParam(id, param)
			appendPhrase(phrase, PromptHighlight{
				FieldID:       id,
				FieldLabel:    param.Label,
				OriginalValue: fmt.Sprint(param.Value),
				Category:      cat,
				TransformedTo: transformed,
			})
		}

		if cat == CategoryTechnical {
			for _, constraint := range plo.TechnicalConstraints {
				appendPhrase(constraint, PromptHighlight{
					FieldID:       "technical_constraints",
					FieldLabel:    "Technical Constraints",
					OriginalValue: constraint,
					Category:      CategoryTechnical,
				})
			}
		}
	}

	native := sb.String()
	return &CompiledPrompt{
		Native:     native,
		Highlights: ResolveOverlaps(highlights, len(native)),
	}
}

// orderedParams returns the param ids of one category in deterministic
// order: user constraints first, then lexicographic.
func orderedParams(plo *PLO, cat Category) []string {
	var ids []string
	for id, param := range plo.NarrativeParams {
		if param.Category != cat || param.Strength == 0 {
			continue
		}
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool {
		a, b := plo.NarrativeParams[ids[i]], plo.NarrativeParams[ids[j]]
		if (a.Source == SourceUserConstraint) != (b.Source == SourceUserConstraint) {
			return a.Source == SourceUserConstraint
		}
		return ids[i] < ids[j]
	})

	return ids
}

// renderParam turns one narrative param into its phrase. The second
// return is the transformed wording when it differs from the raw value;
// user-constraint text is never transformed.
func renderParam(id string, param NarrativeParam) (string, string) {
	switch v := param.Value.(type) {
	case bool:
		// toggles render through TechnicalConstraints
		return "", ""
	case float64:
		phrase := fmt.Sprintf("%s %s", emphasisWord(param.Emphasis), strings.ToLower(param.Label))
		return phrase, phrase
	case string:
		if v == "" {
			return "", ""
		}
		if param.Source == SourceUserConstraint {
			return fmt.Sprintf("with the text %q", v), ""
		}
		return v, ""
	default:
		if slots, ok := v.([]CharacterSlot); ok {
			return renderCharacters(slots), ""
		}
		return "", ""
	}
}

func renderCharacters(slots []CharacterSlot) string {
	parts := make([]string, len(slots))
	for i, slot := range slots {
		if slot.Features != "" {
			parts[i] = fmt.Sprintf("%s character from reference image %d (%s)", strings.ToLower(slot.Role), slot.ImageIndex+1, slot.Features)
		} else {
			parts[i] = fmt.Sprintf("%s character from reference image %d", strings.ToLower(slot.Role), slot.ImageIndex+1)
		}
	}
	return strings.Join(parts, " and ")
}

func emphasisWord(emphasis string) string {
	switch emphasis {
	case "high":
		return "pronounced"
	case "moderate":
		return "balanced"
	default:
		return "subtle"
	}
}

// ResolveOverlaps enforces the non-overlap invariant over highlight
// spans: out-of-range spans are clamped, empty spans dropped, and when
// two spans contest the same characters the higher-precedence category
// keeps them while the lower-precedence span is trimmed or dropped.
func ResolveOverlaps(highlights []PromptHighlight, length int) []PromptHighlight {
	kept := highlights[:0]
	for _, h := range highlights {
		h.Start = max(h.Start, 0)
		h.End = min(h.End, length)
		if h.Start < h.End {
			kept = append(kept, h)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].Start != kept[j].Start {
			return kept[i].Start < kept[j].Start
		}
		return precedence[kept[i].Category] > precedence[kept[j].Category]
	})

	var resolved []PromptHighlight
	for _, h := range kept {
		conflict := false
		for i := range resolved {
			prev := &resolved[i]
			if h.Start >= prev.End || h.End <= prev.Start {
				continue
			}
			if precedence[h.Category] > precedence[prev.Category] {
				// trim the earlier, weaker span away from the contested range
				if prev.Start < h.Start {
					prev.End = h.Start
				} else {
					prev.Start = min(h.End, prev.End)
				}
			} else {
				// weaker newcomer yields: trim its head past the stronger span
				h.Start = max(h.Start, prev.End)
			}
			if h.Start >= h.End {
				conflict = true
				break
			}
		}
		if !conflict {
			resolved = append(resolved, h)
		}
	}

	resolved = slices.DeleteFunc(resolved, func(h PromptHighlight) bool {
		return h.Start >= h.End
	})

	sort.SliceStable(resolved, func(i, j int) bool {
		return resolved[i].Start < resolved[j].Start
	})

	return resolved
}
