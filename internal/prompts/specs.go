package prompts

const intentSpec = `Respond with a JSON object matching this exact structure:

{
  "subject": "<core subject>",
  "action": "<action or null>",
  "styleHints": [],
  "technicalConstraints": ["<explicit numeric/technical ask>"],
  "explicitDetails": ["<fact stated unambiguously>"],
  "imageAnalysis": [
    {
      "imageIndex": 0,
      "imageType": "<person|product|style reference|scene|other>",
      "detectedFeatures": ["<feature>"],
      "userApparentIntent": "<what the user wants this image for>"
    }
  ],
  "ambiguities": [
    {
      "id": "<snake_case_id>",
      "description": "<what needs deciding>",
      "options": ["<rendering 1>", "<rendering 2>"]
    }
  ],
  "inputComplexity": "<minimal|moderate|rich>",
  "context": "<one-sentence summary of the request>",
  "detectedText": ["<literal text to render, verbatim>"],
  "contentCategory": "<e.g. graphic design, photography, illustration>",
  "internalSignals": {
    "primaryIntent": "<create|edit|recreate|explore>",
    "referenceIntents": ["<per-image intent keyword>"],
    "aspectRatio": "<W:H if the user asked for one, else empty>",
    "language": "<BCP 47 tag of the request language>"
  }
}

Field constraints:
- explicitDetails: only facts with a single reasonable rendering. Anything
  listed in an ambiguity's options must not appear here.
- imageAnalysis: exactly one entry per attached image, indexed from 0,
  each with its own userApparentIntent. Empty array when no images.
- ambiguities: each option must be concrete enough to render directly.
  Omit ambiguities the user already resolved in the text.
- detectedText: exact character-for-character text, no paraphrasing,
  no case changes. Empty array when the user wants no rendered text.
- internalSignals is required on every response.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- Never invent details the user did not state or imply
- A contested phrase appears in exactly one place: ambiguities`

const fieldsSpec = `Respond with a JSON object matching this exact structure:

{
  "context": "<one-sentence creative context>",
  "fields": [
    {
      "id": "<snake_case_id>",
      "type": "<text|select|slider|toggle|character_mapper>",
      "label": "<human label>",
      "defaultValue": "<type-appropriate default>",
      "isAdvanced": false,
      "source": "<expanded|user_constraint|image_derived, optional>",
      "options": ["<select only>"],
      "min": 0, "max": 1, "step": 0.1,
      "minLabel": "<slider only>", "maxLabel": "<slider only>",
      "images": [{"imageIndex": 0, "role": "Primary", "features": "<summary>"}]
    }
  ],
  "preservedDetails": ["<explicit detail carried through unchanged>"]
}

Field constraints:
- id: snake_case, unique within the response
- type-specific attributes appear only for their type: options for select
  (at least 2), min/max/step and optional labels for slider, images for
  character_mapper (at least 2)
- user_constraint fields carry the user's literal value as defaultValue
- select fields born from ambiguities have an empty defaultValue

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- Order fields basic first, advanced last
- Never emit aspect ratio, seed, steps, cfg, resolution, or
  post-processing fields`

const dimensionSpec = `Respond with a JSON object matching this exact structure:

{
  "id": "<snake_case_id>",
  "type": "<text|select|slider|toggle>",
  "label": "<human label>",
  "defaultValue": "<type-appropriate default>",
  "isAdvanced": true,
  "options": ["<select only, at least 2>"],
  "min": 0, "max": 1, "step": 0.1,
  "minLabel": "<slider only>", "maxLabel": "<slider only>"
}

Field constraints:
- One field object only, not wrapped in an array or envelope
- id derived from the requested dimension name, not colliding with the
  existing field ids in the payload
- character_mapper is not a valid type for on-demand dimensions

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- The field must be directly usable: defaults filled, options concrete`

const narrativeSpec = `Respond with the generation prompt as plain text, not JSON.

Output constraints:
- Every phrase contributed by a parameter is wrapped as
  [[field_id:phrase]] using the exact field id from the payload
- Marker syntax never nests and never spans sentence boundaries
- Text from textRender entries appears verbatim inside double quotes
  within a marked phrase
- No markdown, no commentary, no explanation — only the prompt itself
- Subject content leads, technical qualities close`

var specs = map[Stage]string{
	StageIntent:    intentSpec,
	StageFields:    fieldsSpec,
	StageDimension: dimensionSpec,
	StageNarrative: narrativeSpec,
}

// Spec returns the hardcoded specification for a pipeline stage.
// Specifications define the expected output format and behavioral constraints.
// Returns ErrInvalidStage if the stage is not recognized.
func Spec(stage Stage) (string, error) {
	text, ok := specs[stage]
	if !ok {
		return "", ErrInvalidStage
	}
	return text, nil
}
