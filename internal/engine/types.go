// Package engine implements the vision logic pipeline for Muse.
// It provides the two-stage inference chain (intent analysis → field
// generation), on-demand dimension generation, and the deterministic
// PLO builder and prompt compiler.
package engine

import (
	"encoding/base64"
	"fmt"
	"time"
)

const (
	KeyInput       = "analyze_input"
	KeyIntent      = "intent_record"
	KeyFieldSchema = "field_schema"
)

// InputComplexity tiers how much structure the raw request carried.
type InputComplexity string

const (
	ComplexityMinimal  InputComplexity = "minimal"
	ComplexityModerate InputComplexity = "moderate"
	ComplexityRich     InputComplexity = "rich"
)

// ReferenceImage carries raw image bytes supplied alongside the request.
type ReferenceImage struct {
	MimeType string `json:"mimeType"`
	Data     []byte `json:"-"`
}

// DataURI encodes the image as a base64 data URI for vision requests.
func (i *ReferenceImage) DataURI() string {
	return fmt.Sprintf("data:%s;base64,%s", i.MimeType, base64.StdEncoding.EncodeToString(i.Data))
}

// AnalyzeInput is the raw material for an analysis run.
type AnalyzeInput struct {
	Text   string
	Images []ReferenceImage
}

// ImageAnalysis describes one reference image as interpreted by the analyzer.
type ImageAnalysis struct {
	ImageIndex         int      `json:"imageIndex"`
	ImageType          string   `json:"imageType"`
	DetectedFeatures   []string `json:"detectedFeatures"`
	UserApparentIntent string   `json:"userApparentIntent"`
}

// Ambiguity is a phrase admitting multiple materially different renderings.
// The underlying token is withheld from ExplicitDetails until the user chooses.
type Ambiguity struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	Options     []string `json:"options"`
}

// InternalSignals carries analyzer metadata consumed by the surrounding
// system rather than surfaced as creative fields.
type InternalSignals struct {
	PrimaryIntent    string   `json:"primaryIntent"`
	ReferenceIntents []string `json:"referenceIntents,omitempty"`
	AspectRatio      string   `json:"aspectRatio,omitempty"`
	Language         string   `json:"language,omitempty"`
}

// IntentRecord is the structured inference of user intent produced by the
// analyzer and consumed by the field generator.
type IntentRecord struct {
	Subject              string          `json:"subject"`
	Action               *string         `json:"action"`
	StyleHints           []string        `json:"styleHints,omitempty"`
	TechnicalConstraints []string        `json:"technicalConstraints"`
	ExplicitDetails      []string        `json:"explicitDetails"`
	ImageAnalysis        []ImageAnalysis `json:"imageAnalysis"`
	Ambiguities          []Ambiguity     `json:"ambiguities"`
	InputComplexity      InputComplexity `json:"inputComplexity"`
	Context              string          `json:"context"`
	DetectedText         []string        `json:"detectedText"`
	ContentCategory      string          `json:"contentCategory"`
	InternalSignals      InternalSignals `json:"internalSignals"`
}

// GeneratedSchema is the field generator's output: an ordered, validated
// set of user-tunable creative dimensions.
type GeneratedSchema struct {
	Context          string      `json:"context"`
	Fields           []FormField `json:"fields"`
	PreservedDetails []string    `json:"preservedDetails"`
}

// Result is the final output of a pipeline execution.
type Result struct {
	Intent      IntentRecord    `json:"intent"`
	Schema      GeneratedSchema `json:"schema"`
	CompletedAt time.Time       `json:"completed_at"`
}
