package api

import (
	"github.com/JaimeStill/muse/internal/config"
	"github.com/JaimeStill/muse/pkg/openapi"
)

// buildSpec assembles the OpenAPI document for the API module.
func buildSpec(cfg *config.Config) *openapi.Spec {
	spec := openapi.NewSpec("Muse API", cfg.Version)
	spec.SetDescription("Two-stage visual intent analysis and prompt compilation service.")
	spec.AddServer(cfg.API.BasePath)

	spec.Components.AddSchemas(map[string]*openapi.Schema{
		"Intent": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":               {Type: "string", Format: "uuid"},
				"input_text":       {Type: "string", Description: "Original generation request text"},
				"content_category": {Type: "string", Description: "Detected content category"},
				"image_count":      {Type: "integer"},
				"image_keys":       {Type: "array", Items: &openapi.Schema{Type: "string"}},
				"record":           {Type: "object", Description: "Structured intent analysis"},
				"schema":           {Type: "object", Description: "Generated form field schema"},
				"model_name":       {Type: "string"},
				"provider_name":    {Type: "string"},
				"analyzed_at":      {Type: "string", Format: "date-time"},
			},
		},
		"AnalyzeURLRequest": {
			Type:     "object",
			Required: []string{"text"},
			Properties: map[string]*openapi.Schema{
				"text":       {Type: "string", Description: "Generation request text"},
				"image_urls": {Type: "array", Items: &openapi.Schema{Type: "string"}, Description: "Reference image URLs, max 4"},
			},
		},
		"DimensionBatchRequest": {
			Type:     "object",
			Required: []string{"dimensions"},
			Properties: map[string]*openapi.Schema{
				"dimensions":         {Type: "array", Items: &openapi.Schema{Type: "string"}, Description: "Dimension names, max 5"},
				"context":            {Type: "string", Description: "Summary of the originating request"},
				"existing_field_ids": {Type: "array", Items: &openapi.Schema{Type: "string"}},
			},
		},
		"DimensionBatchResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"results":       {Type: "array", Items: &openapi.Schema{Type: "object"}},
				"total_success": {Type: "integer"},
				"total_failed":  {Type: "integer"},
			},
		},
		"Brief": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":            {Type: "string", Format: "uuid"},
				"intent_id":     {Type: "string", Format: "uuid"},
				"input_text":    {Type: "string"},
				"aspect_ratio":  {Type: "string", Example: "16:9"},
				"native":        {Type: "string", Description: "Compiled prompt text"},
				"highlights":    {Type: "array", Items: &openapi.Schema{Type: "object"}, Description: "Provenance spans over the prompt text"},
				"plo":           {Type: "object", Description: "Prompt logic object the text was rendered from"},
				"narrated":      {Type: "boolean"},
				"model_name":    {Type: "string"},
				"provider_name": {Type: "string"},
				"compiled_at":   {Type: "string", Format: "date-time"},
			},
		},
		"CreateBriefRequest": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"intent_id":    {Type: "string", Format: "uuid", Description: "Analysis run whose schema sources the compilation"},
				"input_text":   {Type: "string"},
				"fields":       {Type: "array", Items: &openapi.Schema{Type: "object"}, Description: "Inline field schema, replaces the stored one"},
				"form_values":  {Type: "object", Description: "Field id to user-adjusted value"},
				"aspect_ratio": {Type: "string"},
				"narrate":      {Type: "boolean", Description: "Use the narrative pass instead of the deterministic compiler"},
			},
		},
		"Prompt": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":           {Type: "string", Format: "uuid"},
				"name":         {Type: "string"},
				"stage":        {Type: "string", Enum: []any{"intent", "fields", "dimension", "narrative"}},
				"instructions": {Type: "string"},
				"description":  {Type: "string"},
				"active":       {Type: "boolean"},
			},
		},
	})

	listParams := []*openapi.Parameter{
		openapi.QueryParam("page", "integer", "Page number", false),
		openapi.QueryParam("page_size", "integer", "Results per page", false),
		openapi.QueryParam("search", "string", "Search query", false),
		openapi.QueryParam("sort", "string", "Comma-separated sort fields", false),
	}

	spec.Paths["/intents"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "List analysis runs",
			Tags:       []string{"intents"},
			Parameters: listParams,
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Paged analysis runs", "Intent"),
			},
		},
		Post: &openapi.Operation{
			Summary:     "Analyze a generation request",
			Description: "Multipart form with a prompt text field and up to four reference image files.",
			Tags:        []string{"intents"},
			Responses: map[int]*openapi.Response{
				201: openapi.ResponseJSON("Stored analysis run", "Intent"),
				400: openapi.ResponseRef("BadRequest"),
				422: {Description: "Input could not be understood"},
			},
		},
	}

	spec.Paths["/intents/urls"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Analyze with remote reference images",
			Tags:        []string{"intents"},
			RequestBody: openapi.RequestBodyJSON("AnalyzeURLRequest", true),
			Responses: map[int]*openapi.Response{
				201: openapi.ResponseJSON("Stored analysis run", "Intent"),
				400: openapi.ResponseRef("BadRequest"),
				422: {Description: "Input could not be understood"},
			},
		},
	}

	spec.Paths["/intents/{id}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Find an analysis run",
			Tags:       []string{"intents"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Analysis run id")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Analysis run", "Intent"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
		Delete: &openapi.Operation{
			Summary:    "Delete an analysis run",
			Tags:       []string{"intents"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Analysis run id")},
			Responses: map[int]*openapi.Response{
				204: {Description: "Deleted"},
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/dimensions/generate"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Generate custom dimension fields",
			Description: "Batched generation with per-dimension failure isolation. Results are not persisted.",
			Tags:        []string{"dimensions"},
			RequestBody: openapi.RequestBodyJSON("DimensionBatchRequest", true),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Batch results", "DimensionBatchResult"),
				400: openapi.ResponseRef("BadRequest"),
			},
		},
	}

	spec.Paths["/briefs"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "List briefs",
			Tags:       []string{"briefs"},
			Parameters: listParams,
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Paged briefs", "Brief"),
			},
		},
		Post: &openapi.Operation{
			Summary:     "Compile a brief",
			Tags:        []string{"briefs"},
			RequestBody: openapi.RequestBodyJSON("CreateBriefRequest", true),
			Responses: map[int]*openapi.Response{
				201: openapi.ResponseJSON("Compiled brief", "Brief"),
				400: openapi.ResponseRef("BadRequest"),
			},
		},
	}

	spec.Paths["/briefs/{id}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Find a brief",
			Tags:       []string{"briefs"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Brief id")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Brief", "Brief"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
		Delete: &openapi.Operation{
			Summary:    "Delete a brief",
			Tags:       []string{"briefs"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Brief id")},
			Responses: map[int]*openapi.Response{
				204: {Description: "Deleted"},
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/briefs/{id}/prompt"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Get a brief's compiled prompt text",
			Tags:       []string{"briefs"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Brief id")},
			Responses: map[int]*openapi.Response{
				200: {Description: "Plain text prompt"},
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/prompts"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "List prompt overrides",
			Tags:       []string{"prompts"},
			Parameters: listParams,
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Paged prompts", "Prompt"),
			},
		},
		Post: &openapi.Operation{
			Summary: "Create a prompt override",
			Tags:    []string{"prompts"},
			Responses: map[int]*openapi.Response{
				201: openapi.ResponseJSON("Prompt", "Prompt"),
				409: openapi.ResponseRef("Conflict"),
			},
		},
	}

	spec.Paths["/storage"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List stored blobs",
			Tags:    []string{"storage"},
			Parameters: []*openapi.Parameter{
				openapi.QueryParam("prefix", "string", "Key prefix filter", false),
				openapi.QueryParam("marker", "string", "Continuation marker", false),
				openapi.QueryParam("max_results", "integer", "Page size", false),
			},
			Responses: map[int]*openapi.Response{
				200: {Description: "Blob listing"},
			},
		},
	}

	return spec
}
