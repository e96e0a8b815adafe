package estimation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alexanderramin/scopewise/internal/domain"
)

// Prompt is the output of the request builder.
type Prompt struct {
	System string // fixed system instruction
	Text   string // full user prompt with the brief substituted
	Input  string // the serialized brief embedded in Text
}

// PromptOptions controls template variants.
type PromptOptions struct {
	// WithSummary asks for a markdown summary, then Marker, then the JSON.
	WithSummary bool
	Marker      string
}

// RequestBuilder turns a ProjectBrief into the prompt sent to the model.
// The template is rendered once from the rate table; Build only substitutes
// the brief.
type RequestBuilder struct {
	template string
	system   string
}

// NewRequestBuilder renders the instruction template for rates.
func NewRequestBuilder(rates domain.RateTable, opts PromptOptions) *RequestBuilder {
	marker := domain.CoalesceStr(opts.Marker, DefaultMarker)
	return &RequestBuilder{
		template: buildTemplate(rates, opts.WithSummary, marker),
		system:   SystemPrompt(rates),
	}
}

// Build validates the brief and returns the final prompt. It has no side effects.
func (b *RequestBuilder) Build(brief domain.ProjectBrief) (Prompt, error) {
	if err := brief.Validate(); err != nil {
		return Prompt{}, fmt.Errorf("%w: %v", ErrInvalidBrief, err)
	}
	input, err := SerializeBrief(brief)
	if err != nil {
		return Prompt{}, err
	}
	return Prompt{
		System: b.system,
		Text:   strings.Replace(b.template, BriefPlaceholder, input, 1),
		Input:  input,
	}, nil
}

// Template returns the instruction template with the placeholder intact.
func (b *RequestBuilder) Template() string { return b.template }

// briefPayload fixes the serialized key order.
type briefPayload struct {
	ProjectTitle       string   `json:"project_title"`
	ProjectDescription string   `json:"project_description"`
	ProductLevel       string   `json:"product_level"`
	UILevel            string   `json:"ui_level"`
	Platforms          []string `json:"platforms"`
	TargetAudience     string   `json:"target_audience"`
	Competitors        string   `json:"competitors"`
	Budget             string   `json:"budget"`
	FeatureCount       int      `json:"feature_count,omitempty"`
}

// SerializeBrief renders the brief as indented JSON with a stable key order
// and canonical platform order, so equal briefs serialize byte for byte.
func SerializeBrief(brief domain.ProjectBrief) (string, error) {
	platforms := brief.CanonicalPlatforms()
	names := make([]string, len(platforms))
	for i, p := range platforms {
		names[i] = string(p)
	}

	payload := briefPayload{
		ProjectTitle:       strings.TrimSpace(brief.Title),
		ProjectDescription: strings.TrimSpace(brief.Description),
		ProductLevel:       strings.TrimSpace(string(brief.ProductLevel)),
		UILevel:            strings.TrimSpace(string(brief.UILevel)),
		Platforms:          names,
		TargetAudience:     strings.TrimSpace(brief.TargetAudience),
		Competitors:        strings.TrimSpace(brief.Competitors),
		Budget:             strings.TrimSpace(brief.BudgetRaw),
	}
	if brief.FeatureCount > 0 {
		payload.FeatureCount = brief.FeatureCount
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return "", fmt.Errorf("serializing brief: %w", err)
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
