package llm

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// geminiClient wraps the official genai client.
type geminiClient struct {
	cfg      LLMConfig
	cli      *genai.Client
	observer Observer
}

// NewGeminiClient creates an LLMClient backed by the Gemini API. A non-empty
// cfg.Endpoint overrides the API base URL.
func NewGeminiClient(ctx context.Context, cfg LLMConfig, observer Observer) (LLMClient, error) {
	if observer == nil {
		observer = NoopObserver{}
	}
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.Endpoint != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.Endpoint}
	}
	cli, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &geminiClient{cfg: cfg, cli: cli, observer: observer}, nil
}

func (g *geminiClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	rec := startCall(ProviderGemini, g.cfg.Model, req)

	ctx, cancel := withTaskTimeout(ctx, g.cfg, req.Task)
	defer cancel()

	gc := &genai.GenerateContentConfig{ResponseMIMEType: "application/json"}
	if req.SystemPrompt != "" {
		gc.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, genai.RoleUser)
	}

	resp, err := g.cli.Models.GenerateContent(ctx, g.cfg.Model, genai.Text(req.UserPrompt), gc)
	err = classifyError(ctx, mapGeminiError(err))

	var text string
	if err == nil {
		if resp == nil || len(resp.Candidates) == 0 {
			err = fmt.Errorf("%w: no candidates in response", ErrEmptyResponse)
		} else {
			text = resp.Text()
		}
	}
	latency := rec.finish(g.observer, text, err)
	if err != nil {
		return nil, err
	}
	return &GenerateResponse{Text: text, Model: g.cfg.Model, LatencyMs: latency}, nil
}

func (g *geminiClient) Available(ctx context.Context) bool {
	_, err := g.cli.Models.Get(ctx, g.cfg.Model, nil)
	return err == nil
}

func mapGeminiError(err error) error {
	if err == nil {
		return nil
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &StatusError{Provider: ProviderGemini, Code: apiErr.Code, Body: apiErr.Message}
	}
	return err
}
