package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// openAIClient talks to an OpenAI-compatible chat completions endpoint.
type openAIClient struct {
	cfg      LLMConfig
	http     *http.Client
	observer Observer
}

// NewOpenAIClient creates an LLMClient for /chat/completions under cfg.Endpoint.
func NewOpenAIClient(cfg LLMConfig, observer Observer) LLMClient {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &openAIClient{
		cfg:      cfg,
		http:     newHTTPClient(),
		observer: observer,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model               string        `json:"model"`
	Messages            []chatMessage `json:"messages"`
	Temperature         *float64      `json:"temperature,omitempty"`
	MaxCompletionTokens int           `json:"max_completion_tokens,omitempty"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *openAIClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	rec := startCall(ProviderOpenAI, c.cfg.Model, req)

	ctx, cancel := withTaskTimeout(ctx, c.cfg, req.Task)
	defer cancel()

	taskCfg := c.cfg.Tasks[req.Task]
	body := chatRequest{
		Model:               c.cfg.Model,
		MaxCompletionTokens: taskCfg.MaxTokens,
	}
	if taskCfg.Temperature > 0 {
		temp := taskCfg.Temperature
		body.Temperature = &temp
	}
	if req.SystemPrompt != "" {
		body.Messages = append(body.Messages, chatMessage{Role: "system", Content: req.SystemPrompt})
	}
	body.Messages = append(body.Messages, chatMessage{Role: "user", Content: req.UserPrompt})

	var resp chatResponse
	err := postJSON(ctx, c.http, ProviderOpenAI, c.url("/chat/completions"), c.headers(), body, &resp)
	err = classifyError(ctx, err)
	if err == nil && len(resp.Choices) == 0 {
		err = fmt.Errorf("%w: no choices in response", ErrEmptyResponse)
	}

	var text string
	if err == nil {
		text = resp.Choices[0].Message.Content
	}
	latency := rec.finish(c.observer, text, err)
	if err != nil {
		return nil, err
	}

	model := resp.Model
	if model == "" {
		model = c.cfg.Model
	}
	return &GenerateResponse{Text: text, Model: model, LatencyMs: latency}, nil
}

func (c *openAIClient) Available(ctx context.Context) bool {
	return probe(ctx, c.http, c.url("/models"), c.headers())
}

func (c *openAIClient) url(path string) string {
	return strings.TrimRight(c.cfg.Endpoint, "/") + path
}

func (c *openAIClient) headers() map[string]string {
	return map[string]string{"Authorization": "Bearer " + c.cfg.APIKey}
}
