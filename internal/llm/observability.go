package llm

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LLMCallEvent records metadata about a single LLM invocation.
type LLMCallEvent struct {
	RequestID     string
	Task          TaskType
	Provider      Provider
	Model         string
	LatencyMs     int64
	Success       bool
	ErrorCode     string
	PromptBytes   int
	ResponseBytes int
}

// Observer receives events about LLM calls for logging and metrics.
type Observer interface {
	OnCallComplete(event LLMCallEvent)
}

// ZapObserver writes LLM call events to a zap logger.
type ZapObserver struct {
	log *zap.Logger
}

// NewZapObserver creates an Observer that logs events to log.
func NewZapObserver(log *zap.Logger) *ZapObserver {
	return &ZapObserver{log: log.Named("llm")}
}

func (o *ZapObserver) OnCallComplete(event LLMCallEvent) {
	fields := []zap.Field{
		zap.String("request_id", event.RequestID),
		zap.String("task", string(event.Task)),
		zap.String("provider", string(event.Provider)),
		zap.String("model", event.Model),
		zap.Int64("latency_ms", event.LatencyMs),
		zap.Int("prompt_bytes", event.PromptBytes),
		zap.Int("response_bytes", event.ResponseBytes),
	}
	if !event.Success {
		o.log.Warn("llm_call failed", append(fields, zap.String("error_code", event.ErrorCode))...)
		return
	}
	o.log.Info("llm_call", fields...)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(LLMCallEvent) {}

// callRecord builds the event for one call. Every client funnels its result
// through finish so events look the same regardless of provider.
type callRecord struct {
	id       string
	start    time.Time
	provider Provider
	model    string
	req      GenerateRequest
}

func startCall(provider Provider, model string, req GenerateRequest) callRecord {
	return callRecord{
		id:       uuid.NewString(),
		start:    time.Now(),
		provider: provider,
		model:    model,
		req:      req,
	}
}

func (r callRecord) finish(obs Observer, text string, err error) int64 {
	latency := time.Since(r.start).Milliseconds()
	obs.OnCallComplete(LLMCallEvent{
		RequestID:     r.id,
		Task:          r.req.Task,
		Provider:      r.provider,
		Model:         r.model,
		LatencyMs:     latency,
		Success:       err == nil,
		ErrorCode:     errorCode(err),
		PromptBytes:   len(r.req.SystemPrompt) + len(r.req.UserPrompt),
		ResponseBytes: len(text),
	})
	return latency
}
