package estimation

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/scopewise/internal/domain"
	"github.com/alexanderramin/scopewise/internal/llm"
	"go.uber.org/zap"
)

// EstimateService runs one brief through the model and reconciles the reply.
type EstimateService interface {
	// Estimate builds the prompt, calls the model once and reconciles the reply.
	Estimate(ctx context.Context, brief domain.ProjectBrief) (*domain.Estimate, error)

	// Prompt builds the prompt without calling the model.
	Prompt(brief domain.ProjectBrief) (Prompt, error)

	// Reconcile parses a reply obtained elsewhere, e.g. a saved response file.
	Reconcile(raw string) (*domain.Estimate, error)
}

type estimateService struct {
	client     llm.LLMClient
	builder    *RequestBuilder
	reconciler *Reconciler
	log        *zap.Logger
}

// NewEstimateService wires the builder and reconciler to an LLM client.
// client may be nil when only Prompt and Reconcile are used.
func NewEstimateService(client llm.LLMClient, builder *RequestBuilder, reconciler *Reconciler, log *zap.Logger) EstimateService {
	if log == nil {
		log = zap.NewNop()
	}
	return &estimateService{
		client:     client,
		builder:    builder,
		reconciler: reconciler,
		log:        log.Named("estimate"),
	}
}

func (s *estimateService) Prompt(brief domain.ProjectBrief) (Prompt, error) {
	return s.builder.Build(brief)
}

func (s *estimateService) Estimate(ctx context.Context, brief domain.ProjectBrief) (*domain.Estimate, error) {
	prompt, err := s.builder.Build(brief)
	if err != nil {
		return nil, err
	}
	if s.client == nil {
		return nil, fmt.Errorf("%w: no generation client configured", ErrService)
	}

	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskEstimate,
		SystemPrompt: prompt.System,
		UserPrompt:   prompt.Text,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrService, err)
	}

	return s.Reconcile(resp.Text)
}

func (s *estimateService) Reconcile(raw string) (*domain.Estimate, error) {
	est, err := s.reconciler.Reconcile(raw)
	if err != nil {
		var mre *MalformedResponseError
		if errors.As(err, &mre) {
			s.log.Warn("reply had no JSON object",
				zap.Int("response_bytes", len(raw)),
				zap.String("diagnostic", mre.Diagnostic))
		}
		return nil, err
	}

	for _, w := range est.Warnings {
		fields := []zap.Field{zap.String("kind", string(w.Kind))}
		switch w.Kind {
		case domain.WarnTotalMismatch:
			fields = append(fields, zap.Float64("reported", w.Reported), zap.Float64("local", w.Local))
		case domain.WarnMissingKeys:
			fields = append(fields, zap.Strings("missing", w.MissingKeys))
		case domain.WarnDuplicateFeature:
			fields = append(fields, zap.Strings("names", w.Names))
		}
		s.log.Warn(w.Message, fields...)
	}
	s.log.Debug("reconciled reply",
		zap.Int("features", len(est.Features)),
		zap.Float64("local_total", est.LocalTotal),
		zap.Int("warnings", len(est.Warnings)))
	return est, nil
}
