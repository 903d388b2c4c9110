package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/boddenberg/crm-previdenciario-go/internal/domain"
	"github.com/boddenberg/crm-previdenciario-go/internal/infra/observability"
	"github.com/boddenberg/crm-previdenciario-go/internal/port"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// AI operation names, used in spans, metrics and logs.
const (
	OpCaseSummary       = "case_summary"
	OpDocumentAnalysis  = "document_analysis"
	OpClientInfoText    = "client_info_text"
	OpClientInfoImage   = "client_info_image"
	OpTaskSuggestions   = "task_suggestions"
	jsonMIMEType        = "application/json"
	summaryTemperature  = float32(0.5)
	analysisTemperature = float32(0.3)
)

// AssistantService builds the fixed prompts for each AI operation and sends
// them through the content generator. It keeps no state between calls.
type AssistantService struct {
	generator port.ContentGenerator
	metrics   *observability.Metrics
	logger    *zap.Logger
	now       func() time.Time
}

// NewAssistantService creates the AI gateway. A nil generator means the
// credential is not configured: every operation fails with ErrAIUnavailable.
func NewAssistantService(
	generator port.ContentGenerator,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *AssistantService {
	if generator == nil {
		logger.Warn("AI credential not configured, AI features will not work")
	}
	return &AssistantService{
		generator: generator,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

// Available reports whether a generator is configured.
func (a *AssistantService) Available() bool {
	return a.generator != nil
}

// GenerateCaseSummary returns a markdown summary of the case.
func (a *AssistantService) GenerateCaseSummary(ctx context.Context, c domain.Case, clientName string) (string, error) {
	return a.generate(ctx, &domain.GenerationRequest{
		Operation:   OpCaseSummary,
		Parts:       []domain.Part{{Text: buildCaseSummaryPrompt(c, clientName)}},
		Temperature: ptr(summaryTemperature),
	})
}

// AnalyzeDocumentText returns a markdown analysis of free text.
func (a *AssistantService) AnalyzeDocumentText(ctx context.Context, text string) (string, error) {
	return a.generate(ctx, &domain.GenerationRequest{
		Operation:   OpDocumentAnalysis,
		Parts:       []domain.Part{{Text: buildDocumentAnalysisPrompt(text)}},
		Temperature: ptr(analysisTemperature),
	})
}

// ExtractClientInfoFromDocument returns the JSON text of the person and
// address data found in text.
func (a *AssistantService) ExtractClientInfoFromDocument(ctx context.Context, text string) (string, error) {
	return a.generate(ctx, &domain.GenerationRequest{
		Operation:        OpClientInfoText,
		Parts:            []domain.Part{{Text: buildClientInfoTextPrompt(text)}},
		ResponseMIMEType: jsonMIMEType,
		ResponseSchema:   clientInfoSchema(),
	})
}

// ExtractClientInfoFromImage is ExtractClientInfoFromDocument for a
// document photo or scan. The image goes first, then the instructions.
func (a *AssistantService) ExtractClientInfoFromImage(ctx context.Context, image []byte, mimeType string) (string, error) {
	return a.generate(ctx, &domain.GenerationRequest{
		Operation: OpClientInfoImage,
		Parts: []domain.Part{
			{Data: image, MIMEType: mimeType},
			{Text: clientInfoExtractionPrompt},
		},
		ResponseMIMEType: jsonMIMEType,
		ResponseSchema:   clientInfoSchema(),
	})
}

// SuggestTasksFromNotes returns the JSON text of an array of task
// suggestions derived from case notes.
func (a *AssistantService) SuggestTasksFromNotes(ctx context.Context, notes string) (string, error) {
	return a.generate(ctx, &domain.GenerationRequest{
		Operation:        OpTaskSuggestions,
		Parts:            []domain.Part{{Text: buildTaskSuggestionPrompt(notes, a.now())}},
		ResponseMIMEType: jsonMIMEType,
		ResponseSchema:   taskSuggestionSchema(),
	})
}

// generate is the single round trip shared by every operation.
func (a *AssistantService) generate(ctx context.Context, req *domain.GenerationRequest) (string, error) {
	ctx, span := tracer.Start(ctx, "AssistantService."+req.Operation)
	defer span.End()
	span.SetAttributes(attribute.String("ai.operation", req.Operation))

	if a.generator == nil {
		a.metrics.IncrAICall(req.Operation, "unavailable")
		return "", &domain.ErrAIUnavailable{}
	}

	start := time.Now()
	text, err := a.generator.Generate(ctx, req)
	a.metrics.RecordRequestDuration("ai."+req.Operation, time.Since(start))

	if err != nil {
		a.logger.Error("AI call failed",
			zap.String("operation", req.Operation),
			zap.Error(err),
		)
		a.metrics.IncrAICall(req.Operation, "error")
		span.RecordError(err)
		return "", &domain.ErrAIRequest{Operation: req.Operation, Err: err}
	}

	a.metrics.IncrAICall(req.Operation, "success")
	return text, nil
}

// ============================================================
// Decodificação das respostas JSON
// ============================================================

// ParseClientInfo decodes the text returned by the client-info extractions.
func ParseClientInfo(text string) (domain.ClientInfo, error) {
	var info domain.ClientInfo
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &info); err != nil {
		return domain.ClientInfo{}, &domain.ErrAIRequest{Operation: "parse_client_info", Err: err}
	}
	return info, nil
}

// ParseTaskSuggestions decodes the text returned by SuggestTasksFromNotes.
func ParseTaskSuggestions(text string) ([]domain.TaskSuggestion, error) {
	suggestions := []domain.TaskSuggestion{}
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &suggestions); err != nil {
		return nil, &domain.ErrAIRequest{Operation: "parse_task_suggestions", Err: err}
	}
	if suggestions == nil {
		suggestions = []domain.TaskSuggestion{}
	}
	return suggestions, nil
}

// stripCodeFence removes a ```json ... ``` wrapper some models add even in
// JSON mode.
func stripCodeFence(text string) string {
	t := strings.TrimSpace(text)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	t = strings.TrimPrefix(t, "```")
	t = strings.TrimPrefix(t, "json")
	t = strings.TrimSuffix(t, "```")
	return strings.TrimSpace(t)
}

func ptr[T any](v T) *T { return &v }
