// Package gemini implements the content generator port on top of the
// Google Gen AI SDK (Gemini API or Vertex AI).
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/boddenberg/crm-previdenciario-go/internal/domain"
	"github.com/boddenberg/crm-previdenciario-go/internal/infra/resilience"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

var tracer = otel.Tracer("infra/gemini")

// DefaultModel is used when Config.Model is empty.
const DefaultModel = "gemini-2.5-flash"

const serviceName = "gemini"

// Config selects the backend and tunes the outbound call.
type Config struct {
	APIKey    string
	Model     string
	UseVertex bool
	Project   string
	Location  string
	// BaseURL overrides the API endpoint (tests, proxies).
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Resilience resilience.Config
}

// Client sends generation requests to Gemini.
type Client struct {
	models   *genai.Models
	model    string
	timeout  time.Duration
	cb       *gobreaker.CircuitBreaker
	bulkhead *resilience.Bulkhead
	cfg      resilience.Config
	logger   *zap.Logger
}

// New builds the SDK client. It performs no network I/O.
func New(ctx context.Context, cfg Config, logger *zap.Logger) (*Client, error) {
	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.UseVertex {
		cc.Backend = genai.BackendVertexAI
		if cfg.Project != "" {
			// project mode authenticates with application default credentials
			cc.APIKey = ""
			cc.Project = cfg.Project
			cc.Location = cfg.Location
		}
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	sdk, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("genai client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	return &Client{
		models:   sdk.Models,
		model:    model,
		timeout:  cfg.Timeout,
		cb:       resilience.NewCircuitBreaker(serviceName, logger),
		bulkhead: resilience.NewBulkhead(cfg.Resilience.MaxConcurrency),
		cfg:      cfg.Resilience,
		logger:   logger,
	}, nil
}

// Model returns the configured model name.
func (c *Client) Model() string { return c.model }

// Generate submits req as a single user turn and returns the answer text.
func (c *Client) Generate(ctx context.Context, req *domain.GenerationRequest) (string, error) {
	ctx, span := tracer.Start(ctx, "GeminiClient.Generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("ai.model", c.model),
		attribute.String("ai.operation", req.Operation),
		attribute.Int("ai.parts", len(req.Parts)),
	)

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if err := c.bulkhead.Acquire(ctx); err != nil {
		return "", &domain.ErrExternalService{Service: serviceName, Err: err}
	}
	defer c.bulkhead.Release()

	contents := []*genai.Content{genai.NewContentFromParts(toParts(req.Parts), genai.RoleUser)}
	config := toConfig(req)

	result, err := c.cb.Execute(func() (any, error) {
		var text string
		innerErr := resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			resp, err := c.models.GenerateContent(ctx, c.model, contents, config)
			if err != nil {
				return classify(err)
			}
			text = resp.Text()
			if text == "" {
				return errors.New("empty response from model")
			}
			return nil
		})
		if innerErr != nil {
			return nil, innerErr
		}
		return text, nil
	})

	if err != nil {
		span.RecordError(err)
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", &domain.ErrCircuitOpen{Service: serviceName}
		}
		c.logger.Debug("gemini call failed",
			zap.String("operation", req.Operation),
			zap.Error(err),
		)
		return "", &domain.ErrExternalService{Service: serviceName, Err: err}
	}

	return result.(string), nil
}

// classify marks request errors (4xx other than 429) as not retryable.
func classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code >= 400 && apiErr.Code < 500 && apiErr.Code != 429 {
		return resilience.Permanent(err)
	}
	return err
}

func toParts(parts []domain.Part) []*genai.Part {
	out := make([]*genai.Part, 0, len(parts))
	for _, p := range parts {
		if len(p.Data) > 0 {
			out = append(out, genai.NewPartFromBytes(p.Data, p.MIMEType))
			continue
		}
		out = append(out, genai.NewPartFromText(p.Text))
	}
	return out
}

func toConfig(req *domain.GenerationRequest) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature:      req.Temperature,
		ResponseMIMEType: req.ResponseMIMEType,
	}
	if req.ResponseSchema != nil {
		cfg.ResponseSchema = toSchema(req.ResponseSchema)
	}
	return cfg
}

func toSchema(s *domain.Schema) *genai.Schema {
	out := &genai.Schema{
		Type:        toType(s.Type),
		Description: s.Description,
		Required:    s.Required,
	}
	if s.Nullable {
		out.Nullable = genai.Ptr(true)
	}
	if s.Items != nil {
		out.Items = toSchema(s.Items)
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toSchema(prop)
		}
	}
	return out
}

func toType(t domain.SchemaType) genai.Type {
	switch t {
	case domain.SchemaObject:
		return genai.TypeObject
	case domain.SchemaArray:
		return genai.TypeArray
	default:
		return genai.TypeString
	}
}
