package gemini_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/boddenberg/crm-previdenciario-go/internal/domain"
	"github.com/boddenberg/crm-previdenciario-go/internal/infra/gemini"
	"github.com/boddenberg/crm-previdenciario-go/internal/infra/resilience"

	"go.uber.org/zap"
)

func newClient(t *testing.T, srv *httptest.Server) *gemini.Client {
	t.Helper()
	c, err := gemini.New(context.Background(), gemini.Config{
		APIKey:     "test-key",
		BaseURL:    srv.URL + "/",
		Timeout:    2 * time.Second,
		HTTPClient: srv.Client(),
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("gemini.New: %v", err)
	}
	return c
}

func textResponse(text string) string {
	return `{"candidates":[{"content":{"role":"model","parts":[{"text":` + jsonString(text) + `}]}}]}`
}

func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func TestGenerate_Success(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "models/gemini-2.5-flash:generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, textResponse(`{"name":"Ana"}`))
	}))
	defer srv.Close()

	c := newClient(t, srv)
	temp := float32(0.3)
	got, err := c.Generate(context.Background(), &domain.GenerationRequest{
		Operation:        "client_info_text",
		Parts:            []domain.Part{{Text: "Extraia"}},
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
		ResponseSchema: &domain.Schema{
			Type:       domain.SchemaObject,
			Properties: map[string]*domain.Schema{"name": {Type: domain.SchemaString}},
		},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != `{"name":"Ana"}` {
		t.Errorf("unexpected text %q", got)
	}

	gc, _ := body["generationConfig"].(map[string]any)
	if gc["responseMimeType"] != "application/json" {
		t.Errorf("responseMimeType not sent: %v", gc)
	}
	if gc["responseSchema"] == nil {
		t.Error("responseSchema not sent")
	}
}

func TestGenerate_InlineImage(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		_, _ = io.WriteString(w, textResponse("{}"))
	}))
	defer srv.Close()

	c := newClient(t, srv)
	_, err := c.Generate(context.Background(), &domain.GenerationRequest{
		Operation: "client_info_image",
		Parts: []domain.Part{
			{Data: []byte("fake-png"), MIMEType: "image/png"},
			{Text: "Extraia"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	contents := body["contents"].([]any)
	parts := contents[0].(map[string]any)["parts"].([]any)
	inline, ok := parts[0].(map[string]any)["inlineData"].(map[string]any)
	if !ok || inline["mimeType"] != "image/png" {
		t.Errorf("expected inline image first, got %v", parts[0])
	}
}

func TestGenerate_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":{"code":500,"message":"boom","status":"INTERNAL"}}`)
	}))
	defer srv.Close()

	c := newClient(t, srv)
	_, err := c.Generate(context.Background(), &domain.GenerationRequest{
		Operation: "case_summary",
		Parts:     []domain.Part{{Text: "Resuma"}},
	})

	var extErr *domain.ErrExternalService
	if !errors.As(err, &extErr) {
		t.Fatalf("expected ErrExternalService, got %v", err)
	}
}

func TestGenerate_SingleRoundTripByDefault(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":{"code":400,"message":"invalid","status":"INVALID_ARGUMENT"}}`)
	}))
	defer srv.Close()

	c := newClient(t, srv)
	_, _ = c.Generate(context.Background(), &domain.GenerationRequest{
		Operation: "case_summary",
		Parts:     []domain.Part{{Text: "Resuma"}},
	})

	if n := hits.Load(); n != 1 {
		t.Errorf("expected exactly 1 request, got %d", n)
	}
}

func TestGenerate_CircuitOpens(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":{"code":400,"message":"invalid","status":"INVALID_ARGUMENT"}}`)
	}))
	defer srv.Close()

	c := newClient(t, srv)
	req := &domain.GenerationRequest{Operation: "case_summary", Parts: []domain.Part{{Text: "x"}}}
	for range 5 {
		_, _ = c.Generate(context.Background(), req)
	}

	_, err := c.Generate(context.Background(), req)
	var open *domain.ErrCircuitOpen
	if !errors.As(err, &open) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
}

func TestGenerate_RequestErrorsAreNotRetried(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":{"code":400,"message":"invalid","status":"INVALID_ARGUMENT"}}`)
	}))
	defer srv.Close()

	c, err := gemini.New(context.Background(), gemini.Config{
		APIKey:     "test-key",
		BaseURL:    srv.URL + "/",
		HTTPClient: srv.Client(),
		Resilience: resilience.Config{MaxRetries: 2, InitialBackoff: time.Millisecond},
	}, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	_, err = c.Generate(context.Background(), &domain.GenerationRequest{
		Operation: "document_analysis",
		Parts:     []domain.Part{{Text: "laudo"}},
	})
	var ext *domain.ErrExternalService
	if !errors.As(err, &ext) {
		t.Fatalf("expected ErrExternalService, got %v", err)
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("expected a 400 to be tried once, got %d requests", n)
	}
}
