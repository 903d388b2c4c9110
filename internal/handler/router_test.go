package handler_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/boddenberg/crm-previdenciario-go/internal/domain"
	"github.com/boddenberg/crm-previdenciario-go/internal/handler"
	"github.com/boddenberg/crm-previdenciario-go/internal/infra/notify"
	"github.com/boddenberg/crm-previdenciario-go/internal/infra/observability"
	"github.com/boddenberg/crm-previdenciario-go/internal/infra/store"
	"github.com/boddenberg/crm-previdenciario-go/internal/service"

	"go.uber.org/zap"
)

// --- Fixtures ---

type stubGenerator struct {
	text string
	err  error
	last *domain.GenerationRequest
}

func (s *stubGenerator) Generate(_ context.Context, req *domain.GenerationRequest) (string, error) {
	s.last = req
	return s.text, s.err
}

type testEnv struct {
	router http.Handler
	crm    *service.CrmService
	relay  *notify.Relay
}

func newEnv(t *testing.T, gen *stubGenerator) *testEnv {
	t.Helper()
	logger := zap.NewNop()
	metrics := observability.NewMetrics()

	crm, err := service.NewCrmService(context.Background(), store.NewMemory(), metrics, logger, service.CrmConfig{})
	if err != nil {
		t.Fatal(err)
	}
	var ai *service.AssistantService
	if gen != nil {
		ai = service.NewAssistantService(gen, metrics, logger)
	} else {
		ai = service.NewAssistantService(nil, metrics, logger)
	}
	relay := notify.New(time.Minute, notify.WithMetrics(metrics))
	t.Cleanup(relay.Close)

	return &testEnv{
		router: handler.NewRouter(crm, ai, relay, metrics, logger),
		crm:    crm,
		relay:  relay,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v (body=%s)", err, rec.Body.String())
	}
	return v
}

// --- Operational ---

func TestHealthz(t *testing.T) {
	env := newEnv(t, nil)

	rec := env.do(t, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	health := decode[domain.HealthStatus](t, rec)
	if health.Status != "degraded" {
		t.Errorf("expected degraded without AI credential, got %s", health.Status)
	}
}

func TestReadyzAndMetrics(t *testing.T) {
	env := newEnv(t, nil)

	for _, path := range []string{"/readyz", "/metrics", "/ping", "/v1/metrics/ai"} {
		if rec := env.do(t, http.MethodGet, path, nil); rec.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, rec.Code)
		}
	}
}

func TestCaseOptions(t *testing.T) {
	env := newEnv(t, nil)

	opts := decode[domain.CaseOptions](t, env.do(t, http.MethodGet, "/v1/options", nil))
	if len(opts.BenefitTypes) != 9 || len(opts.CaseStatuses) != 10 {
		t.Errorf("unexpected options %+v", opts)
	}
	if opts.CaseStatuses[0] != domain.CaseStatusConsultaInicial {
		t.Errorf("expected workflow order, got %s first", opts.CaseStatuses[0])
	}
}

// --- Clients ---

func TestClientCRUD(t *testing.T) {
	env := newEnv(t, nil)

	rec := env.do(t, http.MethodPost, "/v1/clients", map[string]string{"name": "Carlos Lima", "cpf": "333.444.555-66"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	created := decode[domain.Client](t, rec)

	rec = env.do(t, http.MethodPut, "/v1/clients/"+created.ID, map[string]string{"name": "Carlos A. Lima"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	got, _ := env.crm.GetClientByID(created.ID)
	if got.Name != "Carlos A. Lima" || !got.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("unexpected client after update: %+v", got)
	}

	if rec := env.do(t, http.MethodDelete, "/v1/clients/"+created.ID, nil); rec.Code != http.StatusOK {
		t.Errorf("expected 200 on delete, got %d", rec.Code)
	}
	if rec := env.do(t, http.MethodGet, "/v1/clients/"+created.ID, nil); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestCreateClient_Validation(t *testing.T) {
	env := newEnv(t, nil)

	if rec := env.do(t, http.MethodPost, "/v1/clients", map[string]string{"cpf": "1"}); rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without name, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/clients", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed body, got %d", rec.Code)
	}
}

func TestDeleteClient_CascadeOverHTTP(t *testing.T) {
	env := newEnv(t, nil)

	env.do(t, http.MethodDelete, "/v1/clients/cli-1", nil)

	cases := decode[[]domain.Case](t, env.do(t, http.MethodGet, "/v1/cases", nil))
	if len(cases) != 1 || cases[0].ClientID != "cli-2" {
		t.Fatalf("expected only case of cli-2, got %+v", cases)
	}
	if rec := env.do(t, http.MethodGet, "/v1/cases/case-1/financials", nil); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for financials of deleted case, got %d", rec.Code)
	}
}

// --- Cases ---

func TestCreateCase(t *testing.T) {
	env := newEnv(t, nil)

	rec := env.do(t, http.MethodPost, "/v1/cases", map[string]any{
		"caseNumber":  "5555555-55.2024.4.01.0001",
		"clientId":    "cli-2",
		"benefitType": "BPC/LOAS",
		"status":      "Consulta Inicial",
		"startDate":   "2024-03-01T00:00:00Z",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	c := decode[domain.Case](t, rec)
	if len(c.LegalDocuments) != 2 {
		t.Errorf("expected a legal document per template, got %d", len(c.LegalDocuments))
	}
}

func TestCreateCase_Validation(t *testing.T) {
	env := newEnv(t, nil)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"unknown client", map[string]any{"clientId": "cli-404", "benefitType": "BPC/LOAS", "status": "Arquivado"}},
		{"bad benefit", map[string]any{"clientId": "cli-1", "benefitType": "Seguro", "status": "Arquivado"}},
		{"bad status", map[string]any{"clientId": "cli-1", "benefitType": "BPC/LOAS", "status": "Aberto"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := env.do(t, http.MethodPost, "/v1/cases", tt.body); rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestTasksAndUrgent(t *testing.T) {
	env := newEnv(t, nil)

	rec := env.do(t, http.MethodPost, "/v1/cases/case-1/tasks", map[string]any{
		"description": "Ligar para o cliente",
		"dueDate":     time.Now().Add(time.Hour).UTC().Format(time.RFC3339),
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	task := decode[domain.Task](t, rec)

	urgent := decode[[]domain.Task](t, env.do(t, http.MethodGet, "/v1/tasks/urgent", nil))
	if len(urgent) != 2 || urgent[0].ID != task.ID {
		t.Fatalf("expected new task first among 2 urgent, got %+v", urgent)
	}

	task.Completed = true
	if rec := env.do(t, http.MethodPut, "/v1/cases/case-1/tasks/"+task.ID, task); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	urgent = decode[[]domain.Task](t, env.do(t, http.MethodGet, "/v1/tasks/urgent", nil))
	if len(urgent) != 1 {
		t.Errorf("completed task should leave the urgent list, got %d", len(urgent))
	}

	if rec := env.do(t, http.MethodPost, "/v1/cases/case-404/tasks", map[string]string{"description": "x"}); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown case, got %d", rec.Code)
	}
}

func TestDateOnlyInputAccepted(t *testing.T) {
	env := newEnv(t, nil)
	due := time.Now().UTC().AddDate(0, 0, 1).Format(time.DateOnly)

	rec := env.do(t, http.MethodPost, "/v1/cases/case-1/tasks", map[string]any{
		"description": "Protocolar recurso",
		"dueDate":     due,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"dueDate":"`+due+`"`) {
		t.Errorf("expected dueDate echoed as %s, got %s", due, rec.Body.String())
	}
	task := decode[domain.Task](t, rec)

	urgent := decode[[]domain.Task](t, env.do(t, http.MethodGet, "/v1/tasks/urgent", nil))
	if len(urgent) == 0 || urgent[0].ID != task.ID {
		t.Errorf("expected date-only task first among urgent, got %+v", urgent)
	}

	rec = env.do(t, http.MethodPost, "/v1/cases", map[string]any{
		"caseNumber":  "6666666-66.2024.4.01.0001",
		"clientId":    "cli-1",
		"benefitType": "BPC/LOAS",
		"status":      "Consulta Inicial",
		"startDate":   "2024-03-01",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"startDate":"2024-03-01"`) {
		t.Errorf("expected startDate echoed unchanged, got %s", rec.Body.String())
	}
}

func TestUpdateLegalDocument(t *testing.T) {
	env := newEnv(t, nil)

	rec := env.do(t, http.MethodPut, "/v1/cases/case-1/legal-documents/tmpl-1", map[string]string{"status": "Gerado"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	docs := decode[[]domain.LegalDocument](t, rec)
	if docs[0].Status != domain.LegalDocumentGerado {
		t.Errorf("expected Gerado, got %s", docs[0].Status)
	}

	if rec := env.do(t, http.MethodPut, "/v1/cases/case-1/legal-documents/tmpl-1", map[string]string{"status": "Rasgado"}); rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid status, got %d", rec.Code)
	}
}

// --- Fees ---

func TestInstallmentUpdate_RecomputesStatus(t *testing.T) {
	env := newEnv(t, nil)

	var fee domain.Fee
	for _, id := range []string{"inst-2", "inst-3", "inst-4", "inst-5"} {
		rec := env.do(t, http.MethodPut, "/v1/fees/fee-4/installments/"+id, map[string]string{"status": "Pago"})
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", id, rec.Code)
		}
		fee = decode[domain.Fee](t, rec)
	}
	if fee.Status != domain.FeeStatusPago {
		t.Errorf("expected Pago, got %s", fee.Status)
	}

	if rec := env.do(t, http.MethodPut, "/v1/fees/fee-1/installments/inst-0", map[string]string{"status": "Pago"}); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for fee without installments, got %d", rec.Code)
	}
}

func TestCaseFinancials(t *testing.T) {
	env := newEnv(t, nil)

	rec := env.do(t, http.MethodPost, "/v1/expenses", map[string]any{
		"caseId": "case-2", "description": "Perícia", "amount": 100.25, "date": "2024-03-01",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	got := decode[domain.CaseFinancials](t, env.do(t, http.MethodGet, "/v1/cases/case-2/financials", nil))
	// fees 350 + 3000
	if got.TotalFees.String() != "3350" || got.TotalExpenses.String() != "100.25" || got.Balance.String() != "3249.75" {
		t.Errorf("unexpected financials %+v", got)
	}
}

// --- Templates ---

func TestDeleteTemplate(t *testing.T) {
	env := newEnv(t, nil)

	if rec := env.do(t, http.MethodDelete, "/v1/templates/tmpl-2", nil); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	c := decode[domain.Case](t, env.do(t, http.MethodGet, "/v1/cases/case-2", nil))
	if len(c.LegalDocuments) != 1 || c.LegalDocuments[0].TemplateID != "tmpl-1" {
		t.Errorf("unexpected legal documents %+v", c.LegalDocuments)
	}
	if rec := env.do(t, http.MethodDelete, "/v1/templates/tmpl-2", nil); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 on second delete, got %d", rec.Code)
	}
}

// --- AI ---

func TestCaseSummary(t *testing.T) {
	gen := &stubGenerator{text: "## Resumo do caso"}
	env := newEnv(t, gen)

	rec := env.do(t, http.MethodPost, "/v1/ai/cases/case-1/summary", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decode[domain.AITextResponse](t, rec)
	if resp.Content != "## Resumo do caso" {
		t.Errorf("unexpected content %q", resp.Content)
	}
	if !bytes.Contains([]byte(gen.last.Parts[0].Text), []byte("José da Silva")) {
		t.Error("expected client name in prompt")
	}
}

func TestAI_Unavailable(t *testing.T) {
	env := newEnv(t, nil)

	rec := env.do(t, http.MethodPost, "/v1/ai/documents/analyze", map[string]string{"text": "laudo"})
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	body := decode[map[string]string](t, rec)
	if body["error"] != "A chave da API do Google não está configurada." {
		t.Errorf("unexpected error %q", body["error"])
	}

	active := env.relay.Active()
	if len(active) != 1 || active[0].Severity != domain.SeverityError {
		t.Errorf("expected one error toast, got %+v", active)
	}
}

func TestAI_RemoteFailure(t *testing.T) {
	env := newEnv(t, &stubGenerator{err: errors.New("503")})

	rec := env.do(t, http.MethodPost, "/v1/ai/clients/extract", map[string]string{"text": "RG"})
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
}

func TestExtractClientImage(t *testing.T) {
	gen := &stubGenerator{text: `{"name":"Maria Oliveira","cpf":"222.333.444-55"}`}
	env := newEnv(t, gen)

	img := base64.StdEncoding.EncodeToString([]byte("fake-jpeg"))
	rec := env.do(t, http.MethodPost, "/v1/ai/clients/extract-image", map[string]string{
		"data": "data:image/jpeg;base64," + img,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	info := decode[domain.ClientInfo](t, rec)
	if info.Name != "Maria Oliveira" {
		t.Errorf("unexpected info %+v", info)
	}
	if gen.last.Parts[0].MIMEType != "image/jpeg" || string(gen.last.Parts[0].Data) != "fake-jpeg" {
		t.Errorf("unexpected image part %+v", gen.last.Parts[0])
	}

	if rec := env.do(t, http.MethodPost, "/v1/ai/clients/extract-image", map[string]string{"data": "%%%", "mimeType": "image/png"}); rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid base64, got %d", rec.Code)
	}
}

func TestTaskSuggestions(t *testing.T) {
	gen := &stubGenerator{text: `[{"description":"Agendar perícia","reasoning":"INSS pediu laudo"}]`}
	env := newEnv(t, gen)

	rec := env.do(t, http.MethodPost, "/v1/ai/cases/case-2/task-suggestions", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	suggestions := decode[[]domain.TaskSuggestion](t, rec)
	if len(suggestions) != 1 || suggestions[0].DueDate != "" {
		t.Errorf("unexpected suggestions %+v", suggestions)
	}
}

// --- Notifications ---

func TestNotifications_ListAndDismiss(t *testing.T) {
	env := newEnv(t, nil)

	env.do(t, http.MethodPost, "/v1/templates", map[string]string{"title": "Declaração", "content": "..."})

	active := decode[[]domain.Notification](t, env.do(t, http.MethodGet, "/v1/notifications", nil))
	if len(active) != 1 || active[0].Severity != domain.SeveritySuccess {
		t.Fatalf("expected one success toast, got %+v", active)
	}

	path := "/v1/notifications/" + jsonNumber(active[0].ID)
	if rec := env.do(t, http.MethodDelete, path, nil); rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
	if rec := env.do(t, http.MethodDelete, path, nil); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 on second dismiss, got %d", rec.Code)
	}
	if rec := env.do(t, http.MethodDelete, "/v1/notifications/abc", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for non-numeric id, got %d", rec.Code)
	}
}

func jsonNumber(v int64) string {
	b, _ := json.Marshal(v)
	return string(b)
}
