package observability_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/boddenberg/crm-previdenciario-go/internal/infra/observability"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func TestGetAISnapshot(t *testing.T) {
	m := observability.NewMetrics()
	m.IncrAICall("case_summary", "success")
	m.IncrAICall("case_summary", "success")
	m.IncrAICall("task_suggestions", "success")
	m.IncrAICall("task_suggestions", "error")

	snap := m.GetAISnapshot()
	if snap.TotalRequests != 4 || snap.Failures != 1 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if snap.ErrorRate != 0.25 {
		t.Errorf("expected error rate 0.25, got %v", snap.ErrorRate)
	}
}

func TestGetAISnapshot_Empty(t *testing.T) {
	snap := observability.NewMetrics().GetAISnapshot()
	if snap.TotalRequests != 0 || snap.ErrorRate != 0 || snap.Period != "all_time" {
		t.Errorf("unexpected snapshot %+v", snap)
	}
}

func TestCounters(t *testing.T) {
	m := observability.NewMetrics()
	m.IncrMutation("client", "delete")
	m.IncrPersistFailure("crm_cases")
	m.IncrPersistFailure("crm_cases")

	if got := m.MutationCount("client", "delete"); got != 1 {
		t.Errorf("expected 1 mutation, got %v", got)
	}
	if got := m.PersistFailureCount("crm_cases"); got != 2 {
		t.Errorf("expected 2 failures, got %v", got)
	}
}

func TestZapLoggerMiddleware_LabelsByRoutePattern(t *testing.T) {
	m := observability.NewMetrics()

	r := chi.NewRouter()
	r.Use(observability.ZapLoggerMiddleware(zap.NewNop(), m))
	r.Get("/v1/cases/{caseId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, id := range []string{"case-1", "case-2", "case-3"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/cases/"+id, nil))
	}

	families, err := m.Registry.Gather()
	if err != nil {
		t.Fatal(err)
	}
	for _, mf := range families {
		if mf.GetName() != "crm_request_duration_seconds" {
			continue
		}
		if len(mf.GetMetric()) != 1 {
			t.Fatalf("expected a single series for the route pattern, got %d", len(mf.GetMetric()))
		}
		series := mf.GetMetric()[0]
		if got := series.GetLabel()[0].GetValue(); got != "GET /v1/cases/{caseId}" {
			t.Errorf("unexpected operation label %q", got)
		}
		if got := series.GetHistogram().GetSampleCount(); got != 3 {
			t.Errorf("expected 3 samples, got %d", got)
		}
		return
	}
	t.Fatal("request duration histogram not found")
}
