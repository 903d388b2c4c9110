package handler

import (
	"net/http"
	"time"

	"github.com/boddenberg/crm-previdenciario-go/internal/domain"
	"github.com/boddenberg/crm-previdenciario-go/internal/infra/notify"
	"github.com/boddenberg/crm-previdenciario-go/internal/infra/observability"
	"github.com/boddenberg/crm-previdenciario-go/internal/port"
	"github.com/boddenberg/crm-previdenciario-go/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// NewRouter creates the HTTP router with all routes and middleware.
// Routes replace the screens of the CRM frontend one to one.
func NewRouter(
	crm *service.CrmService,
	ai *service.AssistantService,
	relay *notify.Relay,
	metrics *observability.Metrics,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger, metrics))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(crm, ai))
	r.Get("/readyz", readyzHandler(crm))
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// a nil *notify.Relay must not become a non-nil interface
	var notifier port.Notifier
	if relay != nil {
		notifier = relay
	}

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {

		// =============================================
		// 1. 👤 Clientes
		// =============================================
		r.Get("/clients", listClientsHandler(crm))
		r.Post("/clients", createClientHandler(crm, notifier, logger))
		r.Get("/clients/{clientId}", getClientHandler(crm, logger))
		r.Put("/clients/{clientId}", updateClientHandler(crm, notifier, logger))
		r.Delete("/clients/{clientId}", deleteClientHandler(crm, notifier, logger))

		// =============================================
		// 2. 📁 Processos, tarefas e documentos
		// =============================================
		r.Get("/cases", listCasesHandler(crm))
		r.Post("/cases", createCaseHandler(crm, notifier, logger))
		r.Get("/cases/{caseId}", getCaseHandler(crm, logger))
		r.Put("/cases/{caseId}", updateCaseHandler(crm, notifier, logger))
		r.Delete("/cases/{caseId}", deleteCaseHandler(crm, notifier, logger))
		r.Get("/cases/{caseId}/financials", caseFinancialsHandler(crm, logger))
		r.Post("/cases/{caseId}/tasks", addTaskHandler(crm, notifier, logger))
		r.Put("/cases/{caseId}/tasks/{taskId}", updateTaskHandler(crm, notifier, logger))
		r.Post("/cases/{caseId}/documents", addDocumentHandler(crm, notifier, logger))
		r.Put("/cases/{caseId}/documents/{documentId}", updateDocumentHandler(crm, notifier, logger))
		r.Put("/cases/{caseId}/legal-documents/{templateId}", updateLegalDocumentHandler(crm, notifier, logger))
		r.Get("/tasks/urgent", urgentTasksHandler(crm))
		r.Get("/options", caseOptionsHandler())

		// =============================================
		// 3. 💰 Financeiro
		// =============================================
		r.Get("/fees", listFeesHandler(crm))
		r.Post("/fees", createFeeHandler(crm, notifier, logger))
		r.Put("/fees/{feeId}", updateFeeHandler(crm, notifier, logger))
		r.Put("/fees/{feeId}/installments/{installmentId}", updateInstallmentHandler(crm, notifier, logger))
		r.Get("/expenses", listExpensesHandler(crm))
		r.Post("/expenses", createExpenseHandler(crm, notifier, logger))

		// =============================================
		// 4. 📄 Modelos de documentos
		// =============================================
		r.Get("/templates", listTemplatesHandler(crm))
		r.Post("/templates", createTemplateHandler(crm, notifier, logger))
		r.Put("/templates/{templateId}", updateTemplateHandler(crm, notifier, logger))
		r.Delete("/templates/{templateId}", deleteTemplateHandler(crm, notifier, logger))

		// =============================================
		// 5. 🤖 Assistente IA
		// =============================================
		r.Route("/ai", func(r chi.Router) {
			r.Post("/cases/{caseId}/summary", caseSummaryHandler(crm, ai, notifier, logger))
			r.Post("/cases/{caseId}/task-suggestions", taskSuggestionsHandler(crm, ai, notifier, logger))
			r.Post("/documents/analyze", analyzeDocumentHandler(ai, notifier, logger))
			r.Post("/clients/extract", extractClientHandler(ai, notifier, logger))
			r.Post("/clients/extract-image", extractClientImageHandler(ai, notifier, logger))
		})
		r.Get("/metrics/ai", aiMetricsHandler(metrics))

		// =============================================
		// 6. 🔔 Notificações
		// =============================================
		if relay != nil {
			r.Get("/notifications", listNotificationsHandler(relay))
			r.Delete("/notifications/{notificationId}", dismissNotificationHandler(relay, logger))
		}
	})

	return r
}

// ============================================================
// Operational
// ============================================================

func healthzHandler(crm *service.CrmService, ai *service.AssistantService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().Format(time.RFC3339)

		services := []domain.ServiceHealth{
			{Name: "crm-api", Status: "healthy", LastChecked: now},
		}
		repoStatus := "healthy"
		if crm == nil {
			repoStatus = "unhealthy"
		}
		services = append(services, domain.ServiceHealth{Name: "repository", Status: repoStatus, LastChecked: now})

		aiStatus := "healthy"
		if ai == nil || !ai.Available() {
			aiStatus = "degraded"
		}
		services = append(services, domain.ServiceHealth{Name: "gemini", Status: aiStatus, LastChecked: now})

		overallStatus := "healthy"
		for _, s := range services {
			if s.Status == "unhealthy" {
				overallStatus = "unhealthy"
				break
			}
			if s.Status == "degraded" {
				overallStatus = "degraded"
			}
		}

		writeJSON(w, http.StatusOK, domain.HealthStatus{
			Status:   overallStatus,
			Services: services,
		})
	}
}

func readyzHandler(crm *service.CrmService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if crm == nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func aiMetricsHandler(metrics *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, metrics.GetAISnapshot())
	}
}

func caseOptionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, domain.CaseOptions{
			BenefitTypes: domain.BenefitTypes(),
			CaseStatuses: domain.CaseStatuses(),
		})
	}
}
