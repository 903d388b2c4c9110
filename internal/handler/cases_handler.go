package handler

import (
	"net/http"
	"strings"

	"github.com/boddenberg/crm-previdenciario-go/internal/domain"
	"github.com/boddenberg/crm-previdenciario-go/internal/port"
	"github.com/boddenberg/crm-previdenciario-go/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ============================================================
// Processos
// ============================================================

func listCasesHandler(crm *service.CrmService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cases := crm.Cases()
		if clientID := r.URL.Query().Get("clientId"); clientID != "" {
			filtered := cases[:0]
			for _, c := range cases {
				if c.ClientID == clientID {
					filtered = append(filtered, c)
				}
			}
			cases = filtered
		}
		writeJSON(w, http.StatusOK, cases)
	}
}

func getCaseHandler(crm *service.CrmService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caseID := chi.URLParam(r, "caseId")
		c, ok := crm.GetCaseByID(caseID)
		if !ok {
			handleServiceError(w, &domain.ErrNotFound{Resource: "case", ID: caseID}, logger)
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

// validateCase checks the fields a case must carry on create and update.
func validateCase(crm *service.CrmService, c domain.Case) error {
	if _, ok := crm.GetClientByID(c.ClientID); !ok {
		return &domain.ErrValidation{Field: "clientId", Message: "cliente não encontrado"}
	}
	if !c.BenefitType.Valid() {
		return &domain.ErrValidation{Field: "benefitType", Message: "tipo de benefício inválido"}
	}
	if !c.Status.Valid() {
		return &domain.ErrValidation{Field: "status", Message: "status inválido"}
	}
	return nil
}

func createCaseHandler(crm *service.CrmService, n port.Notifier, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/cases")
		defer span.End()

		var in domain.Case
		if !decodeBody(w, r, &in) {
			return
		}
		if err := validateCase(crm, in); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		created := crm.AddCase(ctx, in)
		toast(n, domain.SeveritySuccess, "Processo criado com sucesso!")
		writeJSON(w, http.StatusCreated, created)
	}
}

func updateCaseHandler(crm *service.CrmService, n port.Notifier, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/cases/{caseId}")
		defer span.End()

		caseID := chi.URLParam(r, "caseId")
		var in domain.Case
		if !decodeBody(w, r, &in) {
			return
		}
		in.ID = caseID
		if err := validateCase(crm, in); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		if !crm.UpdateCase(ctx, in) {
			handleServiceError(w, &domain.ErrNotFound{Resource: "case", ID: caseID}, logger)
			return
		}
		updated, _ := crm.GetCaseByID(caseID)
		toast(n, domain.SeveritySuccess, "Processo atualizado com sucesso!")
		writeJSON(w, http.StatusOK, updated)
	}
}

func deleteCaseHandler(crm *service.CrmService, n port.Notifier, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/cases/{caseId}")
		defer span.End()

		caseID := chi.URLParam(r, "caseId")
		if !crm.DeleteCase(ctx, caseID) {
			handleServiceError(w, &domain.ErrNotFound{Resource: "case", ID: caseID}, logger)
			return
		}
		toast(n, domain.SeveritySuccess, "Processo excluído.")
		writeJSON(w, http.StatusOK, domain.SuccessResponse{Message: "case deleted", ID: caseID})
	}
}

func caseFinancialsHandler(crm *service.CrmService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caseID := chi.URLParam(r, "caseId")
		if _, ok := crm.GetCaseByID(caseID); !ok {
			handleServiceError(w, &domain.ErrNotFound{Resource: "case", ID: caseID}, logger)
			return
		}
		writeJSON(w, http.StatusOK, crm.GetFinancialsByCaseID(caseID))
	}
}

// ============================================================
// Tarefas
// ============================================================

func urgentTasksHandler(crm *service.CrmService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, crm.GetUrgentTasks(crm.Now()))
	}
}

func addTaskHandler(crm *service.CrmService, n port.Notifier, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/cases/{caseId}/tasks")
		defer span.End()

		caseID := chi.URLParam(r, "caseId")
		var in domain.Task
		if !decodeBody(w, r, &in) {
			return
		}
		if strings.TrimSpace(in.Description) == "" {
			handleServiceError(w, &domain.ErrValidation{Field: "description", Message: "é obrigatório"}, logger)
			return
		}

		task, ok := crm.AddTaskToCase(ctx, caseID, in)
		if !ok {
			handleServiceError(w, &domain.ErrNotFound{Resource: "case", ID: caseID}, logger)
			return
		}
		toast(n, domain.SeveritySuccess, "Tarefa adicionada!")
		writeJSON(w, http.StatusCreated, task)
	}
}

func updateTaskHandler(crm *service.CrmService, n port.Notifier, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/cases/{caseId}/tasks/{taskId}")
		defer span.End()

		var in domain.Task
		if !decodeBody(w, r, &in) {
			return
		}
		in.CaseID = chi.URLParam(r, "caseId")
		in.ID = chi.URLParam(r, "taskId")

		if !crm.UpdateTask(ctx, in) {
			handleServiceError(w, &domain.ErrNotFound{Resource: "task", ID: in.ID}, logger)
			return
		}
		toast(n, domain.SeveritySuccess, "Tarefa atualizada!")
		writeJSON(w, http.StatusOK, in)
	}
}

// ============================================================
// Documentos
// ============================================================

func addDocumentHandler(crm *service.CrmService, n port.Notifier, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/cases/{caseId}/documents")
		defer span.End()

		caseID := chi.URLParam(r, "caseId")
		var in domain.Document
		if !decodeBody(w, r, &in) {
			return
		}
		if strings.TrimSpace(in.Name) == "" {
			handleServiceError(w, &domain.ErrValidation{Field: "name", Message: "é obrigatório"}, logger)
			return
		}

		doc, ok := crm.AddDocumentToCase(ctx, caseID, in)
		if !ok {
			handleServiceError(w, &domain.ErrNotFound{Resource: "case", ID: caseID}, logger)
			return
		}
		toast(n, domain.SeveritySuccess, "Documento anexado!")
		writeJSON(w, http.StatusCreated, doc)
	}
}

func updateDocumentHandler(crm *service.CrmService, n port.Notifier, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/cases/{caseId}/documents/{documentId}")
		defer span.End()

		caseID := chi.URLParam(r, "caseId")
		var in domain.Document
		if !decodeBody(w, r, &in) {
			return
		}
		in.ID = chi.URLParam(r, "documentId")

		if !crm.UpdateDocumentInCase(ctx, caseID, in) {
			handleServiceError(w, &domain.ErrNotFound{Resource: "document", ID: in.ID}, logger)
			return
		}
		toast(n, domain.SeveritySuccess, "Documento atualizado!")
		writeJSON(w, http.StatusOK, in)
	}
}

type legalDocumentStatusRequest struct {
	Status domain.LegalDocumentStatus `json:"status"`
}

func updateLegalDocumentHandler(crm *service.CrmService, n port.Notifier, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/cases/{caseId}/legal-documents/{templateId}")
		defer span.End()

		caseID := chi.URLParam(r, "caseId")
		templateID := chi.URLParam(r, "templateId")
		var req legalDocumentStatusRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if !req.Status.Valid() {
			handleServiceError(w, &domain.ErrValidation{Field: "status", Message: "use Pendente, Gerado ou Assinado"}, logger)
			return
		}

		if !crm.UpdateCaseLegalDocumentStatus(ctx, caseID, templateID, req.Status) {
			handleServiceError(w, &domain.ErrNotFound{Resource: "legal document", ID: caseID + "/" + templateID}, logger)
			return
		}
		toast(n, domain.SeveritySuccess, "Status do documento atualizado!")
		updated, _ := crm.GetCaseByID(caseID)
		writeJSON(w, http.StatusOK, updated.LegalDocuments)
	}
}
