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
// Modelos de documentos
// ============================================================

func listTemplatesHandler(crm *service.CrmService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, crm.Templates())
	}
}

func createTemplateHandler(crm *service.CrmService, n port.Notifier, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/templates")
		defer span.End()

		var in domain.DocumentTemplate
		if !decodeBody(w, r, &in) {
			return
		}
		if strings.TrimSpace(in.Title) == "" {
			handleServiceError(w, &domain.ErrValidation{Field: "title", Message: "é obrigatório"}, logger)
			return
		}

		created := crm.AddTemplate(ctx, in)
		toast(n, domain.SeveritySuccess, "Modelo criado com sucesso!")
		writeJSON(w, http.StatusCreated, created)
	}
}

func updateTemplateHandler(crm *service.CrmService, n port.Notifier, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/templates/{templateId}")
		defer span.End()

		var in domain.DocumentTemplate
		if !decodeBody(w, r, &in) {
			return
		}
		in.ID = chi.URLParam(r, "templateId")
		if strings.TrimSpace(in.Title) == "" {
			handleServiceError(w, &domain.ErrValidation{Field: "title", Message: "é obrigatório"}, logger)
			return
		}

		if !crm.UpdateTemplate(ctx, in) {
			handleServiceError(w, &domain.ErrNotFound{Resource: "template", ID: in.ID}, logger)
			return
		}
		toast(n, domain.SeveritySuccess, "Modelo atualizado com sucesso!")
		writeJSON(w, http.StatusOK, in)
	}
}

func deleteTemplateHandler(crm *service.CrmService, n port.Notifier, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/templates/{templateId}")
		defer span.End()

		templateID := chi.URLParam(r, "templateId")
		if !crm.DeleteTemplate(ctx, templateID) {
			handleServiceError(w, &domain.ErrNotFound{Resource: "template", ID: templateID}, logger)
			return
		}
		toast(n, domain.SeveritySuccess, "Modelo excluído.")
		writeJSON(w, http.StatusOK, domain.SuccessResponse{Message: "template deleted", ID: templateID})
	}
}
