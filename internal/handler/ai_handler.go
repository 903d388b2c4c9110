package handler

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/boddenberg/crm-previdenciario-go/internal/domain"
	"github.com/boddenberg/crm-previdenciario-go/internal/port"
	"github.com/boddenberg/crm-previdenciario-go/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ============================================================
// Assistente IA
// ============================================================

type textRequest struct {
	Text string `json:"text"`
}

type imageRequest struct {
	Data     string `json:"data"` // base64, with or without a data: URL prefix
	MIMEType string `json:"mimeType"`
}

// aiFailed shows the user-facing AI error as a toast and answers the request.
func aiFailed(w http.ResponseWriter, n port.Notifier, err error, logger *zap.Logger) {
	toast(n, domain.SeverityError, err.Error())
	handleServiceError(w, err, logger)
}

func caseSummaryHandler(crm *service.CrmService, ai *service.AssistantService, n port.Notifier, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/ai/cases/{caseId}/summary")
		defer span.End()

		caseID := chi.URLParam(r, "caseId")
		c, ok := crm.GetCaseByID(caseID)
		if !ok {
			handleServiceError(w, &domain.ErrNotFound{Resource: "case", ID: caseID}, logger)
			return
		}
		clientName := "N/A"
		if client, ok := crm.GetClientByID(c.ClientID); ok {
			clientName = client.Name
		}

		summary, err := ai.GenerateCaseSummary(ctx, c, clientName)
		if err != nil {
			aiFailed(w, n, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, domain.AITextResponse{Operation: service.OpCaseSummary, Content: summary})
	}
}

func taskSuggestionsHandler(crm *service.CrmService, ai *service.AssistantService, n port.Notifier, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/ai/cases/{caseId}/task-suggestions")
		defer span.End()

		caseID := chi.URLParam(r, "caseId")
		c, ok := crm.GetCaseByID(caseID)
		if !ok {
			handleServiceError(w, &domain.ErrNotFound{Resource: "case", ID: caseID}, logger)
			return
		}
		if strings.TrimSpace(c.Notes) == "" {
			handleServiceError(w, &domain.ErrValidation{Field: "notes", Message: "o processo não tem anotações"}, logger)
			return
		}

		raw, err := ai.SuggestTasksFromNotes(ctx, c.Notes)
		if err != nil {
			aiFailed(w, n, err, logger)
			return
		}
		suggestions, err := service.ParseTaskSuggestions(raw)
		if err != nil {
			aiFailed(w, n, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, suggestions)
	}
}

func analyzeDocumentHandler(ai *service.AssistantService, n port.Notifier, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/ai/documents/analyze")
		defer span.End()

		var req textRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if strings.TrimSpace(req.Text) == "" {
			handleServiceError(w, &domain.ErrValidation{Field: "text", Message: "é obrigatório"}, logger)
			return
		}

		analysis, err := ai.AnalyzeDocumentText(ctx, req.Text)
		if err != nil {
			aiFailed(w, n, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, domain.AITextResponse{Operation: service.OpDocumentAnalysis, Content: analysis})
	}
}

func extractClientHandler(ai *service.AssistantService, n port.Notifier, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/ai/clients/extract")
		defer span.End()

		var req textRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if strings.TrimSpace(req.Text) == "" {
			handleServiceError(w, &domain.ErrValidation{Field: "text", Message: "é obrigatório"}, logger)
			return
		}

		raw, err := ai.ExtractClientInfoFromDocument(ctx, req.Text)
		if err != nil {
			aiFailed(w, n, err, logger)
			return
		}
		writeClientInfo(w, n, raw, logger)
	}
}

func extractClientImageHandler(ai *service.AssistantService, n port.Notifier, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/ai/clients/extract-image")
		defer span.End()

		var req imageRequest
		if !decodeBody(w, r, &req) {
			return
		}
		data, mimeType, err := decodeImage(req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		raw, err := ai.ExtractClientInfoFromImage(ctx, data, mimeType)
		if err != nil {
			aiFailed(w, n, err, logger)
			return
		}
		writeClientInfo(w, n, raw, logger)
	}
}

func writeClientInfo(w http.ResponseWriter, n port.Notifier, raw string, logger *zap.Logger) {
	info, err := service.ParseClientInfo(raw)
	if err != nil {
		aiFailed(w, n, err, logger)
		return
	}
	toast(n, domain.SeverityInfo, "Dados extraídos. Revise antes de salvar.")
	writeJSON(w, http.StatusOK, info)
}

// decodeImage accepts plain base64 or a data URL ("data:image/png;base64,...").
func decodeImage(req imageRequest) ([]byte, string, error) {
	payload, mimeType := req.Data, req.MIMEType
	if rest, ok := strings.CutPrefix(payload, "data:"); ok {
		header, body, found := strings.Cut(rest, ",")
		if !found {
			return nil, "", &domain.ErrValidation{Field: "data", Message: "data URL inválida"}
		}
		if mimeType == "" {
			mimeType = strings.TrimSuffix(header, ";base64")
		}
		payload = body
	}
	if payload == "" {
		return nil, "", &domain.ErrValidation{Field: "data", Message: "é obrigatório"}
	}
	if !strings.HasPrefix(mimeType, "image/") && mimeType != "application/pdf" {
		return nil, "", &domain.ErrValidation{Field: "mimeType", Message: "use uma imagem ou PDF"}
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", &domain.ErrValidation{Field: "data", Message: "base64 inválido"}
	}
	return data, mimeType, nil
}
