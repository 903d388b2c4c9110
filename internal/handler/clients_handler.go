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
// Clientes
// ============================================================

func listClientsHandler(crm *service.CrmService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, crm.Clients())
	}
}

func getClientHandler(crm *service.CrmService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID := chi.URLParam(r, "clientId")
		c, ok := crm.GetClientByID(clientID)
		if !ok {
			handleServiceError(w, &domain.ErrNotFound{Resource: "client", ID: clientID}, logger)
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

func createClientHandler(crm *service.CrmService, n port.Notifier, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/clients")
		defer span.End()

		var in domain.Client
		if !decodeBody(w, r, &in) {
			return
		}
		if strings.TrimSpace(in.Name) == "" {
			handleServiceError(w, &domain.ErrValidation{Field: "name", Message: "é obrigatório"}, logger)
			return
		}

		created := crm.AddClient(ctx, in)
		toast(n, domain.SeveritySuccess, "Cliente adicionado com sucesso!")
		writeJSON(w, http.StatusCreated, created)
	}
}

func updateClientHandler(crm *service.CrmService, n port.Notifier, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/clients/{clientId}")
		defer span.End()

		clientID := chi.URLParam(r, "clientId")
		var in domain.Client
		if !decodeBody(w, r, &in) {
			return
		}
		in.ID = clientID
		if strings.TrimSpace(in.Name) == "" {
			handleServiceError(w, &domain.ErrValidation{Field: "name", Message: "é obrigatório"}, logger)
			return
		}
		// createdAt is not editable
		if current, ok := crm.GetClientByID(clientID); ok && in.CreatedAt.IsZero() {
			in.CreatedAt = current.CreatedAt
		}

		if !crm.UpdateClient(ctx, in) {
			handleServiceError(w, &domain.ErrNotFound{Resource: "client", ID: clientID}, logger)
			return
		}
		toast(n, domain.SeveritySuccess, "Cliente atualizado com sucesso!")
		writeJSON(w, http.StatusOK, in)
	}
}

func deleteClientHandler(crm *service.CrmService, n port.Notifier, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/clients/{clientId}")
		defer span.End()

		clientID := chi.URLParam(r, "clientId")
		if !crm.DeleteClient(ctx, clientID) {
			handleServiceError(w, &domain.ErrNotFound{Resource: "client", ID: clientID}, logger)
			return
		}
		toast(n, domain.SeveritySuccess, "Cliente e todos os seus dados foram excluídos.")
		writeJSON(w, http.StatusOK, domain.SuccessResponse{Message: "client deleted", ID: clientID})
	}
}
