package handler

import (
	"net/http"
	"strconv"

	"github.com/boddenberg/crm-previdenciario-go/internal/domain"
	"github.com/boddenberg/crm-previdenciario-go/internal/infra/notify"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ============================================================
// Notificações
// ============================================================

func listNotificationsHandler(relay *notify.Relay) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, relay.Active())
	}
}

func dismissNotificationHandler(relay *notify.Relay, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := chi.URLParam(r, "notificationId")
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			handleServiceError(w, &domain.ErrValidation{Field: "notificationId", Message: "must be an integer"}, logger)
			return
		}
		if !relay.Dismiss(id) {
			handleServiceError(w, &domain.ErrNotFound{Resource: "notification", ID: raw}, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
