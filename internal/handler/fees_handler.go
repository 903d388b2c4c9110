package handler

import (
	"net/http"

	"github.com/boddenberg/crm-previdenciario-go/internal/domain"
	"github.com/boddenberg/crm-previdenciario-go/internal/port"
	"github.com/boddenberg/crm-previdenciario-go/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ============================================================
// Honorários e Despesas
// ============================================================

func listFeesHandler(crm *service.CrmService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fees := crm.Fees()
		if caseID := r.URL.Query().Get("caseId"); caseID != "" {
			filtered := fees[:0]
			for _, f := range fees {
				if f.CaseID == caseID {
					filtered = append(filtered, f)
				}
			}
			fees = filtered
		}
		writeJSON(w, http.StatusOK, fees)
	}
}

func validateFee(crm *service.CrmService, f domain.Fee) error {
	if _, ok := crm.GetCaseByID(f.CaseID); !ok {
		return &domain.ErrValidation{Field: "caseId", Message: "processo não encontrado"}
	}
	if !f.Type.Valid() {
		return &domain.ErrValidation{Field: "type", Message: "tipo de honorário inválido"}
	}
	if f.Status != "" && !f.Status.Valid() {
		return &domain.ErrValidation{Field: "status", Message: "status inválido"}
	}
	if f.Amount.IsNegative() {
		return &domain.ErrValidation{Field: "amount", Message: "não pode ser negativo"}
	}
	for _, inst := range f.Installments {
		if inst.Status != "" && !inst.Status.Valid() {
			return &domain.ErrValidation{Field: "installments.status", Message: "use Pago ou Pendente"}
		}
	}
	return nil
}

func createFeeHandler(crm *service.CrmService, n port.Notifier, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/fees")
		defer span.End()

		var in domain.Fee
		if !decodeBody(w, r, &in) {
			return
		}
		if err := validateFee(crm, in); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		created := crm.AddFee(ctx, in)
		toast(n, domain.SeveritySuccess, "Honorário adicionado!")
		writeJSON(w, http.StatusCreated, created)
	}
}

func updateFeeHandler(crm *service.CrmService, n port.Notifier, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/fees/{feeId}")
		defer span.End()

		var in domain.Fee
		if !decodeBody(w, r, &in) {
			return
		}
		in.ID = chi.URLParam(r, "feeId")
		if err := validateFee(crm, in); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		if !crm.UpdateFee(ctx, in) {
			handleServiceError(w, &domain.ErrNotFound{Resource: "fee", ID: in.ID}, logger)
			return
		}
		toast(n, domain.SeveritySuccess, "Honorário atualizado!")
		writeJSON(w, http.StatusOK, in)
	}
}

type installmentStatusRequest struct {
	Status domain.InstallmentStatus `json:"status"`
}

func updateInstallmentHandler(crm *service.CrmService, n port.Notifier, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/fees/{feeId}/installments/{installmentId}")
		defer span.End()

		feeID := chi.URLParam(r, "feeId")
		installmentID := chi.URLParam(r, "installmentId")
		var req installmentStatusRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if !req.Status.Valid() {
			handleServiceError(w, &domain.ErrValidation{Field: "status", Message: "use Pago ou Pendente"}, logger)
			return
		}

		fee, ok := crm.UpdateInstallmentStatus(ctx, feeID, installmentID, req.Status)
		if !ok {
			handleServiceError(w, &domain.ErrNotFound{Resource: "installment", ID: feeID + "/" + installmentID}, logger)
			return
		}
		toast(n, domain.SeveritySuccess, "Status da parcela atualizado!")
		writeJSON(w, http.StatusOK, fee)
	}
}

func listExpensesHandler(crm *service.CrmService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		expenses := crm.Expenses()
		if caseID := r.URL.Query().Get("caseId"); caseID != "" {
			filtered := expenses[:0]
			for _, e := range expenses {
				if e.CaseID == caseID {
					filtered = append(filtered, e)
				}
			}
			expenses = filtered
		}
		writeJSON(w, http.StatusOK, expenses)
	}
}

func createExpenseHandler(crm *service.CrmService, n port.Notifier, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/expenses")
		defer span.End()

		var in domain.Expense
		if !decodeBody(w, r, &in) {
			return
		}
		if _, ok := crm.GetCaseByID(in.CaseID); !ok {
			handleServiceError(w, &domain.ErrValidation{Field: "caseId", Message: "processo não encontrado"}, logger)
			return
		}
		if in.Amount.IsNegative() {
			handleServiceError(w, &domain.ErrValidation{Field: "amount", Message: "não pode ser negativo"}, logger)
			return
		}

		created := crm.AddExpense(ctx, in)
		toast(n, domain.SeveritySuccess, "Despesa adicionada!")
		writeJSON(w, http.StatusCreated, created)
	}
}
