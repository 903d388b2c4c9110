package service

import (
	"context"
	"slices"

	"github.com/boddenberg/crm-previdenciario-go/internal/domain"
	"github.com/boddenberg/crm-previdenciario-go/internal/infra/store"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// Honorários
// ============================================================

// AddFee stores a new fee. Installments without an id get one; an empty
// status defaults to Pendente.
func (s *CrmService) AddFee(ctx context.Context, in domain.Fee) domain.Fee {
	ctx, span := tracer.Start(ctx, "CrmService.AddFee")
	defer span.End()

	in = in.Clone()
	in.ID = newID("fee")
	if in.Status == "" {
		in.Status = domain.FeeStatusPendente
	}
	for i := range in.Installments {
		if in.Installments[i].ID == "" {
			in.Installments[i].ID = newID("inst")
		}
		if in.Installments[i].Status == "" {
			in.Installments[i].Status = domain.InstallmentPendente
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.fees = append(slices.Clip(s.fees), in)
	s.persist(ctx, store.KeyFees)
	s.mutated("fee", "create")
	span.SetAttributes(attribute.String("fee.id", in.ID))
	return in.Clone()
}

// UpdateFee replaces the fee with the same id.
func (s *CrmService) UpdateFee(ctx context.Context, updated domain.Fee) bool {
	ctx, span := tracer.Start(ctx, "CrmService.UpdateFee")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.fees, func(f domain.Fee) bool { return f.ID == updated.ID })
	if i < 0 {
		return false
	}
	next := slices.Clone(s.fees)
	next[i] = updated.Clone()
	s.fees = next

	s.persist(ctx, store.KeyFees)
	s.mutated("fee", "update")
	return true
}

// UpdateInstallmentStatus sets one installment's status and recomputes the
// fee status from all its installments. Fees without installments are left
// unchanged. The returned fee is the stored result.
func (s *CrmService) UpdateInstallmentStatus(ctx context.Context, feeID, installmentID string, status domain.InstallmentStatus) (domain.Fee, bool) {
	ctx, span := tracer.Start(ctx, "CrmService.UpdateInstallmentStatus")
	defer span.End()
	span.SetAttributes(
		attribute.String("fee.id", feeID),
		attribute.String("installment.id", installmentID),
	)

	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.fees, func(f domain.Fee) bool { return f.ID == feeID })
	if i < 0 || len(s.fees[i].Installments) == 0 {
		return domain.Fee{}, false
	}

	fee := s.fees[i].Clone()
	for j := range fee.Installments {
		if fee.Installments[j].ID == installmentID {
			fee.Installments[j].Status = status
		}
	}
	previous := fee.Status
	fee.Status = domain.StatusFromInstallments(fee.Installments)

	next := slices.Clone(s.fees)
	next[i] = fee
	s.fees = next

	s.persist(ctx, store.KeyFees)
	s.mutated("installment", "update")
	if previous != fee.Status {
		s.logger.Debug("fee status recomputed",
			zap.String("fee_id", feeID),
			zap.String("from", string(previous)),
			zap.String("to", string(fee.Status)),
		)
	}
	return fee.Clone(), true
}

// ============================================================
// Despesas
// ============================================================

// AddExpense stores a new expense.
func (s *CrmService) AddExpense(ctx context.Context, in domain.Expense) domain.Expense {
	ctx, span := tracer.Start(ctx, "CrmService.AddExpense")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	in.ID = newID("exp")
	s.expenses = append(slices.Clip(s.expenses), in)

	s.persist(ctx, store.KeyExpenses)
	s.mutated("expense", "create")
	return in
}

// GetFinancialsByCaseID sums the case's fee amounts and expense amounts.
// balance = totalFees - totalExpenses; fee status does not matter.
func (s *CrmService) GetFinancialsByCaseID(caseID string) domain.CaseFinancials {
	s.mu.RLock()
	defer s.mu.RUnlock()

	totalFees := decimal.Zero
	for _, f := range s.fees {
		if f.CaseID == caseID {
			totalFees = totalFees.Add(f.Amount)
		}
	}
	totalExpenses := decimal.Zero
	for _, e := range s.expenses {
		if e.CaseID == caseID {
			totalExpenses = totalExpenses.Add(e.Amount)
		}
	}

	return domain.CaseFinancials{
		CaseID:        caseID,
		TotalFees:     totalFees,
		TotalExpenses: totalExpenses,
		Balance:       totalFees.Sub(totalExpenses),
	}
}
