package domain

import (
	"slices"

	"github.com/shopspring/decimal"
)

// Money is exchanged as JSON numbers everywhere a domain value is encoded,
// including the persisted collections.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// ============================================================
// Honorários e Parcelas
// ============================================================

// FeeType classifies a billable charge.
type FeeType string

const (
	FeeTypeConsulta  FeeType = "Consulta"
	FeeTypeInicial   FeeType = "Inicial"
	FeeTypeExito     FeeType = "Êxito"
	FeeTypeParcelado FeeType = "Parcelado"
	FeeTypeOutro     FeeType = "Outro"
)

// FeeStatus is the payment state of a fee.
type FeeStatus string

const (
	FeeStatusPendente         FeeStatus = "Pendente"
	FeeStatusPago             FeeStatus = "Pago"
	FeeStatusParcialmentePago FeeStatus = "Parcialmente Pago"
	FeeStatusAtrasado         FeeStatus = "Atrasado"
)

// InstallmentStatus is the payment state of a single installment.
type InstallmentStatus string

const (
	InstallmentPago     InstallmentStatus = "Pago"
	InstallmentPendente InstallmentStatus = "Pendente"
)

// Fee is a charge billed on a case, optionally split into installments.
type Fee struct {
	ID           string          `json:"id"`
	CaseID       string          `json:"caseId"`
	Type         FeeType         `json:"type"`
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`
	DueDate      string          `json:"dueDate"` // YYYY-MM-DD
	Status       FeeStatus       `json:"status"`
	Installments []Installment   `json:"installments,omitempty"`
}

// Clone returns a copy that shares no slices with f.
func (f Fee) Clone() Fee {
	f.Installments = slices.Clone(f.Installments)
	return f
}

// Installment is a scheduled partial payment of a fee.
type Installment struct {
	ID      string            `json:"id"`
	Amount  decimal.Decimal   `json:"amount"`
	DueDate string            `json:"dueDate"`
	Status  InstallmentStatus `json:"status"`
}

// StatusFromInstallments derives a fee status from its installments:
// all paid is Pago, some paid is Parcialmente Pago, none is Pendente.
func StatusFromInstallments(installments []Installment) FeeStatus {
	paid := 0
	for _, inst := range installments {
		if inst.Status == InstallmentPago {
			paid++
		}
	}
	switch {
	case paid == len(installments):
		return FeeStatusPago
	case paid > 0:
		return FeeStatusParcialmentePago
	default:
		return FeeStatusPendente
	}
}

// ============================================================
// Despesas
// ============================================================

// Expense is a cost incurred on a case.
type Expense struct {
	ID          string          `json:"id"`
	CaseID      string          `json:"caseId"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"` // YYYY-MM-DD
}

// CaseFinancials is the financial summary of a case.
type CaseFinancials struct {
	CaseID        string          `json:"caseId"`
	TotalFees     decimal.Decimal `json:"totalFees"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	Balance       decimal.Decimal `json:"balance"`
}
