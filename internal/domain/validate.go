package domain

import "slices"

// ============================================================
// Validação de enums
// ============================================================

var (
	benefitTypes = []BenefitType{
		BenefitAposentadoriaIdade, BenefitAposentadoriaTempo, BenefitAposentadoriaEspecial,
		BenefitAposentadoriaInvalidez, BenefitAuxilioDoenca, BenefitAuxilioAcidente,
		BenefitBPCLOAS, BenefitPensaoMorte, BenefitSalarioMaternidade,
	}
	caseStatuses = []CaseStatus{
		CaseStatusConsultaInicial, CaseStatusColetaDocumentos, CaseStatusProtocolado,
		CaseStatusEmAnaliseINSS, CaseStatusExigencia, CaseStatusRecursoAdm, CaseStatusJudicial,
		CaseStatusConcluidoDeferido, CaseStatusConcluidoIndeferido, CaseStatusArquivado,
	}
	feeTypes    = []FeeType{FeeTypeConsulta, FeeTypeInicial, FeeTypeExito, FeeTypeParcelado, FeeTypeOutro}
	feeStatuses = []FeeStatus{FeeStatusPendente, FeeStatusPago, FeeStatusParcialmentePago, FeeStatusAtrasado}
)

func (b BenefitType) Valid() bool { return slices.Contains(benefitTypes, b) }

func (s CaseStatus) Valid() bool { return slices.Contains(caseStatuses, s) }

func (s LegalDocumentStatus) Valid() bool {
	return s == LegalDocumentPendente || s == LegalDocumentGerado || s == LegalDocumentAssinado
}

func (t FeeType) Valid() bool { return slices.Contains(feeTypes, t) }

func (s FeeStatus) Valid() bool { return slices.Contains(feeStatuses, s) }

func (s InstallmentStatus) Valid() bool {
	return s == InstallmentPago || s == InstallmentPendente
}

// BenefitTypes lists every benefit type in display order.
func BenefitTypes() []BenefitType { return slices.Clone(benefitTypes) }

// CaseStatuses lists every case status in workflow order.
func CaseStatuses() []CaseStatus { return slices.Clone(caseStatuses) }

// CaseOptions feeds the case form selectors.
type CaseOptions struct {
	BenefitTypes []BenefitType `json:"benefitTypes"`
	CaseStatuses []CaseStatus  `json:"caseStatuses"`
}
