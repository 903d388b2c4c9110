// Package domain defines the core business entities for the CRM.
// These models are independent of storage and AI providers and represent
// the canonical data structures used throughout the service. JSON field
// names follow the persisted collection format (camelCase).
package domain

import "slices"

// ============================================================
// Clientes
// ============================================================

// Client is a person represented by the practice.
type Client struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	CPF           string `json:"cpf"`
	RG            string `json:"rg"`
	RGIssuer      string `json:"rgIssuer"`
	RGIssuerUF    string `json:"rgIssuerUF"`
	DataEmissao   string `json:"dataEmissao"` // YYYY-MM-DD
	MotherName    string `json:"motherName"`
	FatherName    string `json:"fatherName"`
	DateOfBirth   string `json:"dateOfBirth"` // YYYY-MM-DD
	Nacionalidade string `json:"nacionalidade"`
	Naturalidade  string `json:"naturalidade"`
	EstadoCivil   string `json:"estadoCivil"`
	Profissao     string `json:"profissao"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	CEP           string `json:"cep"`
	Street        string `json:"street"`
	Number        string `json:"number"`
	Complement    string `json:"complement"`
	Neighborhood  string `json:"neighborhood"`
	City          string `json:"city"`
	State         string `json:"state"`
	CreatedAt     Date   `json:"createdAt"`
}

// ============================================================
// Processos
// ============================================================

// BenefitType is the social-security benefit pursued by a case.
type BenefitType string

const (
	BenefitAposentadoriaIdade     BenefitType = "Aposentadoria por Idade"
	BenefitAposentadoriaTempo     BenefitType = "Aposentadoria por Tempo de Contribuição"
	BenefitAposentadoriaEspecial  BenefitType = "Aposentadoria Especial"
	BenefitAposentadoriaInvalidez BenefitType = "Aposentadoria por Invalidez"
	BenefitAuxilioDoenca          BenefitType = "Auxílio-Doença"
	BenefitAuxilioAcidente        BenefitType = "Auxílio-Acidente"
	BenefitBPCLOAS                BenefitType = "BPC/LOAS"
	BenefitPensaoMorte            BenefitType = "Pensão por Morte"
	BenefitSalarioMaternidade     BenefitType = "Salário-Maternidade"
)

// CaseStatus is the procedural stage of a case.
type CaseStatus string

const (
	CaseStatusConsultaInicial     CaseStatus = "Consulta Inicial"
	CaseStatusColetaDocumentos    CaseStatus = "Coleta de Documentos"
	CaseStatusProtocolado         CaseStatus = "Protocolado no INSS"
	CaseStatusEmAnaliseINSS       CaseStatus = "Em Análise pelo INSS"
	CaseStatusExigencia           CaseStatus = "Exigência"
	CaseStatusRecursoAdm          CaseStatus = "Recurso Administrativo"
	CaseStatusJudicial            CaseStatus = "Processo Judicial"
	CaseStatusConcluidoDeferido   CaseStatus = "Concluído (Deferido)"
	CaseStatusConcluidoIndeferido CaseStatus = "Concluído (Indeferido)"
	CaseStatusArquivado           CaseStatus = "Arquivado"
)

// LegalDocumentStatus tracks whether a template was produced for a case.
type LegalDocumentStatus string

const (
	LegalDocumentPendente LegalDocumentStatus = "Pendente"
	LegalDocumentGerado   LegalDocumentStatus = "Gerado"
	LegalDocumentAssinado LegalDocumentStatus = "Assinado"
)

// Case is a benefit claim handled for one client.
type Case struct {
	ID             string          `json:"id"`
	CaseNumber     string          `json:"caseNumber"`
	ClientID       string          `json:"clientId"`
	BenefitType    BenefitType     `json:"benefitType"`
	Status         CaseStatus      `json:"status"`
	StartDate      Date            `json:"startDate"`
	Notes          string          `json:"notes"`
	Documents      []Document      `json:"documents"`
	Tasks          []Task          `json:"tasks"`
	LegalDocuments []LegalDocument `json:"legalDocuments"`
	LastUpdate     Date            `json:"lastUpdate"`
}

// Clone returns a copy that shares no slices with c.
func (c Case) Clone() Case {
	c.Documents = slices.Clone(c.Documents)
	c.Tasks = slices.Clone(c.Tasks)
	c.LegalDocuments = slices.Clone(c.LegalDocuments)
	return c
}

// Document is an uploaded file attached to a case.
type Document struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	URL        string `json:"url"`
	UploadedAt Date   `json:"uploadedAt"`
}

// Task is a to-do item of a case.
type Task struct {
	ID          string `json:"id"`
	CaseID      string `json:"caseId"`
	Description string `json:"description"`
	DueDate     Date   `json:"dueDate,omitzero"`
	Completed   bool   `json:"completed"`
}

// LegalDocument is the per-case status record of a document template.
// Title is a snapshot taken when the record was created.
type LegalDocument struct {
	TemplateID string              `json:"templateId"`
	Title      string              `json:"title"`
	Status     LegalDocumentStatus `json:"status"`
}

// ============================================================
// Modelos de documentos
// ============================================================

// DocumentTemplate holds templated text such as {{cliente.name}}.
// Placeholder resolution happens outside this service.
type DocumentTemplate struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}
