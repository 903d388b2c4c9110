package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ============================================================
// Dados iniciais
// ============================================================
//
// Seed collections are used whenever a persisted collection is absent or
// unreadable. Dates relative to "now" keep the demo tasks urgent.

const day = 24 * time.Hour

// SeedClients returns the initial client collection.
func SeedClients() []Client {
	return []Client{
		{
			ID: "cli-1", Name: "José da Silva", CPF: "111.222.333-44", RG: "12.345.678-9",
			RGIssuer: "SSP", RGIssuerUF: "SP", DataEmissao: "2010-05-20",
			MotherName: "Maria da Silva", FatherName: "João da Silva", DateOfBirth: "1958-10-15",
			Nacionalidade: "Brasileiro", Naturalidade: "São Paulo/SP", EstadoCivil: "Casado",
			Profissao: "Motorista", Email: "jose.silva@example.com", Phone: "(11) 98765-4321",
			CEP: "01001-000", Street: "Praça da Sé", Number: "123", Complement: "Lado par",
			Neighborhood: "Sé", City: "São Paulo", State: "SP",
			CreatedAt: DateOf(time.Date(2023, time.November, 15, 0, 0, 0, 0, time.UTC)),
		},
		{
			ID: "cli-2", Name: "Maria Oliveira", CPF: "222.333.444-55", RG: "23.456.789-0",
			RGIssuer: "SSP", RGIssuerUF: "RJ", DataEmissao: "2015-11-10",
			MotherName: "Ana Oliveira", FatherName: "Pedro Oliveira", DateOfBirth: "1980-05-20",
			Nacionalidade: "Brasileira", Naturalidade: "Rio de Janeiro/RJ", EstadoCivil: "Solteira",
			Profissao: "Enfermeira", Email: "maria.o@example.com", Phone: "(21) 91234-5678",
			CEP: "22070-011", Street: "Avenida Atlântica", Number: "456", Complement: "Apto 101",
			Neighborhood: "Copacabana", City: "Rio de Janeiro", State: "RJ",
			CreatedAt: DateOf(time.Date(2023, time.December, 20, 0, 0, 0, 0, time.UTC)),
		},
	}
}

// SeedCases returns the initial case collection with task due dates
// relative to now.
func SeedCases(now time.Time) []Case {
	legalDocs := func() []LegalDocument {
		return []LegalDocument{
			{TemplateID: "tmpl-1", Title: "Procuração Ad Judicia", Status: LegalDocumentPendente},
			{TemplateID: "tmpl-2", Title: "Contrato de Honorários", Status: LegalDocumentPendente},
		}
	}
	return []Case{
		{
			ID:          "case-1",
			CaseNumber:  "1234567-89.2023.4.01.0001",
			ClientID:    "cli-1",
			BenefitType: BenefitAposentadoriaIdade,
			Status:      CaseStatusJudicial,
			StartDate:   DateOf(time.Date(2023, time.November, 25, 0, 0, 0, 0, time.UTC)),
			Notes:       "--- 25/10/2023 10:00:00 ---\nCliente completou 65 anos. Documentação completa enviada.",
			Documents: []Document{
				{ID: "doc-1", Name: "PETICAO_INICIAL.pdf", URL: "#", UploadedAt: DateOf(now)},
			},
			Tasks: []Task{
				{ID: "task-1", CaseID: "case-1", Description: "Verificar andamento no Meu INSS", DueDate: DateOf(now.Add(15 * day))},
			},
			LegalDocuments: legalDocs(),
			LastUpdate:     DateOf(now),
		},
		{
			ID:          "case-2",
			CaseNumber:  "9876543-21.2023.4.01.0002",
			ClientID:    "cli-2",
			BenefitType: BenefitAuxilioDoenca,
			Status:      CaseStatusEmAnaliseINSS,
			StartDate:   DateOf(time.Date(2023, time.December, 28, 0, 0, 0, 0, time.UTC)),
			Notes:       "--- 28/11/2023 14:30:00 ---\nINSS solicitou laudo médico complementar.",
			Documents:   []Document{},
			Tasks: []Task{
				{ID: "task-2", CaseID: "case-2", Description: "Contatar cliente para agendar nova perícia", DueDate: DateOf(now.Add(3 * day))},
			},
			LegalDocuments: legalDocs(),
			LastUpdate:     DateOf(now),
		},
	}
}

// SeedFees returns the initial fee collection. fee-4 is split into six
// installments of which the first two are paid.
func SeedFees() []Fee {
	installments := make([]Installment, 6)
	for i := range installments {
		status := InstallmentPendente
		if i < 2 {
			status = InstallmentPago
		}
		installments[i] = Installment{
			ID:      fmt.Sprintf("inst-%d", i),
			Amount:  decimal.NewFromInt(500),
			DueDate: fmt.Sprintf("2024-%02d-10", i+1),
			Status:  status,
		}
	}
	return []Fee{
		{ID: "fee-1", CaseID: "case-1", Type: FeeTypeInicial, Description: "Entrada do processo", Amount: decimal.NewFromInt(1200), DueDate: "2023-10-26", Status: FeeStatusPago},
		{ID: "fee-2", CaseID: "case-2", Type: FeeTypeConsulta, Description: "Consulta inicial", Amount: decimal.NewFromInt(350), DueDate: "2023-11-27", Status: FeeStatusPago},
		{ID: "fee-3", CaseID: "case-1", Type: FeeTypeExito, Description: "30% sobre o benefício", Amount: decimal.NewFromInt(15000), DueDate: "2024-08-30", Status: FeeStatusPendente},
		{ID: "fee-4", CaseID: "case-2", Type: FeeTypeParcelado, Description: "Honorários parcelados", Amount: decimal.NewFromInt(3000), DueDate: "2024-12-31", Status: FeeStatusParcialmentePago, Installments: installments},
	}
}

// SeedExpenses returns the initial expense collection.
func SeedExpenses() []Expense {
	return []Expense{
		{ID: "exp-1", CaseID: "case-1", Description: "Cópia de documentos", Amount: decimal.RequireFromString("25.50"), Date: "2023-10-20"},
		{ID: "exp-2", CaseID: "case-1", Description: "Transporte para audiência", Amount: decimal.RequireFromString("50.00"), Date: "2024-02-15"},
	}
}

// SeedTemplates returns the initial document template collection.
func SeedTemplates() []DocumentTemplate {
	return []DocumentTemplate{
		{
			ID:    "tmpl-1",
			Title: "Procuração Ad Judicia",
			Content: "PROCURAÇÃO AD JUDICIA ET EXTRA\n\n" +
				"OUTORGANTE: {{cliente.name}}, nacionalidade, estado civil, profissão, portador(a) do RG nº {{cliente.rg}} " +
				"{{cliente.rgIssuer}}/{{cliente.rgIssuerUF}} e do CPF nº {{cliente.cpf}}, residente e domiciliado(a) na " +
				"{{cliente.street}}, nº {{cliente.number}}, {{cliente.neighborhood}}, {{cliente.city}}/{{cliente.state}}, CEP {{cliente.cep}}.\n\n" +
				"OUTORGADO(S): NOME DO ADVOGADO, OAB/UF XXXXX.\n\n" +
				"PODERES: (...)",
		},
		{
			ID:    "tmpl-2",
			Title: "Contrato de Honorários",
			Content: "CONTRATO DE PRESTAÇÃO DE SERVIÇOS ADVOCATÍCIOS\n\n" +
				"CONTRATANTE: {{cliente.name}}, CPF nº {{cliente.cpf}}.\n\n" +
				"CONTRATADO(A): NOME DO ADVOGADO, OAB/UF XXXXX.\n\n" +
				"CLÁUSULA 1ª - DO OBJETO: O objeto do presente contrato é a prestação de serviços advocatícios para a " +
				"propositura de Ação de Concessão de Benefício Previdenciário de {{caso.benefitType}}.\n\n" +
				"CLÁUSULA 2ª - DOS HONORÁRIOS: (...)",
		},
	}
}
