package service

import (
	"fmt"
	"time"

	"github.com/boddenberg/crm-previdenciario-go/internal/domain"
)

// ============================================================
// Prompts (pt-BR)
// ============================================================

const caseSummaryPrompt = `
Aja como um assistente jurídico especialista em direito previdenciário.
Analise os dados do caso a seguir e gere um resumo claro e conciso em português.
O resumo deve ser formatado em markdown e incluir:
1.  **Identificação do Caso**: Cliente e tipo de benefício.
2.  **Status Atual**: Qual a situação presente do caso.
3.  **Histórico Relevante**: Um breve resumo das notas e dos acontecimentos.
4.  **Próximos Passos Sugeridos**: Com base no status e nas notas, o que deve ser feito a seguir.

**Dados do Caso:**
- **Cliente:** %s
- **Número do Processo:** %s
- **Tipo de Benefício:** %s
- **Status Atual:** %s
- **Data de Início:** %s
- **Notas:** %s
`

const documentAnalysisPrompt = `
Aja como um assistente jurídico altamente qualificado. Analise o texto do documento fornecido e retorne uma análise estruturada em markdown.
A análise deve conter as seguintes seções:

### 📝 Resumo do Documento
Um resumo conciso do propósito e conteúdo principal do documento.

### 🔑 Informações Chave Extraídas
Liste as entidades e informações mais importantes encontradas, como:
- **Nomes:** (Liste os nomes de pessoas ou instituições)
- **Datas:** (Liste as datas relevantes)
- **Valores:** (Liste quaisquer valores monetários ou numéricos importantes)
- **Locais:** (Liste cidades, estados ou endereços mencionados)

### 📄 Classificação Sugerida
Sugira um tipo para este documento (ex: Laudo Médico, Petição Inicial, Comprovante de Residência, Contrato, Notificação Extrajudicial, etc.).

---
**TEXTO PARA ANÁLISE:**
"""
%s
"""
`

const clientInfoExtractionPrompt = `
Analise o texto ou a imagem a seguir, que pode ser um documento de identificação (RG, CNH), Certidão de Nascimento, Certidão de Casamento, comprovante de endereço ou cadastro.
Extraia as informações da pessoa e retorne-as estritamente como um objeto JSON.
Para Certidões de Nascimento, o campo 'rg' deve ser preenchido com o número da Matrícula.
Se for um RG, extraia o número, órgão emissor (rgIssuer) e UF do órgão emissor (rgIssuerUF).
Os campos a serem extraídos são: name, motherName, fatherName, cpf, rg, rgIssuer, rgIssuerUF, dataEmissao (formato AAAA-MM-DD), dateOfBirth (formato AAAA-MM-DD), nacionalidade, naturalidade, estadoCivil, profissao, email, phone, e o endereço completo separado em: cep, street, number, complement, neighborhood, city, state.
Se uma informação não for encontrada, retorne uma string vazia para o campo correspondente.
`

const taskSuggestionPrompt = `
Aja como um paralegal sênior especialista em direito previdenciário. Analise as notas a seguir e identifique ações concretas que precisam ser tomadas.
Retorne uma lista de tarefas sugeridas em formato JSON. Cada tarefa deve ter uma 'description' clara e acionável, um 'dueDate' (data de vencimento) em formato AAAA-MM-DD se um prazo for mencionado, e um 'reasoning' (justificativa) explicando por que a tarefa é necessária.
Se nenhum prazo for mencionado, não inclua o campo 'dueDate'.
Se nenhuma tarefa for identificada, retorne uma lista vazia.

Exemplo de nota: "Cliente informou que o INSS emitiu uma carta de exigência para apresentar laudo médico atualizado em 30 dias."
Exemplo de saída:
[
    {
        "description": "Contatar cliente para solicitar novo laudo médico",
        "reasoning": "O INSS emitiu uma exigência que precisa ser cumprida."
    },
    {
        "description": "Protocolar laudo médico no Meu INSS",
        "dueDate": "%s",
        "reasoning": "Cumprir o prazo de 30 dias da exigência do INSS."
    }
]

Notas para análise:
"""
%s
"""
`

func buildCaseSummaryPrompt(c domain.Case, clientName string) string {
	return fmt.Sprintf(caseSummaryPrompt,
		clientName,
		c.CaseNumber,
		c.BenefitType,
		c.Status,
		displayDate(c.StartDate),
		c.Notes,
	)
}

// displayDate formats d as DD/MM/AAAA, or returns its text when unreadable.
func displayDate(d domain.Date) string {
	if !d.Valid() {
		return d.String()
	}
	return d.Format("02/01/2006")
}

func buildDocumentAnalysisPrompt(text string) string {
	return fmt.Sprintf(documentAnalysisPrompt, text)
}

func buildClientInfoTextPrompt(text string) string {
	return clientInfoExtractionPrompt + "\n\nTexto do documento:\n\"\"\"\n" + text + "\n\"\"\""
}

// buildTaskSuggestionPrompt embeds an example due date 30 days after now.
func buildTaskSuggestionPrompt(notes string, now time.Time) string {
	example := now.Add(30 * 24 * time.Hour).Format(time.DateOnly)
	return fmt.Sprintf(taskSuggestionPrompt, example, notes)
}

// ============================================================
// Schemas de resposta
// ============================================================

func clientInfoSchema() *domain.Schema {
	str := func(desc string) *domain.Schema {
		return &domain.Schema{Type: domain.SchemaString, Description: desc}
	}
	return &domain.Schema{
		Type: domain.SchemaObject,
		Properties: map[string]*domain.Schema{
			"name":          str("Nome completo da pessoa."),
			"motherName":    str("Nome da mãe (filiação)."),
			"fatherName":    str("Nome do pai (filiação)."),
			"cpf":           str("Número do CPF, formatado ou não."),
			"rg":            str("Número do RG ou da Matrícula da Certidão de Nascimento."),
			"rgIssuer":      str("Órgão emissor do documento de identidade (ex: SSP, DETRAN)."),
			"rgIssuerUF":    str("UF do órgão emissor (ex: SP, RJ)."),
			"dataEmissao":   str("Data de emissão do documento no formato AAAA-MM-DD."),
			"dateOfBirth":   str("Data de nascimento no formato AAAA-MM-DD."),
			"nacionalidade": str("Nacionalidade (ex: Brasileiro, Portuguesa)."),
			"naturalidade":  str("Cidade e estado de nascimento (ex: São Paulo/SP)."),
			"estadoCivil":   str("Estado civil (Solteiro(a), Casado(a), etc.)."),
			"profissao":     str("Profissão da pessoa."),
			"email":         str("Endereço de e-mail."),
			"phone":         str("Número de telefone."),
			"cep":           str("CEP (Código de Endereçamento Postal)."),
			"street":        str("Nome da rua/logradouro."),
			"number":        str("Número do imóvel."),
			"complement":    str("Complemento do endereço (apto, bloco, etc.)."),
			"neighborhood":  str("Bairro."),
			"city":          str("Cidade."),
			"state":         str("Sigla do estado (UF)."),
		},
	}
}

func taskSuggestionSchema() *domain.Schema {
	return &domain.Schema{
		Type: domain.SchemaArray,
		Items: &domain.Schema{
			Type: domain.SchemaObject,
			Properties: map[string]*domain.Schema{
				"description": {Type: domain.SchemaString},
				"dueDate":     {Type: domain.SchemaString, Nullable: true},
				"reasoning":   {Type: domain.SchemaString},
			},
			Required: []string{"description", "reasoning"},
		},
	}
}
