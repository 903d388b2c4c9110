package domain

// ============================================================
// Assistente IA: requisição de geração
// ============================================================

// GenerationRequest is a provider-neutral request for the generative model.
// Parts are sent in order as a single user turn.
type GenerationRequest struct {
	Operation        string   `json:"operation"`
	Parts            []Part   `json:"parts"`
	Temperature      *float32 `json:"temperature,omitempty"`
	ResponseMIMEType string   `json:"responseMimeType,omitempty"`
	ResponseSchema   *Schema  `json:"responseSchema,omitempty"`
}

// Part is either text or inline binary data (e.g. an image).
type Part struct {
	Text     string `json:"text,omitempty"`
	Data     []byte `json:"data,omitempty"`
	MIMEType string `json:"mimeType,omitempty"`
}

// SchemaType is an OpenAPI-style type name understood by the model.
type SchemaType string

const (
	SchemaObject SchemaType = "OBJECT"
	SchemaArray  SchemaType = "ARRAY"
	SchemaString SchemaType = "STRING"
)

// Schema constrains a JSON response.
type Schema struct {
	Type        SchemaType         `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Nullable    bool               `json:"nullable,omitempty"`
}

// ============================================================
// Assistente IA: respostas estruturadas
// ============================================================

// ClientInfo is the person/address data extracted from a document.
// Missing fields come back as empty strings.
type ClientInfo struct {
	Name          string `json:"name"`
	MotherName    string `json:"motherName"`
	FatherName    string `json:"fatherName"`
	CPF           string `json:"cpf"`
	RG            string `json:"rg"`
	RGIssuer      string `json:"rgIssuer"`
	RGIssuerUF    string `json:"rgIssuerUF"`
	DataEmissao   string `json:"dataEmissao"`
	DateOfBirth   string `json:"dateOfBirth"`
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
}

// TaskSuggestion is a task proposed by the model from case notes.
type TaskSuggestion struct {
	Description string `json:"description"`
	DueDate     string `json:"dueDate,omitempty"` // YYYY-MM-DD
	Reasoning   string `json:"reasoning"`
}

// AITextResponse wraps a markdown or raw JSON answer from the model.
type AITextResponse struct {
	Operation string `json:"operation"`
	Content   string `json:"content"`
}
