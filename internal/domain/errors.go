package domain

import "fmt"

// Error types for consistent error handling across the CRM.

// ErrNotFound indicates a resource was not found.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrValidation indicates a validation error (bad input).
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error on '%s': %s", e.Field, e.Message)
}

// ErrExternalService indicates a failure in an external service call.
type ErrExternalService struct {
	Service string
	Err     error
}

func (e *ErrExternalService) Error() string {
	return fmt.Sprintf("external service error [%s]: %v", e.Service, e.Err)
}

func (e *ErrExternalService) Unwrap() error {
	return e.Err
}

// ErrCircuitOpen indicates the circuit breaker is open.
type ErrCircuitOpen struct {
	Service string
}

func (e *ErrCircuitOpen) Error() string {
	return fmt.Sprintf("circuit breaker open for service: %s", e.Service)
}

// ============================================================
// Erros da IA (mensagens exibidas ao usuário)
// ============================================================

// ErrAIUnavailable indicates the AI credential is not configured.
type ErrAIUnavailable struct{}

func (e *ErrAIUnavailable) Error() string {
	return "A chave da API do Google não está configurada."
}

// ErrAIRequest indicates an AI call failed. The cause is kept for logs;
// the message is the one shown to the user.
type ErrAIRequest struct {
	Operation string
	Err       error
}

func (e *ErrAIRequest) Error() string {
	return "Falha na comunicação com a IA. Verifique a configuração da API e tente novamente."
}

func (e *ErrAIRequest) Unwrap() error {
	return e.Err
}
