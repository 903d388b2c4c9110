package domain

import "time"

// ============================================================
// Health & Metrics API Responses
// ============================================================

// HealthStatus is returned by GET /healthz.
type HealthStatus struct {
	Status   string          `json:"status"` // healthy, degraded
	Services []ServiceHealth `json:"services"`
}

// ServiceHealth represents the health of an individual dependency.
type ServiceHealth struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	LastChecked string `json:"lastChecked"`
}

// AIMetrics is returned by GET /v1/metrics/ai.
type AIMetrics struct {
	TotalRequests int64   `json:"totalRequests"`
	Failures      int64   `json:"failures"`
	ErrorRate     float64 `json:"errorRate"`
	Period        string  `json:"period"`
}

// ============================================================
// Notificações
// ============================================================

// Severity selects how a notification is presented. It has no effect on
// the relay's behavior.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Notification is a short-lived user-facing message.
type Notification struct {
	ID        int64     `json:"id"`
	Message   string    `json:"message"`
	Severity  Severity  `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ============================================================
// Generic API Response wrappers
// ============================================================

// SuccessResponse wraps a successful single-entity response.
type SuccessResponse struct {
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}
