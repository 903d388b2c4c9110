// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the domain/service
// layer from concrete implementations.
package port

import (
	"context"

	"github.com/boddenberg/crm-previdenciario-go/internal/domain"
)

// KeyValueStore is the persistence substrate: named slots holding raw
// serialized text, read and written synchronously, without transactions.
type KeyValueStore interface {
	// Get returns the raw value under key and whether it exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set overwrites the value under key.
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// ContentGenerator submits a request to a generative model and returns
// the raw text of its answer.
type ContentGenerator interface {
	Generate(ctx context.Context, req *domain.GenerationRequest) (string, error)
}

// Notifier publishes short-lived user-facing messages.
type Notifier interface {
	Add(message string, severity domain.Severity) domain.Notification
}
