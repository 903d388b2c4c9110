package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/boddenberg/crm-previdenciario-go/internal/port"

	"go.uber.org/zap"
)

// Persistence slots, one per collection.
const (
	KeyClients   = "crm_clients"
	KeyCases     = "crm_cases"
	KeyFees      = "crm_fees"
	KeyExpenses  = "crm_expenses"
	KeyTemplates = "crm_templates"
)

// Open returns the substrate selected by driver ("sqlite" or "memory").
func Open(driver, path string) (port.KeyValueStore, error) {
	switch driver {
	case "", "sqlite":
		return NewSQLite(path)
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}

// LoadCollection reads the collection stored under key. An absent slot, a
// JSON null or an undecodable value yields seed(). Only substrate read
// failures are returned as errors.
func LoadCollection[T any](ctx context.Context, kv port.KeyValueStore, key string, seed func() []T, logger *zap.Logger) ([]T, error) {
	raw, ok, err := kv.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	if !ok {
		return seed(), nil
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		logger.Warn("store: malformed collection replaced by seed data",
			zap.String("key", key),
			zap.Int("bytes", len(raw)),
			zap.Error(err),
		)
		return seed(), nil
	}
	if items == nil {
		return seed(), nil
	}
	return items, nil
}

// SaveCollection serializes the full collection and overwrites key.
func SaveCollection[T any](ctx context.Context, kv port.KeyValueStore, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return kv.Set(ctx, key, raw)
}
