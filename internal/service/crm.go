package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/boddenberg/crm-previdenciario-go/internal/domain"
	"github.com/boddenberg/crm-previdenciario-go/internal/infra/observability"
	"github.com/boddenberg/crm-previdenciario-go/internal/infra/store"
	"github.com/boddenberg/crm-previdenciario-go/internal/port"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("service/crm")

// DefaultUrgentWindow is how far ahead an open task counts as urgent.
const DefaultUrgentWindow = 7 * 24 * time.Hour

// CrmConfig tunes the repository. Zero values pick the defaults.
type CrmConfig struct {
	UrgentWindow time.Duration
	Now          func() time.Time
}

// CrmService is the domain repository: the authoritative in-memory copy of
// clients, cases, fees, expenses and templates, mirrored to the store after
// every mutation.
//
// Unknown ids are never an error here. Updates and deletes that match
// nothing report false and leave state untouched.
type CrmService struct {
	mu sync.RWMutex

	clients   []domain.Client
	cases     []domain.Case
	fees      []domain.Fee
	expenses  []domain.Expense
	templates []domain.DocumentTemplate

	kv           port.KeyValueStore
	metrics      *observability.Metrics
	logger       *zap.Logger
	urgentWindow time.Duration
	now          func() time.Time
}

// NewCrmService loads the five collections concurrently, falling back to
// seed data for any that are absent or unreadable.
func NewCrmService(
	ctx context.Context,
	kv port.KeyValueStore,
	metrics *observability.Metrics,
	logger *zap.Logger,
	cfg CrmConfig,
) (*CrmService, error) {
	s := &CrmService{
		kv:           kv,
		metrics:      metrics,
		logger:       logger,
		urgentWindow: cfg.UrgentWindow,
		now:          cfg.Now,
	}
	if s.urgentWindow <= 0 {
		s.urgentWindow = DefaultUrgentWindow
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}

	seedCases := func() []domain.Case { return domain.SeedCases(s.now()) }

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		s.clients, err = store.LoadCollection(gCtx, kv, store.KeyClients, domain.SeedClients, logger)
		return err
	})
	g.Go(func() (err error) {
		s.cases, err = store.LoadCollection(gCtx, kv, store.KeyCases, seedCases, logger)
		return err
	})
	g.Go(func() (err error) {
		s.fees, err = store.LoadCollection(gCtx, kv, store.KeyFees, domain.SeedFees, logger)
		return err
	})
	g.Go(func() (err error) {
		s.expenses, err = store.LoadCollection(gCtx, kv, store.KeyExpenses, domain.SeedExpenses, logger)
		return err
	})
	g.Go(func() (err error) {
		s.templates, err = store.LoadCollection(gCtx, kv, store.KeyTemplates, domain.SeedTemplates, logger)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("bootstrap collections: %w", err)
	}

	logger.Info("crm collections loaded",
		zap.Int("clients", len(s.clients)),
		zap.Int("cases", len(s.cases)),
		zap.Int("fees", len(s.fees)),
		zap.Int("expenses", len(s.expenses)),
		zap.Int("templates", len(s.templates)),
	)
	return s, nil
}

// newID returns a collection-prefixed unique id, e.g. "case-<uuid>".
func newID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// persist writes the full snapshot of each named collection. Must be called
// with s.mu held. Failures are logged and counted, never returned: the
// in-memory state stays authoritative for the session.
func (s *CrmService) persist(ctx context.Context, keys ...string) {
	ctx = context.WithoutCancel(ctx)
	for _, key := range keys {
		var err error
		switch key {
		case store.KeyClients:
			err = store.SaveCollection(ctx, s.kv, key, s.clients)
		case store.KeyCases:
			err = store.SaveCollection(ctx, s.kv, key, s.cases)
		case store.KeyFees:
			err = store.SaveCollection(ctx, s.kv, key, s.fees)
		case store.KeyExpenses:
			err = store.SaveCollection(ctx, s.kv, key, s.expenses)
		case store.KeyTemplates:
			err = store.SaveCollection(ctx, s.kv, key, s.templates)
		}
		if err != nil {
			s.logger.Error("failed to persist collection",
				zap.String("key", key),
				zap.Error(err),
			)
			s.metrics.IncrPersistFailure(key)
		}
	}
}

// mutated records a successful mutation for metrics.
func (s *CrmService) mutated(entity, action string) {
	s.metrics.IncrMutation(entity, action)
}

// ============================================================
// Listagens (cópias)
// ============================================================

// Clients returns a copy of the client collection.
func (s *CrmService) Clients() []domain.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Client{}, s.clients...)
}

// Cases returns a deep copy of the case collection.
func (s *CrmService) Cases() []domain.Case {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Case, len(s.cases))
	for i, c := range s.cases {
		out[i] = c.Clone()
	}
	return out
}

// Fees returns a deep copy of the fee collection.
func (s *CrmService) Fees() []domain.Fee {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Fee, len(s.fees))
	for i, f := range s.fees {
		out[i] = f.Clone()
	}
	return out
}

// Expenses returns a copy of the expense collection.
func (s *CrmService) Expenses() []domain.Expense {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Expense{}, s.expenses...)
}

// Templates returns a copy of the template collection.
func (s *CrmService) Templates() []domain.DocumentTemplate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.DocumentTemplate{}, s.templates...)
}
