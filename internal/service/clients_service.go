package service

import (
	"context"
	"slices"

	"github.com/boddenberg/crm-previdenciario-go/internal/domain"
	"github.com/boddenberg/crm-previdenciario-go/internal/infra/store"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// AddClient stores a new client with a fresh id and createdAt = now.
func (s *CrmService) AddClient(ctx context.Context, in domain.Client) domain.Client {
	ctx, span := tracer.Start(ctx, "CrmService.AddClient")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	in.ID = newID("cli")
	in.CreatedAt = domain.DateOf(s.now())
	s.clients = append(slices.Clip(s.clients), in)

	s.persist(ctx, store.KeyClients)
	s.mutated("client", "create")
	span.SetAttributes(attribute.String("client.id", in.ID))
	return in
}

// UpdateClient replaces the client with the same id.
func (s *CrmService) UpdateClient(ctx context.Context, updated domain.Client) bool {
	ctx, span := tracer.Start(ctx, "CrmService.UpdateClient")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.clients, func(c domain.Client) bool { return c.ID == updated.ID })
	if i < 0 {
		return false
	}
	next := slices.Clone(s.clients)
	next[i] = updated
	s.clients = next

	s.persist(ctx, store.KeyClients)
	s.mutated("client", "update")
	return true
}

// DeleteClient removes the client, every case carrying its id, and every
// fee and expense of those cases. The cascade runs even when the client
// itself is already gone, so orphaned cases are cleaned up too. It reports
// whether anything was removed.
func (s *CrmService) DeleteClient(ctx context.Context, clientID string) bool {
	ctx, span := tracer.Start(ctx, "CrmService.DeleteClient")
	defer span.End()
	span.SetAttributes(attribute.String("client.id", clientID))

	s.mu.Lock()
	defer s.mu.Unlock()

	found := slices.ContainsFunc(s.clients, func(c domain.Client) bool { return c.ID == clientID })
	owned := make(map[string]struct{})
	for _, c := range s.cases {
		if c.ClientID == clientID {
			owned[c.ID] = struct{}{}
		}
	}
	if !found && len(owned) == 0 {
		return false
	}

	s.clients = slices.DeleteFunc(slices.Clone(s.clients), func(c domain.Client) bool { return c.ID == clientID })
	s.cases = slices.DeleteFunc(slices.Clone(s.cases), func(c domain.Case) bool { return c.ClientID == clientID })
	s.fees = slices.DeleteFunc(slices.Clone(s.fees), func(f domain.Fee) bool {
		_, ok := owned[f.CaseID]
		return ok
	})
	s.expenses = slices.DeleteFunc(slices.Clone(s.expenses), func(e domain.Expense) bool {
		_, ok := owned[e.CaseID]
		return ok
	})

	s.persist(ctx, store.KeyClients, store.KeyCases, store.KeyFees, store.KeyExpenses)
	s.mutated("client", "delete")
	s.logger.Info("client deleted",
		zap.String("client_id", clientID),
		zap.Int("cases_removed", len(owned)),
		zap.Bool("orphans_only", !found),
	)
	return true
}

// GetClientByID returns the client with the given id, if any.
func (s *CrmService) GetClientByID(clientID string) (domain.Client, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.clients {
		if c.ID == clientID {
			return c, true
		}
	}
	return domain.Client{}, false
}
