package service

import (
	"context"
	"slices"

	"github.com/boddenberg/crm-previdenciario-go/internal/domain"
	"github.com/boddenberg/crm-previdenciario-go/internal/infra/store"
)

// AddTemplate stores a new document template. Existing cases are not
// given a legal document for it; only cases created afterwards are.
func (s *CrmService) AddTemplate(ctx context.Context, in domain.DocumentTemplate) domain.DocumentTemplate {
	ctx, span := tracer.Start(ctx, "CrmService.AddTemplate")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	in.ID = newID("tmpl")
	s.templates = append(slices.Clip(s.templates), in)

	s.persist(ctx, store.KeyTemplates)
	s.mutated("template", "create")
	return in
}

// UpdateTemplate replaces the template with the same id. Legal document
// titles already snapshotted on cases are kept as they were.
func (s *CrmService) UpdateTemplate(ctx context.Context, updated domain.DocumentTemplate) bool {
	ctx, span := tracer.Start(ctx, "CrmService.UpdateTemplate")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.templates, func(t domain.DocumentTemplate) bool { return t.ID == updated.ID })
	if i < 0 {
		return false
	}
	next := slices.Clone(s.templates)
	next[i] = updated
	s.templates = next

	s.persist(ctx, store.KeyTemplates)
	s.mutated("template", "update")
	return true
}

// DeleteTemplate removes the template and strips its legal document from
// every case. Cases that lose an entry get lastUpdate refreshed. Legal
// documents pointing at an already deleted template are stripped as well;
// it reports whether anything was removed.
func (s *CrmService) DeleteTemplate(ctx context.Context, templateID string) bool {
	ctx, span := tracer.Start(ctx, "CrmService.DeleteTemplate")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	found := slices.ContainsFunc(s.templates, func(t domain.DocumentTemplate) bool { return t.ID == templateID })

	now := domain.DateOf(s.now())
	stripped := 0
	next := make([]domain.Case, len(s.cases))
	for i, c := range s.cases {
		c = c.Clone()
		before := len(c.LegalDocuments)
		c.LegalDocuments = slices.DeleteFunc(c.LegalDocuments, func(ld domain.LegalDocument) bool { return ld.TemplateID == templateID })
		if len(c.LegalDocuments) != before {
			c.LastUpdate = now
			stripped++
		}
		next[i] = c
	}
	if !found && stripped == 0 {
		return false
	}

	var keys []string
	if found {
		s.templates = slices.DeleteFunc(slices.Clone(s.templates), func(t domain.DocumentTemplate) bool { return t.ID == templateID })
		keys = append(keys, store.KeyTemplates)
	}
	if stripped > 0 {
		s.cases = next
		keys = append(keys, store.KeyCases)
	}

	s.persist(ctx, keys...)
	s.mutated("template", "delete")
	return true
}
