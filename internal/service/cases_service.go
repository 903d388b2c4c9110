package service

import (
	"context"
	"slices"
	"time"

	"github.com/boddenberg/crm-previdenciario-go/internal/domain"
	"github.com/boddenberg/crm-previdenciario-go/internal/infra/store"

	"go.opentelemetry.io/otel/attribute"
)

// AddCase stores a new case with empty documents and tasks, one Pendente
// legal document per current template, and lastUpdate = now.
func (s *CrmService) AddCase(ctx context.Context, in domain.Case) domain.Case {
	ctx, span := tracer.Start(ctx, "CrmService.AddCase")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	legalDocs := make([]domain.LegalDocument, 0, len(s.templates))
	for _, t := range s.templates {
		legalDocs = append(legalDocs, domain.LegalDocument{
			TemplateID: t.ID,
			Title:      t.Title,
			Status:     domain.LegalDocumentPendente,
		})
	}

	in.ID = newID("case")
	in.Documents = []domain.Document{}
	in.Tasks = []domain.Task{}
	in.LegalDocuments = legalDocs
	in.LastUpdate = domain.DateOf(s.now())
	s.cases = append(slices.Clip(s.cases), in)

	s.persist(ctx, store.KeyCases)
	s.mutated("case", "create")
	span.SetAttributes(attribute.String("case.id", in.ID))
	return in.Clone()
}

// UpdateCase replaces the case with the same id and refreshes lastUpdate.
func (s *CrmService) UpdateCase(ctx context.Context, updated domain.Case) bool {
	ctx, span := tracer.Start(ctx, "CrmService.UpdateCase")
	defer span.End()

	return s.modifyCase(ctx, updated.ID, "update", func(c *domain.Case) bool {
		*c = updated.Clone()
		return true
	})
}

// DeleteCase removes the case together with its fees and expenses.
func (s *CrmService) DeleteCase(ctx context.Context, caseID string) bool {
	ctx, span := tracer.Start(ctx, "CrmService.DeleteCase")
	defer span.End()
	span.SetAttributes(attribute.String("case.id", caseID))

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.caseIndex(caseID) < 0 {
		return false
	}
	s.cases = slices.DeleteFunc(slices.Clone(s.cases), func(c domain.Case) bool { return c.ID == caseID })
	s.fees = slices.DeleteFunc(slices.Clone(s.fees), func(f domain.Fee) bool { return f.CaseID == caseID })
	s.expenses = slices.DeleteFunc(slices.Clone(s.expenses), func(e domain.Expense) bool { return e.CaseID == caseID })

	s.persist(ctx, store.KeyCases, store.KeyFees, store.KeyExpenses)
	s.mutated("case", "delete")
	return true
}

// GetCaseByID returns a copy of the case with the given id, if any.
func (s *CrmService) GetCaseByID(caseID string) (domain.Case, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.caseIndex(caseID); i >= 0 {
		return s.cases[i].Clone(), true
	}
	return domain.Case{}, false
}

// ============================================================
// Tarefas
// ============================================================

// AddTaskToCase appends a task to the case. The task gets a fresh id and
// the case's id; description, dueDate and completed are kept.
func (s *CrmService) AddTaskToCase(ctx context.Context, caseID string, task domain.Task) (domain.Task, bool) {
	ctx, span := tracer.Start(ctx, "CrmService.AddTaskToCase")
	defer span.End()

	task.ID = newID("task")
	task.CaseID = caseID
	ok := s.modifyCase(ctx, caseID, "add_task", func(c *domain.Case) bool {
		c.Tasks = append(c.Tasks, task)
		return true
	})
	return task, ok
}

// UpdateTask replaces the task matched by task.CaseID and task.ID.
func (s *CrmService) UpdateTask(ctx context.Context, task domain.Task) bool {
	ctx, span := tracer.Start(ctx, "CrmService.UpdateTask")
	defer span.End()

	return s.modifyCase(ctx, task.CaseID, "update_task", func(c *domain.Case) bool {
		i := slices.IndexFunc(c.Tasks, func(t domain.Task) bool { return t.ID == task.ID })
		if i < 0 {
			return false
		}
		c.Tasks[i] = task
		return true
	})
}

// ============================================================
// Documentos
// ============================================================

// AddDocumentToCase attaches a document with a fresh id and uploadedAt = now.
func (s *CrmService) AddDocumentToCase(ctx context.Context, caseID string, doc domain.Document) (domain.Document, bool) {
	ctx, span := tracer.Start(ctx, "CrmService.AddDocumentToCase")
	defer span.End()

	doc.ID = newID("doc")
	ok := s.modifyCase(ctx, caseID, "add_document", func(c *domain.Case) bool {
		doc.UploadedAt = domain.DateOf(s.now())
		c.Documents = append(c.Documents, doc)
		return true
	})
	return doc, ok
}

// UpdateDocumentInCase replaces the document with the same id in the case.
func (s *CrmService) UpdateDocumentInCase(ctx context.Context, caseID string, doc domain.Document) bool {
	ctx, span := tracer.Start(ctx, "CrmService.UpdateDocumentInCase")
	defer span.End()

	return s.modifyCase(ctx, caseID, "update_document", func(c *domain.Case) bool {
		i := slices.IndexFunc(c.Documents, func(d domain.Document) bool { return d.ID == doc.ID })
		if i < 0 {
			return false
		}
		c.Documents[i] = doc
		return true
	})
}

// UpdateCaseLegalDocumentStatus sets the status of the case's legal
// document generated from templateID.
func (s *CrmService) UpdateCaseLegalDocumentStatus(ctx context.Context, caseID, templateID string, status domain.LegalDocumentStatus) bool {
	ctx, span := tracer.Start(ctx, "CrmService.UpdateCaseLegalDocumentStatus")
	defer span.End()

	return s.modifyCase(ctx, caseID, "update_legal_document", func(c *domain.Case) bool {
		i := slices.IndexFunc(c.LegalDocuments, func(ld domain.LegalDocument) bool { return ld.TemplateID == templateID })
		if i < 0 {
			return false
		}
		c.LegalDocuments[i].Status = status
		return true
	})
}

// ============================================================
// Consultas derivadas
// ============================================================

// GetUrgentTasks returns open tasks of every case due no later than
// now + the urgent window, earliest first. Ties keep case order. Tasks
// without a readable due date are never urgent.
func (s *CrmService) GetUrgentTasks(now time.Time) []domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	limit := now.Add(s.urgentWindow)
	urgent := []domain.Task{}
	for _, c := range s.cases {
		for _, t := range c.Tasks {
			if !t.Completed && t.DueDate.Valid() && !t.DueDate.After(limit) {
				urgent = append(urgent, t)
			}
		}
	}
	slices.SortStableFunc(urgent, func(a, b domain.Task) int {
		return a.DueDate.Compare(b.DueDate.Time)
	})
	return urgent
}

// Now returns the repository clock.
func (s *CrmService) Now() time.Time {
	return s.now()
}

// ============================================================
// Helpers
// ============================================================

// caseIndex must be called with s.mu held.
func (s *CrmService) caseIndex(caseID string) int {
	return slices.IndexFunc(s.cases, func(c domain.Case) bool { return c.ID == caseID })
}

// modifyCase applies fn to a private copy of the case and, when fn reports
// a change, swaps it in with lastUpdate refreshed and persists the cases.
func (s *CrmService) modifyCase(ctx context.Context, caseID, action string, fn func(*domain.Case) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.caseIndex(caseID)
	if i < 0 {
		return false
	}
	c := s.cases[i].Clone()
	if !fn(&c) {
		return false
	}
	c.ID = caseID
	c.LastUpdate = domain.DateOf(s.now())

	next := slices.Clone(s.cases)
	next[i] = c
	s.cases = next

	s.persist(ctx, store.KeyCases)
	s.mutated("case", action)
	return true
}
