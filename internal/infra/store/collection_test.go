package store_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/boddenberg/crm-previdenciario-go/internal/domain"
	"github.com/boddenberg/crm-previdenciario-go/internal/infra/store"
	"github.com/boddenberg/crm-previdenciario-go/internal/port"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
)

func substrates(t *testing.T) map[string]port.KeyValueStore {
	t.Helper()
	sq, err := store.NewSQLite(filepath.Join(t.TempDir(), "crm.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = sq.Close() })
	return map[string]port.KeyValueStore{
		"memory": store.NewMemory(),
		"sqlite": sq,
	}
}

func TestCollection_RoundTrip(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

	for name, kv := range substrates(t) {
		t.Run(name, func(t *testing.T) {
			cases := domain.SeedCases(now)
			fees := domain.SeedFees()

			if err := store.SaveCollection(ctx, kv, store.KeyCases, cases); err != nil {
				t.Fatalf("save cases: %v", err)
			}
			if err := store.SaveCollection(ctx, kv, store.KeyFees, fees); err != nil {
				t.Fatalf("save fees: %v", err)
			}

			gotCases, err := store.LoadCollection(ctx, kv, store.KeyCases, func() []domain.Case { return nil }, zap.NewNop())
			if err != nil {
				t.Fatalf("load cases: %v", err)
			}
			if diff := cmp.Diff(cases, gotCases); diff != "" {
				t.Errorf("cases round trip mismatch (-want +got):\n%s", diff)
			}

			gotFees, err := store.LoadCollection(ctx, kv, store.KeyFees, func() []domain.Fee { return nil }, zap.NewNop())
			if err != nil {
				t.Fatalf("load fees: %v", err)
			}
			if diff := cmp.Diff(fees, gotFees); diff != "" {
				t.Errorf("fees round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCollection_AbsentKeyReturnsSeed(t *testing.T) {
	for name, kv := range substrates(t) {
		t.Run(name, func(t *testing.T) {
			got, err := store.LoadCollection(context.Background(), kv, store.KeyClients, domain.SeedClients, zap.NewNop())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != 2 || got[0].ID != "cli-1" {
				t.Errorf("expected seed clients, got %+v", got)
			}
		})
	}
}

func TestCollection_MalformedValueReturnsSeed(t *testing.T) {
	ctx := context.Background()
	for name, kv := range substrates(t) {
		t.Run(name, func(t *testing.T) {
			for _, raw := range []string{"{not json", "null", `{"id":"x"}`} {
				if err := kv.Set(ctx, store.KeyTemplates, []byte(raw)); err != nil {
					t.Fatalf("set: %v", err)
				}
				got, err := store.LoadCollection(ctx, kv, store.KeyTemplates, domain.SeedTemplates, zap.NewNop())
				if err != nil {
					t.Fatalf("unexpected error for %q: %v", raw, err)
				}
				if len(got) != 2 {
					t.Errorf("expected seed templates for %q, got %d items", raw, len(got))
				}
			}
		})
	}
}

func TestCollection_EmptyArrayIsKept(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()

	if err := store.SaveCollection(ctx, kv, store.KeyExpenses, []domain.Expense(nil)); err != nil {
		t.Fatalf("save: %v", err)
	}
	raw, ok, _ := kv.Get(ctx, store.KeyExpenses)
	if !ok || string(raw) != "[]" {
		t.Fatalf("expected [] to be stored, got %q", raw)
	}

	got, err := store.LoadCollection(ctx, kv, store.KeyExpenses, domain.SeedExpenses, zap.NewNop())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty collection, got %d items", len(got))
	}
}

func TestCollection_DateOnlyValuesKept(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	raw := `[{"id":"case-9","caseNumber":"0009","clientId":"cli-1","startDate":"2024-01-15",` +
		`"tasks":[{"id":"task-9","caseId":"case-9","description":"Protocolar recurso","dueDate":"2024-03-12","completed":false}],` +
		`"lastUpdate":"2024-03-01T09:30:00.000Z"}]`
	if err := kv.Set(ctx, store.KeyCases, []byte(raw)); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, err := store.LoadCollection(ctx, kv, store.KeyCases, func() []domain.Case { return domain.SeedCases(time.Now()) }, zap.NewNop())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 1 || got[0].ID != "case-9" {
		t.Fatalf("expected stored case to be kept, got %+v", got)
	}
	if got[0].StartDate.String() != "2024-01-15" {
		t.Errorf("startDate = %q", got[0].StartDate.String())
	}
	want := time.Date(2024, time.March, 12, 0, 0, 0, 0, time.UTC)
	if due := got[0].Tasks[0].DueDate; !due.Time.Equal(want) {
		t.Errorf("dueDate = %v, want %v", due.Time, want)
	}
}

func TestCollection_SaveOverwrites(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()

	_ = store.SaveCollection(ctx, kv, store.KeyTemplates, domain.SeedTemplates())
	_ = store.SaveCollection(ctx, kv, store.KeyTemplates, []domain.DocumentTemplate{{ID: "tmpl-x", Title: "Único"}})

	got, _ := store.LoadCollection(ctx, kv, store.KeyTemplates, domain.SeedTemplates, zap.NewNop())
	if len(got) != 1 || got[0].ID != "tmpl-x" {
		t.Errorf("expected overwritten collection, got %+v", got)
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	if _, err := store.Open("redis", ""); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}
