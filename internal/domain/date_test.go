package domain_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/boddenberg/crm-previdenciario-go/internal/domain"
	"github.com/shopspring/decimal"
)

func TestParseDate_Layouts(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-03-10T12:00:00Z", time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)},
		{"2024-03-10T12:00:00.123Z", time.Date(2024, time.March, 10, 12, 0, 0, 123_000_000, time.UTC)},
		{"2024-03-10T12:00:00", time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)},
		{"2024-03-10T12:00", time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)},
		{"2024-05-10", time.Date(2024, time.May, 10, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d := domain.ParseDate(tt.in)
			if !d.Valid() {
				t.Fatalf("expected %q to parse", tt.in)
			}
			if !d.Time.Equal(tt.want) {
				t.Errorf("got %v, want %v", d.Time, tt.want)
			}
			if d.String() != tt.in {
				t.Errorf("expected text %q kept, got %q", tt.in, d.String())
			}
		})
	}
}

func TestDate_DateOnlyRoundTrip(t *testing.T) {
	var task domain.Task
	if err := json.Unmarshal([]byte(`{"id":"t1","description":"Protocolar recurso","dueDate":"2024-05-10","completed":false}`), &task); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !task.DueDate.Valid() {
		t.Fatal("expected date-only dueDate to be readable")
	}

	out, err := json.Marshal(task)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.Contains(string(out), `"dueDate":"2024-05-10"`) {
		t.Errorf("expected original text written back, got %s", out)
	}
}

func TestDate_UnreadableTextKept(t *testing.T) {
	var d domain.Date
	if err := json.Unmarshal([]byte(`"10/05/2024"`), &d); err != nil {
		t.Fatalf("decode should not fail on format: %v", err)
	}
	if d.Valid() {
		t.Error("unreadable text must not yield an instant")
	}
	if d.IsZero() {
		t.Error("unreadable text must not be dropped")
	}
	out, _ := json.Marshal(d)
	if string(out) != `"10/05/2024"` {
		t.Errorf("got %s", out)
	}
}

func TestDate_EmptyValues(t *testing.T) {
	for _, in := range []string{`null`, `""`} {
		var d domain.Date
		if err := json.Unmarshal([]byte(in), &d); err != nil {
			t.Fatalf("decode %s: %v", in, err)
		}
		if !d.IsZero() {
			t.Errorf("%s: expected zero date", in)
		}
	}
}

func TestTask_UnsetDueDateOmitted(t *testing.T) {
	out, err := json.Marshal(domain.Task{ID: "t1", Description: "sem prazo"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if strings.Contains(string(out), "dueDate") {
		t.Errorf("expected dueDate omitted, got %s", out)
	}
}

func TestMoney_EncodedAsNumber(t *testing.T) {
	fee := domain.Fee{ID: "f1", CaseID: "case-1", Amount: decimal.RequireFromString("100.25")}
	out, err := json.Marshal(fee)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.Contains(string(out), `"amount":100.25`) {
		t.Errorf("expected numeric amount, got %s", out)
	}

	exp := domain.Expense{ID: "e1", CaseID: "case-1", Amount: decimal.NewFromInt(40)}
	out, err = json.Marshal(exp)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.Contains(string(out), `"amount":40`) {
		t.Errorf("expected numeric amount, got %s", out)
	}
}
