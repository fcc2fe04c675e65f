package intent

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/asdiayu/Bot-flow-cash/internal/ledger"
	"github.com/asdiayu/Bot-flow-cash/internal/logger"
)

type fakeCompleter struct {
	text string
	err  error
}

func (f *fakeCompleter) Complete(ctx context.Context, primary, secondary string) (string, error) {
	return f.text, f.err
}

func newTestRouter(text string, err error) *Router {
	log := logger.NewWithWriter(nopWriter{})
	return NewRouter(&fakeCompleter{text: text, err: err}, log)
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

var someDay = time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

func TestRoute_LogTransaction(t *testing.T) {
	r := newTestRouter(`{"intent":"log_transaction","transaction":{"type":"expense","amount":25000,"description":"beli kopi","category":"Makanan"}}`, nil)

	got := r.Route(context.Background(), "beli kopi 25000", someDay)
	if got.Name != LogTransaction {
		t.Fatalf("Name = %q, want log_transaction", got.Name)
	}
	tx := got.Transaction
	if tx == nil {
		t.Fatal("Transaction payload is nil")
	}
	if tx.Kind != ledger.KindExpense {
		t.Errorf("Kind = %q, want expense", tx.Kind)
	}
	if !tx.Amount.Equal(decimal.NewFromInt(25000)) {
		t.Errorf("Amount = %s, want 25000", tx.Amount)
	}
	if tx.Description != "beli kopi" {
		t.Errorf("Description = %q", tx.Description)
	}
	if tx.Category != "Makanan" {
		t.Errorf("Category = %q", tx.Category)
	}
}

func TestRoute_LogTransactionDefaultsCategory(t *testing.T) {
	r := newTestRouter(`{"intent":"log_transaction","transaction":{"type":"income","amount":5000000,"description":"gaji","category":""}}`, nil)

	got := r.Route(context.Background(), "gaji 5jt", someDay)
	if got.Name != LogTransaction {
		t.Fatalf("Name = %q, want log_transaction", got.Name)
	}
	if got.Transaction.Category != ledger.DefaultCategory {
		t.Errorf("Category = %q, want %q", got.Transaction.Category, ledger.DefaultCategory)
	}
}

func TestRoute_FencedResponse(t *testing.T) {
	r := newTestRouter("```json\n{\"intent\":\"query_balance\"}\n```", nil)

	got := r.Route(context.Background(), "saldo", someDay)
	if got.Name != QueryBalance {
		t.Errorf("Name = %q, want query_balance", got.Name)
	}
}

func TestRoute_QuerySummary(t *testing.T) {
	tests := []struct {
		name       string
		response   string
		wantPeriod ledger.Period
		wantFilter ledger.Kind
	}{
		{
			name:       "this month all",
			response:   `{"intent":"query_summary","query":{"period":"this_month","type":"all"}}`,
			wantPeriod: ledger.PeriodThisMonth,
			wantFilter: "",
		},
		{
			name:       "yesterday expenses",
			response:   `{"intent":"query_summary","query":{"period":"yesterday","type":"expense"}}`,
			wantPeriod: ledger.PeriodYesterday,
			wantFilter: ledger.KindExpense,
		},
		{
			name:       "today income",
			response:   `{"intent":"query_summary","query":{"period":"today","type":"income"}}`,
			wantPeriod: ledger.PeriodToday,
			wantFilter: ledger.KindIncome,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(tt.response, nil)
			got := r.Route(context.Background(), "ringkasan", someDay)
			if got.Name != QuerySummary {
				t.Fatalf("Name = %q, want query_summary", got.Name)
			}
			if got.Summary.Period != tt.wantPeriod {
				t.Errorf("Period = %q, want %q", got.Summary.Period, tt.wantPeriod)
			}
			if got.Summary.KindFilter != tt.wantFilter {
				t.Errorf("KindFilter = %q, want %q", got.Summary.KindFilter, tt.wantFilter)
			}
		})
	}
}

func TestRoute_ReportRejectsDailyPeriod(t *testing.T) {
	r := newTestRouter(`{"intent":"request_financial_report","query":{"period":"today"}}`, nil)

	got := r.Route(context.Background(), "laporan hari ini", someDay)
	if got.Name != Unknown {
		t.Errorf("Name = %q, want unknown for non-monthly report period", got.Name)
	}
}

func TestRoute_MalformedOutput(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"not json", "I think you bought coffee."},
		{"missing intent key", `{"transaction":{"type":"expense","amount":10,"description":"x"}}`},
		{"unknown tag", `{"intent":"transfer_funds"}`},
		{"negative amount", `{"intent":"log_transaction","transaction":{"type":"expense","amount":-5,"description":"x"}}`},
		{"zero amount", `{"intent":"log_transaction","transaction":{"type":"expense","amount":0,"description":"x"}}`},
		{"string amount", `{"intent":"log_transaction","transaction":{"type":"expense","amount":"lots","description":"x"}}`},
		{"empty description", `{"intent":"log_transaction","transaction":{"type":"expense","amount":10,"description":"  "}}`},
		{"bad kind", `{"intent":"log_transaction","transaction":{"type":"loan","amount":10,"description":"x"}}`},
		{"missing payload", `{"intent":"log_transaction"}`},
		{"bad period", `{"intent":"query_summary","query":{"period":"this_week","type":"all"}}`},
		{"bad filter", `{"intent":"query_summary","query":{"period":"today","type":"both"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(tt.response, nil)
			got := r.Route(context.Background(), "whatever", someDay)
			if got.Name != Unknown {
				t.Errorf("Name = %q, want unknown", got.Name)
			}
		})
	}
}

func TestRoute_GatewayFailure(t *testing.T) {
	r := newTestRouter("", errors.New("all providers down"))

	got := r.Route(context.Background(), "beli kopi 25000", someDay)
	if got.Name != Unknown {
		t.Errorf("Name = %q, want unknown when the gateway fails", got.Name)
	}
}

func TestBuildClassifyPrompt_ContainsDateAndUtterance(t *testing.T) {
	p := buildClassifyPrompt("beli kopi 25000", someDay)
	for _, want := range []string{"2024-06-15", "beli kopi 25000", "log_transaction", "request_reset"} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
