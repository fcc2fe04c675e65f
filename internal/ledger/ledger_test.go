package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		input   string
		want    Kind
		wantErr bool
	}{
		{"income", KindIncome, false},
		{"expense", KindExpense, false},
		{"  Expense ", KindExpense, false},
		{"INCOME", KindIncome, false},
		{"transfer", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseKind(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseKind(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseKind(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTransactionValidate(t *testing.T) {
	valid := Transaction{
		OwnerID:     "123",
		Kind:        KindExpense,
		Amount:      decimal.NewFromInt(25000),
		Description: "beli kopi",
	}

	if err := valid.Validate(); err != nil {
		t.Errorf("Validate() unexpected error: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Transaction)
	}{
		{"empty owner", func(tx *Transaction) { tx.OwnerID = "" }},
		{"invalid kind", func(tx *Transaction) { tx.Kind = "transfer" }},
		{"zero amount", func(tx *Transaction) { tx.Amount = decimal.Zero }},
		{"negative amount", func(tx *Transaction) { tx.Amount = decimal.NewFromInt(-100) }},
		{"blank description", func(tx *Transaction) { tx.Description = "   " }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := valid
			tt.mutate(&tx)
			if err := tx.Validate(); err == nil {
				t.Error("Validate() expected error, got nil")
			}
		})
	}
}

func TestUpdateFieldsValidate(t *testing.T) {
	ok := UpdateFields{Amount: decimal.NewFromInt(30000), Description: "beli kopi susu"}
	if err := ok.Validate(); err != nil {
		t.Errorf("Validate() unexpected error: %v", err)
	}

	bad := UpdateFields{Amount: decimal.Zero, Description: "x"}
	if err := bad.Validate(); err == nil {
		t.Error("Validate() expected error for zero amount")
	}

	blank := UpdateFields{Amount: decimal.NewFromInt(10), Description: ""}
	if err := blank.Validate(); err == nil {
		t.Error("Validate() expected error for empty description")
	}
}
