package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a transaction does not exist for the given
// id and owner, or was removed concurrently.
var ErrNotFound = errors.New("ledger: transaction not found")

// Kind is the transaction polarity.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

// ParseKind validates a raw kind string.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindIncome:
		return KindIncome, nil
	case KindExpense:
		return KindExpense, nil
	default:
		return "", fmt.Errorf("ledger: invalid kind %q", s)
	}
}

// DefaultCategory is used when the model does not produce a category.
const DefaultCategory = "Other"

// Transaction is one income or expense record owned by a single user.
// Kind and OwnerID are immutable after insert; the edit flow may change
// Amount, Description and Category only.
type Transaction struct {
	ID          string
	OwnerID     string
	Kind        Kind
	Amount      decimal.Decimal
	Description string
	Category    string
	CreatedAt   time.Time
}

// Validate checks the domain invariants before insert.
func (t *Transaction) Validate() error {
	if t.OwnerID == "" {
		return fmt.Errorf("ledger: owner id is empty")
	}
	if _, err := ParseKind(string(t.Kind)); err != nil {
		return err
	}
	if !t.Amount.IsPositive() {
		return fmt.Errorf("ledger: amount must be positive, got %s", t.Amount)
	}
	if strings.TrimSpace(t.Description) == "" {
		return fmt.Errorf("ledger: description is empty")
	}
	return nil
}

// UpdateFields carries the mutable subset of a transaction for Update.
// Kind and owner are never part of an update.
type UpdateFields struct {
	Amount      decimal.Decimal
	Description string
	Category    string
}

// Validate checks the update invariants.
func (f UpdateFields) Validate() error {
	if !f.Amount.IsPositive() {
		return fmt.Errorf("ledger: amount must be positive, got %s", f.Amount)
	}
	if strings.TrimSpace(f.Description) == "" {
		return fmt.Errorf("ledger: description is empty")
	}
	return nil
}

// Store is the ledger persistence adapter. All row operations are scoped
// by owner so one user can never touch another user's records.
type Store interface {
	// Insert stores a new transaction and returns its assigned id.
	Insert(ctx context.Context, tx *Transaction) (string, error)

	// Update applies the mutable fields to an existing transaction.
	// Returns ErrNotFound if the row does not exist for this owner.
	Update(ctx context.Context, id, ownerID string, fields UpdateFields) error

	// Delete removes one transaction and returns the removed record.
	// Returns ErrNotFound if the row does not exist for this owner.
	Delete(ctx context.Context, id, ownerID string) (*Transaction, error)

	// DeleteAll removes every transaction of one owner and reports how
	// many rows were removed.
	DeleteAll(ctx context.Context, ownerID string) (int64, error)

	// SelectByOwnerAndRange lists an owner's transactions with
	// CreatedAt in the half-open interval [start, end), newest first.
	// An empty kind filter returns both kinds.
	SelectByOwnerAndRange(ctx context.Context, ownerID string, start, end time.Time, kindFilter Kind) ([]Transaction, error)

	// SelectByID fetches a single transaction scoped to its owner.
	// Returns ErrNotFound if absent.
	SelectByID(ctx context.Context, id, ownerID string) (*Transaction, error)

	// Balance returns income minus expense for one owner, computed by
	// the store's own aggregation.
	Balance(ctx context.Context, ownerID string) (decimal.Decimal, error)
}
