package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PostgresStore is the Store implementation backed by Postgres via pgx.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore connects to Postgres and verifies the connection.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("ledger: parse database url: %w", err)
	}
	cfg.MaxConns = 5
	cfg.MinConns = 1
	cfg.MaxConnIdleTime = 2 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("ledger: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ledger: ping: %w", err)
	}
	return &PostgresStore{db: pool}, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	s.db.Close()
}

// Ping probes the database connection.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// EnsureSchema creates the transactions table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	query := `
    CREATE TABLE IF NOT EXISTS transactions (
        id UUID PRIMARY KEY,
        owner_id VARCHAR(255) NOT NULL,
        kind VARCHAR(16) NOT NULL CHECK (kind IN ('income', 'expense')),
        amount NUMERIC(18,2) NOT NULL CHECK (amount > 0),
        description TEXT NOT NULL,
        category VARCHAR(255) NOT NULL DEFAULT 'Other',
        created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
    );
    CREATE INDEX IF NOT EXISTS idx_transactions_owner_created
        ON transactions (owner_id, created_at);`

	if _, err := s.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("ledger: ensure schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Insert(ctx context.Context, tx *Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", err
	}
	if tx.Category == "" {
		tx.Category = DefaultCategory
	}
	id := uuid.New().String()

	var createdAt time.Time
	err := s.db.QueryRow(ctx,
		`INSERT INTO transactions (id, owner_id, kind, amount, description, category)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at`,
		id, tx.OwnerID, string(tx.Kind), tx.Amount.StringFixed(2), tx.Description, tx.Category,
	).Scan(&createdAt)
	if err != nil {
		return "", fmt.Errorf("ledger: insert: %w", err)
	}

	tx.ID = id
	tx.CreatedAt = createdAt
	return id, nil
}

func (s *PostgresStore) Update(ctx context.Context, id, ownerID string, fields UpdateFields) error {
	if err := fields.Validate(); err != nil {
		return err
	}
	category := fields.Category
	if category == "" {
		category = DefaultCategory
	}

	tag, err := s.db.Exec(ctx,
		`UPDATE transactions
		 SET amount = $1, description = $2, category = $3
		 WHERE id = $4 AND owner_id = $5`,
		fields.Amount.StringFixed(2), fields.Description, category, id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("ledger: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id, ownerID string) (*Transaction, error) {
	row := s.db.QueryRow(ctx,
		`DELETE FROM transactions
		 WHERE id = $1 AND owner_id = $2
		 RETURNING id, owner_id, kind, amount::text, description, category, created_at`,
		id, ownerID,
	)
	tx, err := scanTransaction(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ledger: delete: %w", err)
	}
	return tx, nil
}

func (s *PostgresStore) DeleteAll(ctx context.Context, ownerID string) (int64, error) {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM transactions WHERE owner_id = $1`, ownerID)
	if err != nil {
		return 0, fmt.Errorf("ledger: delete all: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (s *PostgresStore) SelectByOwnerAndRange(ctx context.Context, ownerID string, start, end time.Time, kindFilter Kind) ([]Transaction, error) {
	query := `
		SELECT id, owner_id, kind, amount::text, description, category, created_at
		FROM transactions
		WHERE owner_id = $1 AND created_at >= $2 AND created_at < $3`
	args := []any{ownerID, start, end}
	if kindFilter != "" {
		query += ` AND kind = $4`
		args = append(args, string(kindFilter))
	}
	query += ` ORDER BY created_at DESC, id`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ledger: select range: %w", err)
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("ledger: scan: %w", err)
		}
		out = append(out, *tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ledger: select range: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) SelectByID(ctx context.Context, id, ownerID string) (*Transaction, error) {
	row := s.db.QueryRow(ctx,
		`SELECT id, owner_id, kind, amount::text, description, category, created_at
		 FROM transactions
		 WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	)
	tx, err := scanTransaction(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ledger: select by id: %w", err)
	}
	return tx, nil
}

func (s *PostgresStore) Balance(ctx context.Context, ownerID string) (decimal.Decimal, error) {
	var raw string
	err := s.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(CASE WHEN kind = 'income' THEN amount ELSE -amount END), 0)::text
		 FROM transactions
		 WHERE owner_id = $1`,
		ownerID,
	).Scan(&raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("ledger: balance: %w", err)
	}
	balance, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("ledger: parse balance %q: %w", raw, err)
	}
	return balance, nil
}

func scanTransaction(row pgx.Row) (*Transaction, error) {
	var (
		tx     Transaction
		kind   string
		amount string
	)
	if err := row.Scan(&tx.ID, &tx.OwnerID, &kind, &amount, &tx.Description, &tx.Category, &tx.CreatedAt); err != nil {
		return nil, err
	}
	tx.Kind = Kind(kind)
	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	tx.Amount = parsed
	return &tx, nil
}

var _ Store = (*PostgresStore)(nil)
