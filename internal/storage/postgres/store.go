package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/sheikh-saqib/ledger-transaction-engine/internal/interfaces"
	"github.com/sheikh-saqib/ledger-transaction-engine/internal/models"
	"github.com/sheikh-saqib/ledger-transaction-engine/internal/money"
)

// Store is the postgres implementation of interfaces.LedgerStore.
//
// Concurrency control: a guarded append takes a row lock on the guarded
// account (SELECT ... FOR UPDATE) and re-derives its balance from entries
// inside the same database transaction as the inserts. Every debiting
// operation guards its source account, so two concurrent debits against the
// same account serialize on that row lock while operations on disjoint
// accounts proceed in parallel.
type Store struct {
	db  *sql.DB
	log *zap.Logger
}

func NewStore(db *sql.DB, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{db: db, log: log}
}

// Open connects to postgres and tunes the pool for concurrent callers.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	db.SetMaxOpenConns(30)
	db.SetMaxIdleConns(20)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(15 * time.Minute)

	return db, nil
}

func (s *Store) CreateAccount(ctx context.Context, account models.Account) (models.Account, error) {
	const query = `
INSERT INTO accounts (id, user_id, account_type, currency, created_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING created_at`

	var createdAt time.Time
	if err := s.db.QueryRowContext(
		ctx,
		query,
		account.ID,
		account.UserID,
		account.AccountType,
		account.Currency,
		account.CreatedAt,
	).Scan(&createdAt); err != nil {
		return models.Account{}, classify("create account", err)
	}

	account.CreatedAt = createdAt
	return account, nil
}

func (s *Store) GetAccount(ctx context.Context, accountID string) (models.Account, error) {
	const query = `
SELECT id, user_id, account_type, currency, created_at
FROM accounts
WHERE id = $1`

	var account models.Account
	err := s.db.QueryRowContext(ctx, query, accountID).Scan(
		&account.ID,
		&account.UserID,
		&account.AccountType,
		&account.Currency,
		&account.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Account{}, fmt.Errorf("%w: %s", models.ErrAccountNotFound, accountID)
	}
	if err != nil {
		return models.Account{}, classify("get account", err)
	}
	return account, nil
}

func (s *Store) EntriesByAccount(ctx context.Context, accountID string) ([]models.LedgerEntry, error) {
	const query = `
SELECT id, account_id, transaction_id, kind, amount, created_at
FROM ledger_entries
WHERE account_id = $1
ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, classify("query entries", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (s *Store) AllEntries(ctx context.Context) ([]models.LedgerEntry, error) {
	const query = `
SELECT id, account_id, transaction_id, kind, amount, created_at
FROM ledger_entries
ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, classify("query entries", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// AppendTransaction writes one transaction and its entries as a single
// all-or-nothing unit. When the request carries a funds guard, the guarded
// account's balance is read under FOR UPDATE before any insert; a failed
// check rolls back with no writes visible.
func (s *Store) AppendTransaction(ctx context.Context, req interfaces.AppendRequest) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return classify("begin transaction", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if req.Guard != nil {
		if err = s.checkGuard(ctx, tx, *req.Guard); err != nil {
			return err
		}
	}

	if err = insertTransaction(ctx, tx, req.Transaction); err != nil {
		return err
	}
	for _, entry := range req.Entries {
		if err = insertEntry(ctx, tx, entry); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return classify("commit transaction", err)
	}
	return nil
}

// checkGuard locks the guarded account row and re-derives its balance from
// entries inside the open transaction. The row lock makes the balance read
// and the subsequent entry inserts one serialized unit per account.
func (s *Store) checkGuard(ctx context.Context, tx *sql.Tx, guard interfaces.FundsGuard) error {
	const lockQuery = `SELECT id FROM accounts WHERE id = $1 FOR UPDATE`

	var lockedID string
	err := tx.QueryRowContext(ctx, lockQuery, guard.AccountID).Scan(&lockedID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", models.ErrAccountNotFound, guard.AccountID)
	}
	if err != nil {
		return classify("lock account", err)
	}

	const balanceQuery = `
SELECT COALESCE(SUM(CASE WHEN kind = 'CREDIT' THEN amount ELSE -amount END), 0)
FROM ledger_entries
WHERE account_id = $1`

	var balance money.Money
	if err := tx.QueryRowContext(ctx, balanceQuery, guard.AccountID).Scan(&balance); err != nil {
		return classify("read locked balance", err)
	}

	if balance.LessThan(guard.Amount) {
		return fmt.Errorf("%w: account %s has %s, requires %s",
			models.ErrInsufficientFunds, guard.AccountID, balance, guard.Amount)
	}
	return nil
}

func insertTransaction(ctx context.Context, tx *sql.Tx, txn models.Transaction) error {
	const query = `
INSERT INTO transactions (id, type, source_account_id, destination_account_id, amount, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := tx.ExecContext(
		ctx,
		query,
		txn.ID,
		txn.Type,
		nullable(txn.SourceAccountID),
		nullable(txn.DestinationAccountID),
		txn.Amount,
		txn.Status,
		txn.CreatedAt,
	)
	if err != nil {
		return classify("insert transaction", err)
	}
	return nil
}

func insertEntry(ctx context.Context, tx *sql.Tx, entry models.LedgerEntry) error {
	const query = `
INSERT INTO ledger_entries (id, account_id, transaction_id, kind, amount, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := tx.ExecContext(
		ctx,
		query,
		entry.ID,
		entry.AccountID,
		entry.TransactionID,
		entry.Kind,
		entry.Amount,
		entry.CreatedAt,
	)
	if err != nil {
		return classify("insert entry", err)
	}
	return nil
}

func scanEntries(rows *sql.Rows) ([]models.LedgerEntry, error) {
	var entries []models.LedgerEntry
	for rows.Next() {
		var entry models.LedgerEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.AccountID,
			&entry.TransactionID,
			&entry.Kind,
			&entry.Amount,
			&entry.CreatedAt,
		); err != nil {
			return nil, classify("scan entry", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("iterate entries", err)
	}
	return entries, nil
}

// classify maps driver errors onto the engine's typed failures. Foreign-key
// violations mean a referenced account is gone; everything else is a store
// failure the shell reports as a server error.
func classify(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
		return fmt.Errorf("%s: %w", op, models.ErrAccountNotFound)
	}
	return fmt.Errorf("%s: %w: %v", op, models.ErrStoreFailure, err)
}

func nullable(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}

var _ interfaces.LedgerStore = (*Store)(nil)
