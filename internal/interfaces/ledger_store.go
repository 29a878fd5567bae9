package interfaces

import (
	"context"

	"github.com/sheikh-saqib/ledger-transaction-engine/internal/models"
	"github.com/sheikh-saqib/ledger-transaction-engine/internal/money"
)

// FundsGuard names an account whose derived balance must be at least Amount
// for an append to go through. The store evaluates the guard under a
// per-account concurrency guarantee inside the same atomic scope as the
// write, so two concurrent debits against one account can never both pass a
// check that only one of them can satisfy.
type FundsGuard struct {
	AccountID string
	Amount    money.Money
}

// AppendRequest is one transaction together with the entries it owns,
// written as a single all-or-nothing unit.
type AppendRequest struct {
	Transaction models.Transaction
	Entries     []models.LedgerEntry
	Guard       *FundsGuard
}

// LedgerStore is the durable record of accounts, entries and transactions.
// Implementations must guarantee that AppendTransaction is all-or-nothing:
// either every write becomes visible to subsequent reads or none does. A
// guarded append that fails the funds check returns ErrInsufficientFunds
// and leaves no trace.
type LedgerStore interface {
	CreateAccount(ctx context.Context, account models.Account) (models.Account, error)
	GetAccount(ctx context.Context, accountID string) (models.Account, error)
	// EntriesByAccount returns the account's entries in ascending creation
	// order. The account's existence is not checked here; callers resolve
	// the account first.
	EntriesByAccount(ctx context.Context, accountID string) ([]models.LedgerEntry, error)
	// AllEntries returns every entry in the ledger in creation order,
	// the raw audit view of the whole ledger.
	AllEntries(ctx context.Context) ([]models.LedgerEntry, error)
	AppendTransaction(ctx context.Context, req AppendRequest) error
}
