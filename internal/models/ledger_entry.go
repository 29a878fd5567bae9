package models

import (
	"time"

	"github.com/sheikh-saqib/ledger-transaction-engine/internal/money"
)

// EntryKind is the direction of a ledger entry. Amounts are always
// positive; direction is carried here, never by a signed amount.
type EntryKind string

const (
	EntryKindDebit  EntryKind = "DEBIT"
	EntryKindCredit EntryKind = "CREDIT"
)

// LedgerEntry is a single immutable ledger record for one account. Entries
// are only ever created as part of a transaction's atomic write, never
// singly, and are never updated or deleted.
type LedgerEntry struct {
	ID            string      `json:"entry_id"`
	AccountID     string      `json:"account_id"`
	TransactionID string      `json:"transaction_id"`
	Kind          EntryKind   `json:"kind"`
	Amount        money.Money `json:"amount"`
	CreatedAt     time.Time   `json:"created_at"`
}
