package models

import (
	"time"

	"github.com/sheikh-saqib/ledger-transaction-engine/internal/money"
)

type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "DEPOSIT"
	TransactionTypeWithdrawal TransactionType = "WITHDRAWAL"
	TransactionTypeTransfer   TransactionType = "TRANSFER"
)

type TransactionStatus string

const (
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusFailed    TransactionStatus = "FAILED"
)

// Transaction records the intent and outcome of one operation. It is
// persisted atomically with the entries it owns, or not at all: no durable
// pending state is ever observable.
//
// Shape per type: DEPOSIT has a destination only (one CREDIT entry),
// WITHDRAWAL a source only (one DEBIT entry), TRANSFER both (one DEBIT plus
// one CREDIT of the same amount against different accounts).
type Transaction struct {
	ID                   string            `json:"transaction_id"`
	Type                 TransactionType   `json:"type"`
	SourceAccountID      string            `json:"source_account_id,omitempty"`
	DestinationAccountID string            `json:"destination_account_id,omitempty"`
	Amount               money.Money       `json:"amount"`
	Status               TransactionStatus `json:"status"`
	CreatedAt            time.Time         `json:"created_at"`
}
