package events

import (
	"time"

	"github.com/sheikh-saqib/ledger-transaction-engine/internal/money"
)

// TransactionCompleted is published after a transaction and its entries
// have been committed.
type TransactionCompleted struct {
	TransactionID        string      `json:"transaction_id"`
	Type                 string      `json:"type"`
	SourceAccountID      string      `json:"source_account_id,omitempty"`
	DestinationAccountID string      `json:"destination_account_id,omitempty"`
	Amount               money.Money `json:"amount"`
	OccurredAt           time.Time   `json:"occurred_at"`
}
