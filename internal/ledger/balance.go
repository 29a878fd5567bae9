package ledger

import (
	"github.com/sheikh-saqib/ledger-transaction-engine/internal/models"
	"github.com/sheikh-saqib/ledger-transaction-engine/internal/money"
)

// Balance folds one account's entry history into its derived balance:
// the sum of credits minus the sum of debits. Pure function, no I/O;
// summation is commutative so entry order does not matter.
func Balance(entries []models.LedgerEntry) money.Money {
	total := money.Zero()
	for _, entry := range entries {
		switch entry.Kind {
		case models.EntryKindCredit:
			total = total.Add(entry.Amount)
		case models.EntryKindDebit:
			total = total.Sub(entry.Amount)
		}
	}
	return total
}
