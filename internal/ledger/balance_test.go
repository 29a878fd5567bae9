package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sheikh-saqib/ledger-transaction-engine/internal/ledger"
	"github.com/sheikh-saqib/ledger-transaction-engine/internal/models"
	"github.com/sheikh-saqib/ledger-transaction-engine/internal/money"
)

func entry(kind models.EntryKind, amount string) models.LedgerEntry {
	return models.LedgerEntry{Kind: kind, Amount: money.MustParse(amount)}
}

func TestBalanceEmptyHistory(t *testing.T) {
	assert.True(t, ledger.Balance(nil).Equal(money.Zero()))
	assert.True(t, ledger.Balance([]models.LedgerEntry{}).Equal(money.Zero()))
}

func TestBalanceFoldsCreditsMinusDebits(t *testing.T) {
	entries := []models.LedgerEntry{
		entry(models.EntryKindCredit, "100.00"),
		entry(models.EntryKindDebit, "40.00"),
		entry(models.EntryKindCredit, "0.0001"),
		entry(models.EntryKindDebit, "10.50"),
	}

	assert.Equal(t, "49.5001", ledger.Balance(entries).String())
}

func TestBalanceIsOrderIndependent(t *testing.T) {
	forward := []models.LedgerEntry{
		entry(models.EntryKindCredit, "75.25"),
		entry(models.EntryKindDebit, "25.25"),
		entry(models.EntryKindCredit, "1.00"),
	}
	reversed := []models.LedgerEntry{forward[2], forward[1], forward[0]}

	assert.True(t, ledger.Balance(forward).Equal(ledger.Balance(reversed)))
}

func TestBalanceCanGoNegativeOnRawEntries(t *testing.T) {
	// The calculator is a pure fold; non-negativity is enforced by the
	// orchestrator's guarded writes, not here.
	entries := []models.LedgerEntry{
		entry(models.EntryKindDebit, "10.00"),
	}
	assert.Equal(t, "-10.0000", ledger.Balance(entries).String())
}
