package ledger_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/sheikh-saqib/ledger-transaction-engine/internal/models"
	"github.com/sheikh-saqib/ledger-transaction-engine/internal/money"
)

// TestConcurrentWithdrawalsNeverOverdraft launches K concurrent withdrawals
// of amount A against a balance of (K-1)*A + A/2. Exactly K-1 may succeed;
// the funds check and the debit write share one atomic scope, so the losers
// must fail with ErrInsufficientFunds rather than overdraw.
func TestConcurrentWithdrawalsNeverOverdraft(t *testing.T) {
	const k = 8
	amount := money.MustParse("10.00")
	initial := money.MustParse("75.00") // (k-1)*10 + 5

	l, _ := newTestLedger(t)
	ctx := context.Background()
	account := createAccount(t, l, "u1")
	_, err := l.Deposit(ctx, account.ID, initial)
	require.NoError(t, err)

	var successes, rejections atomic.Int64
	var g errgroup.Group
	for i := 0; i < k; i++ {
		g.Go(func() error {
			_, err := l.Withdraw(ctx, account.ID, amount)
			switch {
			case err == nil:
				successes.Add(1)
				return nil
			case errors.Is(err, models.ErrInsufficientFunds):
				rejections.Add(1)
				return nil
			default:
				return err
			}
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int64(k-1), successes.Load())
	assert.Equal(t, int64(1), rejections.Load())

	detail, err := l.GetAccount(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "5.0000", detail.Balance.String())
	assert.False(t, detail.Balance.IsNegative())
}

// TestConcurrentMixedDebitsSameSource races withdrawals against outgoing
// transfers from one account; combined successes must never exceed the
// funded balance.
func TestConcurrentMixedDebitsSameSource(t *testing.T) {
	const k = 10
	amount := money.MustParse("20.00")

	l, _ := newTestLedger(t)
	ctx := context.Background()
	source := createAccount(t, l, "u1")
	sink := createAccount(t, l, "u2")
	_, err := l.Deposit(ctx, source.ID, money.MustParse("100.00"))
	require.NoError(t, err)

	var successes atomic.Int64
	var g errgroup.Group
	for i := 0; i < k; i++ {
		useTransfer := i%2 == 0
		g.Go(func() error {
			var err error
			if useTransfer {
				_, err = l.Transfer(ctx, source.ID, sink.ID, amount)
			} else {
				_, err = l.Withdraw(ctx, source.ID, amount)
			}
			if err == nil {
				successes.Add(1)
				return nil
			}
			if errors.Is(err, models.ErrInsufficientFunds) {
				return nil
			}
			return err
		})
	}
	require.NoError(t, g.Wait())

	// 100.00 funds exactly five 20.00 debits.
	assert.Equal(t, int64(5), successes.Load())

	detail, err := l.GetAccount(ctx, source.ID)
	require.NoError(t, err)
	assert.Equal(t, "0.0000", detail.Balance.String())
}

// TestConcurrentDisjointAccountsAllSucceed verifies operations on disjoint
// accounts do not contend for each other's funds.
func TestConcurrentDisjointAccountsAllSucceed(t *testing.T) {
	const n = 16

	l, _ := newTestLedger(t)
	ctx := context.Background()

	accounts := make([]models.Account, n)
	for i := range accounts {
		accounts[i] = createAccount(t, l, "u1")
		_, err := l.Deposit(ctx, accounts[i].ID, money.MustParse("50.00"))
		require.NoError(t, err)
	}

	var g errgroup.Group
	for i := range accounts {
		account := accounts[i]
		g.Go(func() error {
			_, err := l.Withdraw(ctx, account.ID, money.MustParse("50.00"))
			return err
		})
	}
	require.NoError(t, g.Wait())

	for _, account := range accounts {
		detail, err := l.GetAccount(ctx, account.ID)
		require.NoError(t, err)
		assert.Equal(t, "0.0000", detail.Balance.String())
	}
}
