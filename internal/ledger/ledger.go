package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sheikh-saqib/ledger-transaction-engine/internal/interfaces"
	"github.com/sheikh-saqib/ledger-transaction-engine/internal/models"
	"github.com/sheikh-saqib/ledger-transaction-engine/internal/models/events"
	"github.com/sheikh-saqib/ledger-transaction-engine/internal/money"
)

const defaultCurrency = "USD"

// Ledger is the transaction engine. It turns requested operations into
// balanced sets of immutable entries, applied atomically through the store.
// The engine itself holds no mutable shared state: concurrency control for
// funds checks lives in the store's guarded append, where the check and the
// write share one atomic scope.
type Ledger struct {
	store     interfaces.LedgerStore
	publisher interfaces.EventPublisher
	log       *zap.Logger
}

// NewLedger wires the engine to a store. The publisher may be nil, in which
// case completed transactions are not announced.
func NewLedger(store interfaces.LedgerStore, publisher interfaces.EventPublisher, log *zap.Logger) *Ledger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Ledger{
		store:     store,
		publisher: publisher,
		log:       log,
	}
}

// CreateAccount registers a new account. Currency defaults to USD and is
// fixed for the account's lifetime.
func (l *Ledger) CreateAccount(ctx context.Context, userID, accountType, currency string) (models.Account, error) {
	userID = strings.TrimSpace(userID)
	accountType = strings.TrimSpace(accountType)
	currency = strings.ToUpper(strings.TrimSpace(currency))

	if userID == "" {
		return models.Account{}, fmt.Errorf("%w: userId is required", models.ErrValidation)
	}
	if accountType == "" {
		return models.Account{}, fmt.Errorf("%w: accountType is required", models.ErrValidation)
	}
	if currency == "" {
		currency = defaultCurrency
	}

	account := models.Account{
		ID:          uuid.NewString(),
		UserID:      userID,
		AccountType: accountType,
		Currency:    currency,
		CreatedAt:   time.Now().UTC(),
	}

	created, err := l.store.CreateAccount(ctx, account)
	if err != nil {
		return models.Account{}, err
	}

	l.log.Info("account created",
		zap.String("account_id", created.ID),
		zap.String("user_id", created.UserID),
		zap.String("currency", created.Currency),
	)
	return created, nil
}

// Deposit credits an account. Deposits need no funds check; they cannot
// fail for balance reasons.
func (l *Ledger) Deposit(ctx context.Context, accountID string, amount money.Money) (models.Transaction, error) {
	if err := l.validateOperation(ctx, accountID, amount); err != nil {
		return models.Transaction{}, err
	}

	now := time.Now().UTC()
	txn := models.Transaction{
		ID:                   uuid.NewString(),
		Type:                 models.TransactionTypeDeposit,
		DestinationAccountID: accountID,
		Amount:               amount,
		Status:               models.TransactionStatusCompleted,
		CreatedAt:            now,
	}

	err := l.store.AppendTransaction(ctx, interfaces.AppendRequest{
		Transaction: txn,
		Entries: []models.LedgerEntry{
			newEntry(txn.ID, accountID, models.EntryKindCredit, amount, now),
		},
	})
	if err != nil {
		return models.Transaction{}, err
	}

	l.completed(ctx, txn)
	return txn, nil
}

// Withdraw debits an account. The store evaluates the funds guard under the
// same atomic scope as the write, so a lost race surfaces as
// ErrInsufficientFunds with zero side effects.
func (l *Ledger) Withdraw(ctx context.Context, accountID string, amount money.Money) (models.Transaction, error) {
	if err := l.validateOperation(ctx, accountID, amount); err != nil {
		return models.Transaction{}, err
	}

	now := time.Now().UTC()
	txn := models.Transaction{
		ID:              uuid.NewString(),
		Type:            models.TransactionTypeWithdrawal,
		SourceAccountID: accountID,
		Amount:          amount,
		Status:          models.TransactionStatusCompleted,
		CreatedAt:       now,
	}

	err := l.store.AppendTransaction(ctx, interfaces.AppendRequest{
		Transaction: txn,
		Entries: []models.LedgerEntry{
			newEntry(txn.ID, accountID, models.EntryKindDebit, amount, now),
		},
		Guard: &interfaces.FundsGuard{AccountID: accountID, Amount: amount},
	})
	if err != nil {
		return models.Transaction{}, err
	}

	l.completed(ctx, txn)
	return txn, nil
}

// Transfer moves funds between two distinct accounts: one DEBIT against the
// source and one CREDIT against the destination, equal amounts, written
// with the owning transaction as a single all-or-nothing unit.
func (l *Ledger) Transfer(ctx context.Context, sourceID, destinationID string, amount money.Money) (models.Transaction, error) {
	if sourceID == "" || destinationID == "" {
		return models.Transaction{}, fmt.Errorf("%w: source and destination account ids are required", models.ErrValidation)
	}
	if !amount.IsPositive() {
		return models.Transaction{}, fmt.Errorf("%w: amount must be positive", models.ErrInvalidAmount)
	}
	if sourceID == destinationID {
		return models.Transaction{}, fmt.Errorf("%w: source and destination are the same account", models.ErrInvalidTransfer)
	}
	if _, err := l.store.GetAccount(ctx, sourceID); err != nil {
		return models.Transaction{}, transferAccountErr("source", sourceID, err)
	}
	if _, err := l.store.GetAccount(ctx, destinationID); err != nil {
		return models.Transaction{}, transferAccountErr("destination", destinationID, err)
	}

	now := time.Now().UTC()
	txn := models.Transaction{
		ID:                   uuid.NewString(),
		Type:                 models.TransactionTypeTransfer,
		SourceAccountID:      sourceID,
		DestinationAccountID: destinationID,
		Amount:               amount,
		Status:               models.TransactionStatusCompleted,
		CreatedAt:            now,
	}

	err := l.store.AppendTransaction(ctx, interfaces.AppendRequest{
		Transaction: txn,
		Entries: []models.LedgerEntry{
			newEntry(txn.ID, sourceID, models.EntryKindDebit, amount, now),
			newEntry(txn.ID, destinationID, models.EntryKindCredit, amount, now),
		},
		Guard: &interfaces.FundsGuard{AccountID: sourceID, Amount: amount},
	})
	if err != nil {
		return models.Transaction{}, err
	}

	l.completed(ctx, txn)
	return txn, nil
}

// AccountDetail is the read-path view of an account: immutable metadata
// plus the balance derived from its entry history.
type AccountDetail struct {
	Account models.Account
	Balance money.Money
}

func (l *Ledger) GetAccount(ctx context.Context, accountID string) (AccountDetail, error) {
	account, err := l.store.GetAccount(ctx, accountID)
	if err != nil {
		return AccountDetail{}, err
	}

	entries, err := l.store.EntriesByAccount(ctx, accountID)
	if err != nil {
		return AccountDetail{}, err
	}

	return AccountDetail{Account: account, Balance: Balance(entries)}, nil
}

// GetLedger returns the account's full entry history in creation order. An
// existing account with no entries yields an empty history, not an error.
func (l *Ledger) GetLedger(ctx context.Context, accountID string) ([]models.LedgerEntry, error) {
	if _, err := l.store.GetAccount(ctx, accountID); err != nil {
		return nil, err
	}

	entries, err := l.store.EntriesByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []models.LedgerEntry{}
	}
	return entries, nil
}

// AllEntries exposes the raw global ledger for audit reads.
func (l *Ledger) AllEntries(ctx context.Context) ([]models.LedgerEntry, error) {
	entries, err := l.store.AllEntries(ctx)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []models.LedgerEntry{}
	}
	return entries, nil
}

// validateOperation runs the shared deposit/withdrawal checks: all
// validation happens before any write is attempted.
func (l *Ledger) validateOperation(ctx context.Context, accountID string, amount money.Money) error {
	if accountID == "" {
		return fmt.Errorf("%w: accountId is required", models.ErrValidation)
	}
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", models.ErrInvalidAmount)
	}
	if _, err := l.store.GetAccount(ctx, accountID); err != nil {
		return err
	}
	return nil
}

// completed logs and announces a committed transaction. Publishing is
// best-effort: the transaction is already durable, so a broker outage must
// not fail the operation.
func (l *Ledger) completed(ctx context.Context, txn models.Transaction) {
	l.log.Info("transaction completed",
		zap.String("transaction_id", txn.ID),
		zap.String("type", string(txn.Type)),
		zap.String("amount", txn.Amount.String()),
	)

	if l.publisher == nil {
		return
	}

	event := events.TransactionCompleted{
		TransactionID:        txn.ID,
		Type:                 string(txn.Type),
		SourceAccountID:      txn.SourceAccountID,
		DestinationAccountID: txn.DestinationAccountID,
		Amount:               txn.Amount,
		OccurredAt:           txn.CreatedAt,
	}
	if err := l.publisher.Publish(ctx, event); err != nil {
		l.log.Warn("publish transaction event failed",
			zap.String("transaction_id", txn.ID),
			zap.Error(err),
		)
	}
}

func newEntry(transactionID, accountID string, kind models.EntryKind, amount money.Money, at time.Time) models.LedgerEntry {
	return models.LedgerEntry{
		ID:            uuid.NewString(),
		AccountID:     accountID,
		TransactionID: transactionID,
		Kind:          kind,
		Amount:        amount,
		CreatedAt:     at,
	}
}

func transferAccountErr(role, accountID string, err error) error {
	if errors.Is(err, models.ErrAccountNotFound) {
		return fmt.Errorf("%w: %s account %s does not exist", models.ErrInvalidTransfer, role, accountID)
	}
	return err
}
