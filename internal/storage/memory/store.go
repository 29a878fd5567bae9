package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/sheikh-saqib/ledger-transaction-engine/internal/interfaces"
	"github.com/sheikh-saqib/ledger-transaction-engine/internal/ledger"
	"github.com/sheikh-saqib/ledger-transaction-engine/internal/models"
	"github.com/sheikh-saqib/ledger-transaction-engine/internal/money"
)

// Store is an in-memory implementation of interfaces.LedgerStore, used by
// tests and local runs. A single mutex covers every operation, so a guarded
// append evaluates its funds check and writes its entries in one critical
// section: the same atomicity the postgres store gets from a row lock
// inside a database transaction.
type Store struct {
	mu           sync.Mutex
	accounts     map[string]models.Account
	entries      []models.LedgerEntry
	transactions map[string]models.Transaction
}

func NewStore() *Store {
	return &Store{
		accounts:     make(map[string]models.Account),
		transactions: make(map[string]models.Transaction),
	}
}

func (s *Store) CreateAccount(_ context.Context, account models.Account) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[account.ID]; exists {
		return models.Account{}, fmt.Errorf("%w: duplicate account id %s", models.ErrStoreFailure, account.ID)
	}

	s.accounts[account.ID] = account
	return account, nil
}

func (s *Store) GetAccount(_ context.Context, accountID string) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[accountID]
	if !ok {
		return models.Account{}, fmt.Errorf("%w: %s", models.ErrAccountNotFound, accountID)
	}
	return account, nil
}

func (s *Store) EntriesByAccount(_ context.Context, accountID string) ([]models.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []models.LedgerEntry
	for _, entry := range s.entries {
		if entry.AccountID == accountID {
			result = append(result, entry)
		}
	}
	return result, nil
}

func (s *Store) AllEntries(_ context.Context) ([]models.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make([]models.LedgerEntry, len(s.entries))
	copy(copied, s.entries)
	return copied, nil
}

// AppendTransaction writes the transaction and its entries all-or-nothing.
// Validation runs to completion before the first mutation, so a failed
// guard or an unknown account leaves the store untouched.
func (s *Store) AppendTransaction(_ context.Context, req interfaces.AppendRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, entry := range req.Entries {
		if _, ok := s.accounts[entry.AccountID]; !ok {
			return fmt.Errorf("%w: %s", models.ErrAccountNotFound, entry.AccountID)
		}
	}
	if _, exists := s.transactions[req.Transaction.ID]; exists {
		return fmt.Errorf("%w: duplicate transaction id %s", models.ErrStoreFailure, req.Transaction.ID)
	}

	if req.Guard != nil {
		if _, ok := s.accounts[req.Guard.AccountID]; !ok {
			return fmt.Errorf("%w: %s", models.ErrAccountNotFound, req.Guard.AccountID)
		}
		if s.balanceLocked(req.Guard.AccountID).LessThan(req.Guard.Amount) {
			return fmt.Errorf("%w: account %s", models.ErrInsufficientFunds, req.Guard.AccountID)
		}
	}

	s.transactions[req.Transaction.ID] = req.Transaction
	s.entries = append(s.entries, req.Entries...)
	return nil
}

// Transaction looks up a stored transaction record, used by tests to assert
// atomicity.
func (s *Store) Transaction(transactionID string) (models.Transaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	txn, ok := s.transactions[transactionID]
	return txn, ok
}

// balanceLocked derives the account balance. Caller must hold s.mu.
func (s *Store) balanceLocked(accountID string) money.Money {
	var owned []models.LedgerEntry
	for _, entry := range s.entries {
		if entry.AccountID == accountID {
			owned = append(owned, entry)
		}
	}
	return ledger.Balance(owned)
}

var _ interfaces.LedgerStore = (*Store)(nil)
