package models

import "time"

// Account identifies one ledger account. It carries no stored balance:
// balances are always derived from the account's entry history.
type Account struct {
	ID          string    `json:"account_id"`
	UserID      string    `json:"user_id"`
	AccountType string    `json:"account_type"`
	Currency    string    `json:"currency"`
	CreatedAt   time.Time `json:"created_at"`
}
