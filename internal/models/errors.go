package models

import (
	"errors"

	"github.com/sheikh-saqib/ledger-transaction-engine/internal/money"
)

// Typed failures returned by the engine and its stores. Callers match them
// with errors.Is; the HTTP shell maps each kind to a transport status.
var (
	ErrValidation        = errors.New("validation error")
	ErrInvalidAmount     = money.ErrInvalidAmount
	ErrInvalidTransfer   = errors.New("invalid transfer")
	ErrAccountNotFound   = errors.New("account not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrStoreFailure      = errors.New("ledger store failure")
)
