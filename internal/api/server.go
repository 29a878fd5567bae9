package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/sheikh-saqib/ledger-transaction-engine/internal/ledger"
	"github.com/sheikh-saqib/ledger-transaction-engine/internal/models"
	"github.com/sheikh-saqib/ledger-transaction-engine/internal/money"
)

// Server is the thin HTTP shell around the ledger engine: it parses
// requests, hands already-validated operations to the engine, and maps the
// engine's typed failures to transport status codes. No business rule lives
// here.
type Server struct {
	ledger *ledger.Ledger
	log    *zap.Logger
}

func NewServer(l *ledger.Ledger, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{ledger: l, log: log}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /accounts", s.handleCreateAccount)
	mux.HandleFunc("GET /accounts/{id}", s.handleGetAccount)
	mux.HandleFunc("GET /accounts/{id}/ledger", s.handleGetLedger)
	mux.HandleFunc("POST /deposits", s.handleDeposit)
	mux.HandleFunc("POST /withdrawals", s.handleWithdrawal)
	mux.HandleFunc("POST /transfers", s.handleTransfer)
	mux.HandleFunc("GET /ledger/entries", s.handleAllEntries)

	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type createAccountRequest struct {
	UserID      string `json:"user_id"`
	AccountType string `json:"account_type"`
	Currency    string `json:"currency"`
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if !s.decode(w, r, &req) {
		return
	}

	account, err := s.ledger.CreateAccount(r.Context(), req.UserID, req.AccountType, req.Currency)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"account_id": account.ID})
}

type accountResponse struct {
	AccountID   string `json:"account_id"`
	UserID      string `json:"user_id"`
	AccountType string `json:"account_type"`
	Currency    string `json:"currency"`
	Balance     string `json:"balance"`
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	detail, err := s.ledger.GetAccount(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, accountResponse{
		AccountID:   detail.Account.ID,
		UserID:      detail.Account.UserID,
		AccountType: detail.Account.AccountType,
		Currency:    detail.Account.Currency,
		Balance:     detail.Balance.String(),
	})
}

func (s *Server) handleGetLedger(w http.ResponseWriter, r *http.Request) {
	entries, err := s.ledger.GetLedger(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleAllEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := s.ledger.AllEntries(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

type operationRequest struct {
	AccountID string `json:"account_id"`
	Amount    string `json:"amount"`
}

type transactionResponse struct {
	TransactionID string `json:"transaction_id"`
	Status        string `json:"status"`
}

func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	var req operationRequest
	if !s.decode(w, r, &req) {
		return
	}

	amount, err := money.Parse(req.Amount)
	if err != nil {
		s.writeError(w, err)
		return
	}

	txn, err := s.ledger.Deposit(r.Context(), req.AccountID, amount)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, transactionResponse{TransactionID: txn.ID, Status: string(txn.Status)})
}

func (s *Server) handleWithdrawal(w http.ResponseWriter, r *http.Request) {
	var req operationRequest
	if !s.decode(w, r, &req) {
		return
	}

	amount, err := money.Parse(req.Amount)
	if err != nil {
		s.writeError(w, err)
		return
	}

	txn, err := s.ledger.Withdraw(r.Context(), req.AccountID, amount)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, transactionResponse{TransactionID: txn.ID, Status: string(txn.Status)})
}

type transferRequest struct {
	SourceAccountID      string `json:"source_account_id"`
	DestinationAccountID string `json:"destination_account_id"`
	Amount               string `json:"amount"`
}

func (s *Server) handleTransfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if !s.decode(w, r, &req) {
		return
	}

	amount, err := money.Parse(req.Amount)
	if err != nil {
		s.writeError(w, err)
		return
	}

	txn, err := s.ledger.Transfer(r.Context(), req.SourceAccountID, req.DestinationAccountID, amount)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, transactionResponse{TransactionID: txn.ID, Status: string(txn.Status)})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{
			Kind:   "VALIDATION_ERROR",
			Detail: "invalid request body",
		})
		return false
	}
	return true
}

type errorBody struct {
	Kind   string `json:"error"`
	Detail string `json:"detail"`
}

// writeError maps the engine's typed failures onto transport codes:
// caller errors → 400, unknown accounts → 404, funds rejections → 422,
// store failures → 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	kind := "STORE_FAILURE"

	switch {
	case errors.Is(err, models.ErrValidation):
		status, kind = http.StatusBadRequest, "VALIDATION_ERROR"
	case errors.Is(err, models.ErrInvalidAmount):
		status, kind = http.StatusBadRequest, "INVALID_AMOUNT"
	case errors.Is(err, models.ErrInvalidTransfer):
		status, kind = http.StatusBadRequest, "INVALID_TRANSFER"
	case errors.Is(err, models.ErrAccountNotFound):
		status, kind = http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, models.ErrInsufficientFunds):
		status, kind = http.StatusUnprocessableEntity, "INSUFFICIENT_FUNDS"
	default:
		s.log.Error("ledger operation failed", zap.Error(err))
	}

	writeJSON(w, status, errorBody{Kind: kind, Detail: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
