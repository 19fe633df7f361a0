package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/api-sage/core-ledger/internal/adapter/http/models"
	"github.com/api-sage/core-ledger/internal/commons"
	"github.com/api-sage/core-ledger/internal/domain"
)

type TransactionService interface {
	Deposit(ctx context.Context, accountID string, amount decimal.Decimal, description string) (domain.Transaction, error)
	Withdraw(ctx context.Context, accountID string, amount decimal.Decimal, description string) (domain.Transaction, error)
	Transfer(ctx context.Context, fromAccountID, toAccountNumber string, amount decimal.Decimal, description string) (domain.Transaction, error)
	GetAccountTransactions(accountID string, limit int) []domain.Transaction
	GetAllTransactions(limit int) []domain.Transaction
}

type TransactionController struct {
	service TransactionService
}

func NewTransactionController(service TransactionService) *TransactionController {
	return &TransactionController{service: service}
}

func (c *TransactionController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	wrap := func(h http.HandlerFunc) http.Handler {
		if authMiddleware != nil {
			return authMiddleware(h)
		}
		return h
	}

	mux.Handle("/transactions", wrap(c.listForAccount))
	mux.Handle("/transactions/all", wrap(c.listAll))
	mux.Handle("/transactions/deposit", wrap(c.deposit))
	mux.Handle("/transactions/withdraw", wrap(c.withdraw))
	mux.Handle("/transactions/transfer", wrap(c.transfer))
}

func (c *TransactionController) deposit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, commons.ErrorResponse[models.TransactionResponse]("method not allowed"))
		return
	}

	var req models.DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.TransactionResponse]("invalid request body", err.Error()))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.TransactionResponse]("validation failed", err.Error()))
		return
	}

	transaction, err := c.service.Deposit(r.Context(), req.AccountID, models.MustAmount(req.Amount), req.Description)
	if err != nil {
		writeJSON(w, errorStatus(err), commons.ErrorResponse[models.TransactionResponse]("failed to deposit funds", err.Error()))
		return
	}

	writeJSON(w, http.StatusCreated, commons.SuccessResponse("funds deposited successfully", models.NewTransactionResponse(transaction)))
}

func (c *TransactionController) withdraw(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, commons.ErrorResponse[models.TransactionResponse]("method not allowed"))
		return
	}

	var req models.WithdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.TransactionResponse]("invalid request body", err.Error()))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.TransactionResponse]("validation failed", err.Error()))
		return
	}

	transaction, err := c.service.Withdraw(r.Context(), req.AccountID, models.MustAmount(req.Amount), req.Description)
	if err != nil {
		writeJSON(w, errorStatus(err), commons.ErrorResponse[models.TransactionResponse]("failed to withdraw funds", err.Error()))
		return
	}

	writeJSON(w, http.StatusCreated, commons.SuccessResponse("funds withdrawn successfully", models.NewTransactionResponse(transaction)))
}

func (c *TransactionController) transfer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, commons.ErrorResponse[models.TransactionResponse]("method not allowed"))
		return
	}

	var req models.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.TransactionResponse]("invalid request body", err.Error()))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.TransactionResponse]("validation failed", err.Error()))
		return
	}

	transaction, err := c.service.Transfer(r.Context(), req.FromAccountID, req.ToAccountNumber, models.MustAmount(req.Amount), req.Description)
	if err != nil {
		writeJSON(w, errorStatus(err), commons.ErrorResponse[models.TransactionResponse]("failed to transfer funds", err.Error()))
		return
	}

	writeJSON(w, http.StatusCreated, commons.SuccessResponse("funds transferred successfully", models.NewTransactionResponse(transaction)))
}

func (c *TransactionController) listForAccount(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, commons.ErrorResponse[[]models.TransactionResponse]("method not allowed"))
		return
	}

	accountID := r.URL.Query().Get("accountId")
	if accountID == "" {
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[[]models.TransactionResponse]("validation failed", "accountId is required"))
		return
	}

	transactions := c.service.GetAccountTransactions(accountID, queryLimit(r, 50))
	writeJSON(w, http.StatusOK, commons.SuccessResponse("transactions fetched successfully", models.NewTransactionResponses(transactions)))
}

func (c *TransactionController) listAll(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, commons.ErrorResponse[[]models.TransactionResponse]("method not allowed"))
		return
	}

	transactions := c.service.GetAllTransactions(queryLimit(r, 100))
	writeJSON(w, http.StatusOK, commons.SuccessResponse("transactions fetched successfully", models.NewTransactionResponses(transactions)))
}

func queryLimit(r *http.Request, fallback int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return fallback
	}
	return limit
}
