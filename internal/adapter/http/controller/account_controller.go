package controller

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/api-sage/core-ledger/internal/adapter/http/models"
	"github.com/api-sage/core-ledger/internal/commons"
	"github.com/api-sage/core-ledger/internal/domain"
)

type AccountService interface {
	CreateAccount(ctx context.Context, userID string, accountType domain.AccountType, initialBalance decimal.Decimal) (domain.Account, error)
	GetAccountsForUser(userID string) []domain.Account
	GetAccountByNumber(accountNumber string) (domain.Account, error)
	GetAccountByID(accountID string) (domain.Account, error)
}

type AccountController struct {
	service AccountService
}

func NewAccountController(service AccountService) *AccountController {
	return &AccountController{service: service}
}

func (c *AccountController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	wrap := func(h http.HandlerFunc) http.Handler {
		if authMiddleware != nil {
			return authMiddleware(h)
		}
		return h
	}

	mux.Handle("/accounts", wrap(c.accounts))
	mux.Handle("/accounts/lookup", wrap(c.lookupByNumber))
	mux.Handle("/accounts/get", wrap(c.getByID))
}

func (c *AccountController) accounts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		c.createAccount(w, r)
	case http.MethodGet:
		c.listForUser(w, r)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, commons.ErrorResponse[models.AccountResponse]("method not allowed"))
	}
}

func (c *AccountController) createAccount(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.AccountResponse]("invalid request body", err.Error()))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.AccountResponse]("validation failed", err.Error()))
		return
	}

	account, err := c.service.CreateAccount(r.Context(), req.UserID, domain.AccountType(req.AccountType), req.Balance())
	if err != nil {
		writeJSON(w, errorStatus(err), commons.ErrorResponse[models.AccountResponse]("failed to create account", err.Error()))
		return
	}

	writeJSON(w, http.StatusCreated, commons.SuccessResponse("account created successfully", models.NewAccountResponse(account)))
}

func (c *AccountController) listForUser(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[[]models.AccountResponse]("validation failed", "userId is required"))
		return
	}

	accounts := c.service.GetAccountsForUser(userID)
	responses := make([]models.AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		responses = append(responses, models.NewAccountResponse(account))
	}

	writeJSON(w, http.StatusOK, commons.SuccessResponse("accounts fetched successfully", responses))
}

func (c *AccountController) lookupByNumber(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, commons.ErrorResponse[models.AccountResponse]("method not allowed"))
		return
	}

	accountNumber := r.URL.Query().Get("accountNumber")
	if accountNumber == "" {
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.AccountResponse]("validation failed", "accountNumber is required"))
		return
	}

	account, err := c.service.GetAccountByNumber(accountNumber)
	if err != nil {
		writeJSON(w, errorStatus(err), commons.ErrorResponse[models.AccountResponse]("account not found"))
		return
	}

	writeJSON(w, http.StatusOK, commons.SuccessResponse("account fetched successfully", models.NewAccountResponse(account)))
}

func (c *AccountController) getByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, commons.ErrorResponse[models.AccountResponse]("method not allowed"))
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.AccountResponse]("validation failed", "id is required"))
		return
	}

	account, err := c.service.GetAccountByID(id)
	if err != nil {
		writeJSON(w, errorStatus(err), commons.ErrorResponse[models.AccountResponse]("account not found"))
		return
	}

	writeJSON(w, http.StatusOK, commons.SuccessResponse("account fetched successfully", models.NewAccountResponse(account)))
}
