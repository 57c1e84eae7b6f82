package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/ledger-engine/internal/domain"
	"github.com/josh-kwaku/ledger-engine/internal/logging"
	"github.com/josh-kwaku/ledger-engine/internal/service/ledger"
)

type accountOpener interface {
	OpenAccount(ctx context.Context, ownerID uuid.UUID, accountType domain.AccountType) (*domain.Account, error)
}

type accountLedger interface {
	GetAccount(ctx context.Context, ownerID uuid.UUID) (*domain.Account, error)
	Deposit(ctx context.Context, ownerID uuid.UUID, amount decimal.Decimal) (*ledger.Result, error)
}

type AccountHandler struct {
	accounts accountOpener
	ledger   accountLedger
}

func NewAccountHandler(accounts accountOpener, ledger accountLedger) *AccountHandler {
	return &AccountHandler{accounts: accounts, ledger: ledger}
}

type openAccountRequest struct {
	AccountType string `json:"account_type"`
}

func (r openAccountRequest) Validate() []FieldError {
	var errs []FieldError
	if r.AccountType != "" && !domain.AccountType(r.AccountType).IsValid() {
		errs = append(errs, FieldError{Field: "account_type", Message: "must be savings, checking, or investment"})
	}
	return errs
}

type depositRequest struct {
	Amount *decimal.Decimal `json:"amount"`
}

func (r depositRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Amount == nil {
		errs = append(errs, FieldError{Field: "amount", Message: "required"})
	}
	return errs
}

// Open creates the caller's account. An empty body opens a savings account.
func (h *AccountHandler) Open(w http.ResponseWriter, r *http.Request) {
	ownerID, appErr := ownerFromContext(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req openAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	account, err := h.accounts.OpenAccount(r.Context(), ownerID, domain.AccountType(req.AccountType))
	if err != nil {
		logging.FromContext(r.Context()).Warn("failed to open account", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toAccountDTO(account))
}

func (h *AccountHandler) Balance(w http.ResponseWriter, r *http.Request) {
	ownerID, appErr := ownerFromContext(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	account, err := h.ledger.GetAccount(r.Context(), ownerID)
	if err != nil {
		logging.FromContext(r.Context()).Warn("balance lookup failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toAccountDTO(account))
}

func (h *AccountHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	ownerID, appErr := ownerFromContext(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req depositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	res, err := h.ledger.Deposit(r.Context(), ownerID, *req.Amount)
	if err != nil {
		log.Warn("deposit failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	setTransactionHeaders(w, res.Entry)
	RespondSuccess(w, http.StatusOK, toOperationResultDTO(res))
}

func toOperationResultDTO(res *ledger.Result) operationResultDTO {
	return operationResultDTO{
		Transaction:     toLedgerEntryDTO(&res.Entry),
		Account:         toAccountDTO(&res.Account),
		PreviousBalance: res.PreviousBalance.StringFixed(domain.AmountScale),
	}
}
