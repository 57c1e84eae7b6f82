package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/ledger-engine/internal/domain"
	"github.com/josh-kwaku/ledger-engine/internal/logging"
	"github.com/josh-kwaku/ledger-engine/internal/service/ledger"
)

type transactionLedger interface {
	Execute(ctx context.Context, req ledger.Request) (*ledger.Result, error)
	ListLedgerEntries(ctx context.Context, ownerID uuid.UUID) ([]domain.LedgerEntry, error)
	GetLedgerEntry(ctx context.Context, id, requestingOwnerID uuid.UUID) (*domain.LedgerEntry, error)
}

type TransactionHandler struct {
	ledger transactionLedger
}

func NewTransactionHandler(ledger transactionLedger) *TransactionHandler {
	return &TransactionHandler{ledger: ledger}
}

type initiateTransactionRequest struct {
	Type        string           `json:"type"`
	Amount      *decimal.Decimal `json:"amount"`
	Description string           `json:"description"`
}

// Validate only checks presence; kind and amount rules live in the engine so
// every entry point reports them the same way.
func (r initiateTransactionRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Type == "" {
		errs = append(errs, FieldError{Field: "type", Message: "required"})
	}
	if r.Amount == nil {
		errs = append(errs, FieldError{Field: "amount", Message: "required"})
	}
	return errs
}

func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	ownerID, appErr := ownerFromContext(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req initiateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	res, err := h.ledger.Execute(r.Context(), ledger.Request{
		OwnerID:     ownerID,
		Kind:        domain.OperationKind(req.Type),
		Amount:      *req.Amount,
		Description: req.Description,
	})
	if err != nil {
		log.Warn("transaction failed", "error", err, "type", req.Type)
		RespondDomainError(w, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/v1/transactions/%s", res.Entry.ID))
	setTransactionHeaders(w, res.Entry)
	RespondSuccess(w, http.StatusCreated, toOperationResultDTO(res))
}

func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID, appErr := ownerFromContext(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	entries, err := h.ledger.ListLedgerEntries(r.Context(), ownerID)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list transactions", "error", err)
		RespondDomainError(w, err)
		return
	}

	dtos := make([]ledgerEntryDTO, len(entries))
	for i := range entries {
		dtos[i] = toLedgerEntryDTO(&entries[i])
	}

	RespondSuccess(w, http.StatusOK, dtos)
}

func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	ownerID, appErr := ownerFromContext(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	entryID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		RespondAppError(w, ErrResourceNotFound, nil)
		return
	}

	entry, err := h.ledger.GetLedgerEntry(r.Context(), entryID, ownerID)
	if err != nil {
		logging.FromContext(r.Context()).Warn("transaction lookup failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toLedgerEntryDTO(entry))
}
