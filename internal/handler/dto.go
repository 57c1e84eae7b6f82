package handler

import (
	"time"

	"github.com/google/uuid"

	"github.com/josh-kwaku/ledger-engine/internal/domain"
)

// Money fields are fixed two-decimal strings, e.g. "1000.00".
type accountDTO struct {
	ID            uuid.UUID `json:"id"`
	OwnerID       uuid.UUID `json:"owner_id"`
	AccountNumber string    `json:"account_number"`
	AccountType   string    `json:"account_type"`
	Balance       string    `json:"balance"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}

func toAccountDTO(a *domain.Account) accountDTO {
	return accountDTO{
		ID:            a.ID,
		OwnerID:       a.OwnerID,
		AccountNumber: a.AccountNumber,
		AccountType:   string(a.AccountType),
		Balance:       a.Balance.StringFixed(domain.AmountScale),
		IsActive:      a.IsActive,
		CreatedAt:     a.CreatedAt,
	}
}

type ledgerEntryDTO struct {
	ID            uuid.UUID `json:"id"`
	TransactionID string    `json:"transaction_id"`
	Reference     string    `json:"reference"`
	Type          string    `json:"type"`
	Amount        string    `json:"amount"`
	Description   string    `json:"description"`
	Status        string    `json:"status"`
	BalanceBefore string    `json:"balance_before"`
	BalanceAfter  string    `json:"balance_after"`
	CreatedAt     time.Time `json:"created_at"`
}

func toLedgerEntryDTO(e *domain.LedgerEntry) ledgerEntryDTO {
	return ledgerEntryDTO{
		ID:            e.ID,
		TransactionID: e.TransactionID,
		Reference:     e.Reference,
		Type:          string(e.Kind),
		Amount:        e.Amount.StringFixed(domain.AmountScale),
		Description:   e.Description,
		Status:        string(e.Status),
		BalanceBefore: e.BalanceBefore.StringFixed(domain.AmountScale),
		BalanceAfter:  e.BalanceAfter.StringFixed(domain.AmountScale),
		CreatedAt:     e.CreatedAt,
	}
}

type operationResultDTO struct {
	Transaction     ledgerEntryDTO `json:"transaction"`
	Account         accountDTO     `json:"account"`
	PreviousBalance string         `json:"previous_balance"`
}
