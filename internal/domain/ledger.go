package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OperationKind string

const (
	OperationDeposit    OperationKind = "deposit"
	OperationWithdrawal OperationKind = "withdrawal"
	OperationTransfer   OperationKind = "transfer"
)

func (k OperationKind) IsValid() bool {
	switch k {
	case OperationDeposit, OperationWithdrawal, OperationTransfer:
		return true
	}
	return false
}

// IsDebit reports whether the operation removes funds. Transfer debits the
// owner's account only; there is no counterparty credit.
func (k OperationKind) IsDebit() bool {
	return k == OperationWithdrawal || k == OperationTransfer
}

type EntryStatus string

const (
	EntryStatusPending   EntryStatus = "pending"
	EntryStatusCompleted EntryStatus = "completed"
	EntryStatusFailed    EntryStatus = "failed"
)

// LedgerEntry is an immutable record of one applied operation. TransactionID
// and Reference are each unique across every entry ever written.
type LedgerEntry struct {
	ID            uuid.UUID
	TransactionID string
	Reference     string
	OwnerID       uuid.UUID
	Kind          OperationKind
	Amount        decimal.Decimal
	Description   string
	Status        EntryStatus
	BalanceBefore decimal.Decimal
	BalanceAfter  decimal.Decimal
	CreatedAt     time.Time
}
