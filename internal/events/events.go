package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/ledger-engine/internal/domain"
)

// TransactionCompleted is emitted once per committed ledger entry.
type TransactionCompleted struct {
	EntryID       uuid.UUID            `json:"entry_id"`
	TransactionID string               `json:"transaction_id"`
	Reference     string               `json:"reference"`
	OwnerID       uuid.UUID            `json:"owner_id"`
	Kind          domain.OperationKind `json:"kind"`
	Amount        decimal.Decimal      `json:"amount"`
	BalanceAfter  decimal.Decimal      `json:"balance_after"`
	OccurredAt    time.Time            `json:"occurred_at"`
}

func NewTransactionCompleted(e *domain.LedgerEntry) TransactionCompleted {
	return TransactionCompleted{
		EntryID:       e.ID,
		TransactionID: e.TransactionID,
		Reference:     e.Reference,
		OwnerID:       e.OwnerID,
		Kind:          e.Kind,
		Amount:        e.Amount,
		BalanceAfter:  e.BalanceAfter,
		OccurredAt:    e.CreatedAt,
	}
}

type Publisher interface {
	PublishTransactionCompleted(ctx context.Context, event TransactionCompleted) error
}

type NoopPublisher struct{}

func (NoopPublisher) PublishTransactionCompleted(context.Context, TransactionCompleted) error {
	return nil
}
