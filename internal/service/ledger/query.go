package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/josh-kwaku/ledger-engine/internal/domain"
)

func (e *Engine) GetAccount(ctx context.Context, ownerID uuid.UUID) (*domain.Account, error) {
	a, err := e.accounts.GetByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("GetAccount: %w", domain.ErrAccountNotFound)
		}
		return nil, fmt.Errorf("GetAccount: %w", err)
	}
	return a, nil
}

// ListLedgerEntries returns the owner's entries newest first.
func (e *Engine) ListLedgerEntries(ctx context.Context, ownerID uuid.UUID) ([]domain.LedgerEntry, error) {
	entries, err := e.ledger.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("ListLedgerEntries: %w", err)
	}
	return entries, nil
}

func (e *Engine) GetLedgerEntry(ctx context.Context, id, requestingOwnerID uuid.UUID) (*domain.LedgerEntry, error) {
	entry, err := e.ledger.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("GetLedgerEntry: %w", err)
	}
	if entry.OwnerID != requestingOwnerID {
		return nil, fmt.Errorf("GetLedgerEntry: %w", domain.ErrForbidden)
	}
	return entry, nil
}
