package ledger

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/josh-kwaku/ledger-engine/internal/domain"
)

type entryLookup interface {
	Exists(ctx context.Context, tx *sql.Tx, transactionID, reference string) (bool, error)
}

// Guard is a fast-path duplicate check run before the ledger append. It can
// race with a concurrent writer; the ledger's unique constraints decide.
type Guard struct {
	entries entryLookup
}

func NewGuard(entries entryLookup) *Guard {
	return &Guard{entries: entries}
}

func (g *Guard) CheckUnique(ctx context.Context, tx *sql.Tx, transactionID, reference string) error {
	exists, err := g.entries.Exists(ctx, tx, transactionID, reference)
	if err != nil {
		return fmt.Errorf("CheckUnique: %w", err)
	}
	if exists {
		return fmt.Errorf("CheckUnique: %w", domain.ErrConflict)
	}
	return nil
}
