package testutil

import (
	"database/sql"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/ledger-engine/internal/domain"
)

var accountSeq atomic.Int64

// SeedAccount inserts an active savings account for ownerID holding balance.
func SeedAccount(t *testing.T, db *sql.DB, ownerID uuid.UUID, balance string) *domain.Account {
	t.Helper()

	now := time.Now().UTC()
	a := &domain.Account{
		ID:            uuid.New(),
		OwnerID:       ownerID,
		AccountNumber: fmt.Sprintf("9%09d", accountSeq.Add(1)),
		AccountType:   domain.AccountTypeSavings,
		Balance:       decimal.RequireFromString(balance),
		IsActive:      true,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	_, err := db.Exec(
		`INSERT INTO accounts (id, owner_id, account_number, account_type, balance, is_active, version, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		a.ID, a.OwnerID, a.AccountNumber, a.AccountType, a.Balance, a.IsActive, a.Version, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("seed account for %s: %v", ownerID, err)
	}
	return a
}

func DeactivateAccount(t *testing.T, db *sql.DB, ownerID uuid.UUID) {
	t.Helper()

	if _, err := db.Exec(`UPDATE accounts SET is_active = FALSE WHERE owner_id = $1`, ownerID); err != nil {
		t.Fatalf("deactivate account %s: %v", ownerID, err)
	}
}

func GetBalance(t *testing.T, db *sql.DB, ownerID uuid.UUID) decimal.Decimal {
	t.Helper()

	var balance decimal.Decimal
	err := db.QueryRow(`SELECT balance FROM accounts WHERE owner_id = $1`, ownerID).Scan(&balance)
	if err != nil {
		t.Fatalf("get balance %s: %v", ownerID, err)
	}
	return balance
}

func CountLedgerEntries(t *testing.T, db *sql.DB, ownerID uuid.UUID) int {
	t.Helper()

	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM ledger_entries WHERE owner_id = $1`, ownerID).Scan(&count)
	if err != nil {
		t.Fatalf("count ledger entries for %s: %v", ownerID, err)
	}
	return count
}
