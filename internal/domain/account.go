package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AccountType string

const (
	AccountTypeSavings    AccountType = "savings"
	AccountTypeChecking   AccountType = "checking"
	AccountTypeInvestment AccountType = "investment"
)

func (t AccountType) IsValid() bool {
	switch t {
	case AccountTypeSavings, AccountTypeChecking, AccountTypeInvestment:
		return true
	}
	return false
}

// Account holds the authoritative balance for exactly one owner.
// Balance is never negative in any committed state.
type Account struct {
	ID            uuid.UUID
	OwnerID       uuid.UUID
	AccountNumber string
	AccountType   AccountType
	Balance       decimal.Decimal
	IsActive      bool
	Version       int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
