package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/ledger-engine/internal/domain"
	"github.com/josh-kwaku/ledger-engine/internal/logging"
)

const (
	accountNumberLength   = 10
	accountNumberAttempts = 3
)

type accountRepo interface {
	GetByOwner(ctx context.Context, ownerID uuid.UUID) (*domain.Account, error)
	Create(ctx context.Context, account *domain.Account) error
}

type AccountService struct {
	accounts accountRepo
	random   io.Reader
	now      func() time.Time
}

func NewAccountService(accounts accountRepo) *AccountService {
	return &AccountService{accounts: accounts, random: rand.Reader, now: time.Now}
}

// OpenAccount creates the owner's single account with a zero balance.
// An empty accountType means savings.
func (s *AccountService) OpenAccount(ctx context.Context, ownerID uuid.UUID, accountType domain.AccountType) (*domain.Account, error) {
	log := logging.FromContext(ctx)

	if accountType == "" {
		accountType = domain.AccountTypeSavings
	}
	if !accountType.IsValid() {
		return nil, fmt.Errorf("OpenAccount: %w", domain.ErrInvalidAccountType)
	}

	_, err := s.accounts.GetByOwner(ctx, ownerID)
	if err == nil {
		return nil, fmt.Errorf("OpenAccount: %w", domain.ErrAccountExists)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("OpenAccount: check existing: %w", err)
	}

	for attempt := 1; ; attempt++ {
		number, err := generateAccountNumber(s.random)
		if err != nil {
			return nil, fmt.Errorf("OpenAccount: %w", err)
		}

		now := s.now().UTC()
		account := &domain.Account{
			ID:            uuid.New(),
			OwnerID:       ownerID,
			AccountNumber: number,
			AccountType:   accountType,
			Balance:       decimal.Zero,
			IsActive:      true,
			Version:       1,
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		err = s.accounts.Create(ctx, account)
		if err == nil {
			log.Info("account opened",
				"account_id", account.ID,
				"owner_id", ownerID,
				"account_type", accountType,
			)
			return account, nil
		}

		// ErrDuplicateKey here is an account number collision.
		if errors.Is(err, domain.ErrDuplicateKey) && attempt < accountNumberAttempts {
			log.Warn("account number collision, regenerating", "attempt", attempt)
			continue
		}
		return nil, fmt.Errorf("OpenAccount: %w", err)
	}
}

// generateAccountNumber returns ten decimal digits with a non-zero lead.
func generateAccountNumber(r io.Reader) (string, error) {
	digits := make([]byte, accountNumberLength)
	for i := range digits {
		limit, offset := int64(10), byte('0')
		if i == 0 {
			limit, offset = 9, '1'
		}
		n, err := rand.Int(r, big.NewInt(limit))
		if err != nil {
			return "", fmt.Errorf("generateAccountNumber: %w", err)
		}
		digits[i] = offset + byte(n.Int64())
	}
	return string(digits), nil
}
