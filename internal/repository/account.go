package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/ledger-engine/internal/domain"
)

const accountColumns = `id, owner_id, account_number, account_type, balance,
	is_active, version, created_at, updated_at`

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) GetByOwner(ctx context.Context, ownerID uuid.UUID) (*domain.Account, error) {
	a, err := getAccountByOwner(ctx, r.db, ownerID, false)
	if err != nil {
		return nil, fmt.Errorf("GetByOwner: %w", err)
	}
	return a, nil
}

// GetByOwnerForUpdate reads the owner's account inside tx and holds its row
// lock until tx ends, serializing concurrent operations on the same account.
func (r *AccountRepository) GetByOwnerForUpdate(ctx context.Context, tx *sql.Tx, ownerID uuid.UUID) (*domain.Account, error) {
	a, err := getAccountByOwner(ctx, tx, ownerID, true)
	if err != nil {
		return nil, fmt.Errorf("GetByOwnerForUpdate: %w", err)
	}
	return a, nil
}

func getAccountByOwner(ctx context.Context, q querier, ownerID uuid.UUID, lock bool) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE owner_id = $1`
	if lock {
		query += ` FOR UPDATE`
	}

	a, err := scanAccount(q.QueryRowContext(ctx, query, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (
			id, owner_id, account_number, account_type, balance,
			is_active, version, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		account.ID, account.OwnerID, account.AccountNumber, account.AccountType, account.Balance,
		account.IsActive, account.Version, account.CreatedAt, account.UpdatedAt,
	)
	if err != nil {
		if ok, constraint := isUniqueViolation(err); ok {
			if constraint == "accounts_owner_id_key" {
				return fmt.Errorf("Create: %w", domain.ErrAccountExists)
			}
			return fmt.Errorf("Create: %s: %w", constraint, domain.ErrDuplicateKey)
		}
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

// ApplyDelta adds delta to the owner's balance inside tx. The non-negative
// check constraint is the store's own guard: a delta that would take the
// balance below zero fails with ErrInvariantViolation, one that overflows the
// money column fails with ErrBalanceOverflow, and neither changes anything.
func (r *AccountRepository) ApplyDelta(ctx context.Context, tx *sql.Tx, ownerID uuid.UUID, delta decimal.Decimal) (*domain.Account, error) {
	row := tx.QueryRowContext(ctx,
		`UPDATE accounts
		SET balance = balance + $1, version = version + 1, updated_at = now()
		WHERE owner_id = $2
		RETURNING `+accountColumns,
		delta, ownerID,
	)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("ApplyDelta: %w", domain.ErrNotFound)
		}
		if ok, constraint := isCheckViolation(err); ok && constraint == "accounts_balance_non_negative" {
			return nil, fmt.Errorf("ApplyDelta: %w", domain.ErrInvariantViolation)
		}
		if isNumericOverflow(err) {
			return nil, fmt.Errorf("ApplyDelta: %w", domain.ErrBalanceOverflow)
		}
		return nil, fmt.Errorf("ApplyDelta: %w", err)
	}
	return a, nil
}

func scanAccount(s scanner) (*domain.Account, error) {
	var a domain.Account
	err := s.Scan(
		&a.ID, &a.OwnerID, &a.AccountNumber, &a.AccountType, &a.Balance,
		&a.IsActive, &a.Version, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
