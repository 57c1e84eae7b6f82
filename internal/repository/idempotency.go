package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// IdempotencyCacheEntry is a stored HTTP response replayed for a repeated
// Idempotency-Key from the same owner. TransactionID links a cached ledger
// write to the entry it committed and is empty for other writes.
type IdempotencyCacheEntry struct {
	Key           string
	OwnerID       uuid.UUID
	RequestHash   string
	StatusCode    int
	ResponseBody  []byte
	TransactionID string
	CreatedAt     time.Time
	ExpiresAt     time.Time
}

type IdempotencyRepository struct {
	db *sql.DB
}

func NewIdempotencyRepository(db *sql.DB) *IdempotencyRepository {
	return &IdempotencyRepository{db: db}
}

const idempotencyColumns = `idempotency_key, owner_id, request_hash, status_code, response_body, transaction_id, created_at, expires_at`

func (r *IdempotencyRepository) Get(ctx context.Context, key string, ownerID uuid.UUID) (*IdempotencyCacheEntry, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+idempotencyColumns+`
		FROM idempotency_cache
		WHERE idempotency_key = $1 AND owner_id = $2 AND expires_at > now()`,
		key, ownerID,
	)
	e, err := scanIdempotencyEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return e, nil
}

// GetByTransactionID returns the live cache entry that recorded the given
// ledger transaction, or nil when no keyed request produced it.
func (r *IdempotencyRepository) GetByTransactionID(ctx context.Context, transactionID string) (*IdempotencyCacheEntry, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+idempotencyColumns+`
		FROM idempotency_cache
		WHERE transaction_id = $1 AND expires_at > now()`,
		transactionID,
	)
	e, err := scanIdempotencyEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetByTransactionID: %w", err)
	}
	return e, nil
}

func (r *IdempotencyRepository) Set(ctx context.Context, entry *IdempotencyCacheEntry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO idempotency_cache (`+idempotencyColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (idempotency_key, owner_id) DO NOTHING`,
		entry.Key, entry.OwnerID, entry.RequestHash, entry.StatusCode, entry.ResponseBody,
		sql.NullString{String: entry.TransactionID, Valid: entry.TransactionID != ""},
		entry.CreatedAt, entry.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("Set: %w", err)
	}
	return nil
}

func (r *IdempotencyRepository) CleanExpired(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM idempotency_cache WHERE expires_at < now()`,
	)
	if err != nil {
		return 0, fmt.Errorf("CleanExpired: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("CleanExpired: rows affected: %w", err)
	}
	return n, nil
}

func scanIdempotencyEntry(s scanner) (*IdempotencyCacheEntry, error) {
	var (
		e             IdempotencyCacheEntry
		transactionID sql.NullString
	)
	err := s.Scan(&e.Key, &e.OwnerID, &e.RequestHash, &e.StatusCode, &e.ResponseBody,
		&transactionID, &e.CreatedAt, &e.ExpiresAt)
	if err != nil {
		return nil, err
	}
	e.TransactionID = transactionID.String
	return &e, nil
}
