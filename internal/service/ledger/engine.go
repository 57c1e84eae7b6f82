package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/ledger-engine/internal/domain"
	"github.com/josh-kwaku/ledger-engine/internal/events"
	"github.com/josh-kwaku/ledger-engine/internal/logging"
)

const (
	depositReferencePrefix = "DEP"
	depositDescription     = "Deposit to account"
)

type accountStore interface {
	GetByOwner(ctx context.Context, ownerID uuid.UUID) (*domain.Account, error)
	GetByOwnerForUpdate(ctx context.Context, tx *sql.Tx, ownerID uuid.UUID) (*domain.Account, error)
	ApplyDelta(ctx context.Context, tx *sql.Tx, ownerID uuid.UUID, delta decimal.Decimal) (*domain.Account, error)
}

type ledgerStore interface {
	Append(ctx context.Context, tx *sql.Tx, entry *domain.LedgerEntry) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.LedgerEntry, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.LedgerEntry, error)
}

type uniquenessGuard interface {
	CheckUnique(ctx context.Context, tx *sql.Tx, transactionID, reference string) error
}

type txBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// Request is one operation against the owner's account.
type Request struct {
	OwnerID     uuid.UUID
	Kind        domain.OperationKind
	Amount      decimal.Decimal
	Description string
}

// Result is the committed account state, the entry recorded for the
// operation and the balance before it was applied.
type Result struct {
	Account         domain.Account
	Entry           domain.LedgerEntry
	PreviousBalance decimal.Decimal
}

// Engine applies deposits, withdrawals and transfers to an owner's account.
// The balance change and its ledger entry commit in one database transaction
// or not at all. Transfers debit the owner's account only.
type Engine struct {
	db        txBeginner
	accounts  accountStore
	ledger    ledgerStore
	guard     uniquenessGuard
	ids       IDGenerator
	publisher events.Publisher
	txTimeout time.Duration
	now       func() time.Time
}

func NewEngine(
	db txBeginner,
	accounts accountStore,
	ledger ledgerStore,
	guard uniquenessGuard,
	ids IDGenerator,
	publisher events.Publisher,
	txTimeout time.Duration,
) *Engine {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &Engine{
		db:        db,
		accounts:  accounts,
		ledger:    ledger,
		guard:     guard,
		ids:       ids,
		publisher: publisher,
		txTimeout: txTimeout,
		now:       time.Now,
	}
}

func (e *Engine) Execute(ctx context.Context, req Request) (*Result, error) {
	res, err := e.execute(ctx, req, strings.ToUpper(string(req.Kind)))
	if err != nil {
		return nil, fmt.Errorf("Execute: %w", err)
	}
	return res, nil
}

// Deposit is the dedicated deposit path: fixed description and a DEP-
// reference prefix.
func (e *Engine) Deposit(ctx context.Context, ownerID uuid.UUID, amount decimal.Decimal) (*Result, error) {
	res, err := e.execute(ctx, Request{
		OwnerID:     ownerID,
		Kind:        domain.OperationDeposit,
		Amount:      amount,
		Description: depositDescription,
	}, depositReferencePrefix)
	if err != nil {
		return nil, fmt.Errorf("Deposit: %w", err)
	}
	return res, nil
}

func (e *Engine) execute(ctx context.Context, req Request, referencePrefix string) (*Result, error) {
	log := logging.FromContext(ctx)

	if !req.Kind.IsValid() {
		return nil, domain.ErrInvalidOperation
	}
	if err := domain.ValidateAmount(req.Amount); err != nil {
		return nil, err
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		description = fmt.Sprintf("%s transaction", req.Kind)
	}

	// The transaction outlives a disconnected caller but never the timeout:
	// it always ends in commit or rollback.
	txCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.txTimeout)
	defer cancel()

	tx, err := e.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	account, err := e.accounts.GetByOwnerForUpdate(txCtx, tx, req.OwnerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	if !account.IsActive {
		return nil, domain.ErrAccountInactive
	}

	previous := account.Balance
	delta := req.Amount
	if req.Kind.IsDebit() {
		if previous.LessThan(req.Amount) {
			return nil, domain.ErrInsufficientFunds
		}
		delta = req.Amount.Neg()
	} else if previous.Add(req.Amount).GreaterThan(domain.MaxAmount) {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidAmount, domain.ErrBalanceOverflow)
	}

	updated, err := e.accounts.ApplyDelta(txCtx, tx, req.OwnerID, delta)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvariantViolation):
			return nil, fmt.Errorf("%w: %v", domain.ErrInsufficientFunds, err)
		case errors.Is(err, domain.ErrBalanceOverflow):
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidAmount, err)
		case errors.Is(err, domain.ErrNotFound):
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}

	transactionID, reference, err := e.ids.NextIDs(referencePrefix)
	if err != nil {
		return nil, err
	}

	if err := e.guard.CheckUnique(txCtx, tx, transactionID, reference); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			log.Warn("duplicate transaction identifiers", "transaction_id", transactionID, "reference", reference)
			return nil, fmt.Errorf("%w: %v", domain.ErrDuplicateTransaction, err)
		}
		return nil, err
	}

	entry := &domain.LedgerEntry{
		ID:            uuid.New(),
		TransactionID: transactionID,
		Reference:     reference,
		OwnerID:       req.OwnerID,
		Kind:          req.Kind,
		Amount:        req.Amount,
		Description:   description,
		Status:        domain.EntryStatusCompleted,
		BalanceBefore: previous,
		BalanceAfter:  updated.Balance,
		CreatedAt:     e.now().UTC(),
	}

	if err := e.ledger.Append(txCtx, tx, entry); err != nil {
		if errors.Is(err, domain.ErrDuplicateKey) {
			log.Warn("ledger rejected duplicate identifiers", "transaction_id", transactionID, "reference", reference)
			return nil, fmt.Errorf("%w: %v", domain.ErrDuplicateTransaction, err)
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	log.Info("transaction committed",
		"transaction_id", entry.TransactionID,
		"reference", entry.Reference,
		"owner_id", entry.OwnerID,
		"kind", entry.Kind,
		"amount", entry.Amount,
		"balance_before", previous,
		"balance_after", updated.Balance,
	)

	if err := e.publisher.PublishTransactionCompleted(context.WithoutCancel(ctx), events.NewTransactionCompleted(entry)); err != nil {
		log.Warn("failed to publish transaction event", "error", err, "transaction_id", entry.TransactionID)
	}

	return &Result{Account: *updated, Entry: *entry, PreviousBalance: previous}, nil
}
