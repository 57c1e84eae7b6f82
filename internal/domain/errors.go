package domain

import "errors"

var (
	ErrNotFound             = errors.New("not found")
	ErrForbidden            = errors.New("not authorized to access this resource")
	ErrAccountNotFound      = errors.New("account not found")
	ErrAccountExists        = errors.New("account already exists for this owner")
	ErrAccountInactive      = errors.New("account is inactive")
	ErrInvalidOperation     = errors.New("invalid transaction type")
	ErrInvalidAmount        = errors.New("amount is out of range or finer than 0.01")
	ErrInvalidAccountType   = errors.New("invalid account type")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrDuplicateTransaction = errors.New("duplicate transaction detected")
	ErrInvariantViolation   = errors.New("balance would become negative")
	ErrBalanceOverflow      = errors.New("balance would exceed the maximum supported value")
	ErrDuplicateKey         = errors.New("duplicate key")
	ErrConflict             = errors.New("identifier already in use")
)

// IsRetryable reports whether err is an integrity failure after which nothing
// was committed, so the caller may resubmit the whole operation.
// ErrInvariantViolation only reaches callers that use the account store
// directly; the engine reports it as ErrInsufficientFunds.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrDuplicateTransaction) || errors.Is(err, ErrInvariantViolation)
}
