package handler

import "net/http"

type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string { return e.Message }

var (
	ErrMissingToken     = &AppError{http.StatusUnauthorized, "MISSING_TOKEN", "Authorization header required"}
	ErrInvalidToken     = &AppError{http.StatusUnauthorized, "INVALID_TOKEN", "Token is invalid"}
	ErrTokenExpired     = &AppError{http.StatusUnauthorized, "TOKEN_EXPIRED", "Token has expired"}
	ErrInvalidOwner     = &AppError{http.StatusUnauthorized, "INVALID_OWNER", "Token does not identify a ledger owner"}
	ErrInvalidRequest   = &AppError{http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body"}
	ErrValidationFailed = &AppError{http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed"}
	ErrResourceNotFound = &AppError{http.StatusNotFound, "RESOURCE_NOT_FOUND", "Resource not found"}
	ErrForbidden        = &AppError{http.StatusForbidden, "FORBIDDEN", "Access denied"}
	ErrInternalError    = &AppError{http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred"}

	ErrInvalidOperation     = &AppError{http.StatusBadRequest, "INVALID_OPERATION", "Operation must be deposit, withdrawal, or transfer"}
	ErrInvalidAmount        = &AppError{http.StatusBadRequest, "INVALID_AMOUNT", "Amount must be between 0.01 and 9999999999999999.99 with at most two decimal places"}
	ErrInvalidAccountType   = &AppError{http.StatusBadRequest, "INVALID_ACCOUNT_TYPE", "Account type must be savings, checking, or investment"}
	ErrAccountNotFound      = &AppError{http.StatusNotFound, "ACCOUNT_NOT_FOUND", "Account not found"}
	ErrAccountExists        = &AppError{http.StatusConflict, "ACCOUNT_ALREADY_EXISTS", "Account already exists for this owner"}
	ErrInsufficientFunds    = &AppError{http.StatusUnprocessableEntity, "INSUFFICIENT_FUNDS", "Insufficient funds"}
	ErrAccountInactive      = &AppError{http.StatusUnprocessableEntity, "ACCOUNT_INACTIVE", "Account is inactive"}
	ErrDuplicateTransaction = &AppError{http.StatusConflict, "DUPLICATE_TRANSACTION", "Transaction identifiers collided, please retry"}
	ErrInvariantViolation   = &AppError{http.StatusConflict, "CONCURRENT_MODIFICATION", "Account was modified concurrently, please retry"}

	ErrIdempotencyConflict = &AppError{http.StatusConflict, "IDEMPOTENCY_CONFLICT", "Idempotency key already used with a different request"}
)
