package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pq.Error{Code: "23505", Constraint: "ledger_entries_reference_key"})

	ok, constraint := isUniqueViolation(err)
	assert.True(t, ok)
	assert.Equal(t, "ledger_entries_reference_key", constraint)

	ok, _ = isCheckViolation(err)
	assert.False(t, ok)
}

func TestIsCheckViolation(t *testing.T) {
	ok, constraint := isCheckViolation(&pq.Error{Code: "23514", Constraint: "accounts_balance_non_negative"})
	assert.True(t, ok)
	assert.Equal(t, "accounts_balance_non_negative", constraint)
}

func TestPQCode_NonPQError(t *testing.T) {
	code, constraint := pqCode(errors.New("boom"))
	assert.Empty(t, code)
	assert.Empty(t, constraint)
}

func TestIsNumericOverflow(t *testing.T) {
	assert.True(t, isNumericOverflow(fmt.Errorf("update: %w", &pq.Error{Code: "22003"})))
	assert.False(t, isNumericOverflow(&pq.Error{Code: "23514"}))
	assert.False(t, isNumericOverflow(errors.New("boom")))
}
