package domain

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestValidateAmount(t *testing.T) {
	tests := []struct {
		amount  string
		wantErr bool
	}{
		{"0.01", false},
		{"1", false},
		{"1000.00", false},
		{"12.5", false},
		{"0", true},
		{"-5", true},
		{"0.001", true},
		{"10.005", true},
		{"0.009", true},
		{"9999999999999999.99", false},
		{"10000000000000000.00", true},
		{"1e20", true},
		{"1e1000", true},
	}

	for _, tc := range tests {
		t.Run(tc.amount, func(t *testing.T) {
			err := ValidateAmount(decimal.RequireFromString(tc.amount))
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidAmount)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMaxAmount(t *testing.T) {
	assert.Equal(t, "9999999999999999.99", MaxAmount.StringFixed(AmountScale))
}

func TestOperationKind(t *testing.T) {
	tests := []struct {
		kind    OperationKind
		valid   bool
		isDebit bool
	}{
		{OperationDeposit, true, false},
		{OperationWithdrawal, true, true},
		{OperationTransfer, true, true},
		{OperationKind("refund"), false, false},
		{OperationKind(""), false, false},
	}

	for _, tc := range tests {
		t.Run(string(tc.kind), func(t *testing.T) {
			assert.Equal(t, tc.valid, tc.kind.IsValid())
			assert.Equal(t, tc.isDebit, tc.kind.IsDebit())
		})
	}
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(fmt.Errorf("Execute: %w", ErrDuplicateTransaction)))
	assert.True(t, IsRetryable(ErrInvariantViolation))
	assert.False(t, IsRetryable(ErrInsufficientFunds))
	assert.False(t, IsRetryable(nil))
}

func TestAccountTypeIsValid(t *testing.T) {
	assert.True(t, AccountTypeSavings.IsValid())
	assert.True(t, AccountTypeChecking.IsValid())
	assert.True(t, AccountTypeInvestment.IsValid())
	assert.False(t, AccountType("brokerage").IsValid())
}
