package domain

import "github.com/shopspring/decimal"

// AmountScale is the number of fractional digits an amount may carry.
const AmountScale = 2

// amountPrecision matches the NUMERIC(18,2) money columns.
const amountPrecision = 18

var (
	MinAmount = decimal.New(1, -AmountScale)
	// MaxAmount is the largest value a balance or ledger amount can hold.
	MaxAmount = decimal.New(1, amountPrecision-AmountScale).Sub(MinAmount)
)

// ValidateAmount accepts positive amounts up to MaxAmount with at most two
// fractional digits.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThan(MinAmount) || amount.GreaterThan(MaxAmount) {
		return ErrInvalidAmount
	}
	if !amount.Equal(amount.Truncate(AmountScale)) {
		return ErrInvalidAmount
	}
	return nil
}
