package spending

import "github.com/shopspring/decimal"

// Amounts are stored as numeric(12,2).
const amountScale = 2

var maxAmount = decimal.New(1, 10)

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return invalid("amount must be greater than 0")
	}
	if !amount.Equal(amount.Round(amountScale)) {
		return invalid("amount must have at most 2 decimal places")
	}
	if amount.GreaterThanOrEqual(maxAmount) {
		return invalid("amount must be less than 10000000000")
	}
	return nil
}
