package payment

import "github.com/shopspring/decimal"

// PenaltyFunc is the pluggable policy assigning a late fee when a pending
// payment turns overdue. It is applied exactly once, at the
// PENDING -> OVERDUE transition.
type PenaltyFunc func(emiAmount decimal.Decimal, daysLate int) decimal.Decimal

// FlatRatePenalty charges a fixed percentage of the EMI amount, regardless of
// how late the payment is. Result is rounded to 2 decimal places.
func FlatRatePenalty(ratePct decimal.Decimal) PenaltyFunc {
	rate := ratePct.Div(decimal.NewFromInt(100))
	return func(emiAmount decimal.Decimal, daysLate int) decimal.Decimal {
		return emiAmount.Mul(rate).Round(2)
	}
}

// DefaultPenalty is the stock policy: 2% of the EMI amount.
var DefaultPenalty = FlatRatePenalty(decimal.NewFromInt(2))
