package payment

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"fintrack-backend/internal/domain/loan"
	"fintrack-backend/pkg/id"
)

// CalculateEMI computes the fixed monthly installment for a reducing-balance
// loan:
//
//	EMI = P * r * (1+r)^n / ((1+r)^n - 1),  r = annualRatePct / 12 / 100
//
// The (1+r)^n factor is computed in float64, all monetary arithmetic stays in
// decimal, and the result is rounded to 2 decimal places. A zero rate
// degenerates to an even split P / n.
func CalculateEMI(principal, annualRatePct decimal.Decimal, tenureMonths int) decimal.Decimal {
	monthlyRate := annualRatePct.InexactFloat64() / 12.0 / 100.0
	if monthlyRate == 0 {
		return principal.Div(decimal.NewFromInt(int64(tenureMonths))).Round(2)
	}
	factor := math.Pow(1+monthlyRate, float64(tenureMonths))
	emi := principal.InexactFloat64() * monthlyRate * factor / (factor - 1)
	return decimal.NewFromFloat(emi).Round(2)
}

// GenerateSchedule builds the full EMI schedule for the given terms: one row
// per period, due dates one calendar month apart starting one month after
// startDate.
//
// Rounding policy: interest is rounded to 2 decimal places each period and the
// principal component is EMI minus that interest. Rounding drift is absorbed by
// the installment that clears the balance: whenever the principal component
// would exceed what is still owed (always true at the final period, possibly
// earlier when the rounded EMI overpays), it is clamped to the remaining
// balance and that row's EMI recomputed from it. Any rows after an early
// payoff carry zero amounts, so the schedule always has one row per period and
// the balance never goes below zero.
func GenerateSchedule(principal, annualRatePct decimal.Decimal, tenureMonths int, startDate time.Time) ([]Payment, error) {
	if !loan.ValidTerms(principal, annualRatePct, tenureMonths) {
		return nil, fmt.Errorf("%w: principal=%s rate=%s tenure=%d",
			loan.ErrInvalidTerms, principal, annualRatePct, tenureMonths)
	}

	emi := CalculateEMI(principal, annualRatePct, tenureMonths)
	monthlyRate := annualRatePct.Div(decimal.NewFromInt(12)).Div(decimal.NewFromInt(100))

	rows := make([]Payment, 0, tenureMonths)
	remaining := principal

	for i := 1; i <= tenureMonths; i++ {
		interest := remaining.Mul(monthlyRate).Round(2)
		principalPart := emi.Sub(interest)
		rowEMI := emi

		if i == tenureMonths || principalPart.GreaterThan(remaining) {
			// Absorb the rounding remainder into the installment that
			// clears the balance.
			principalPart = remaining
			rowEMI = principalPart.Add(interest)
		}

		before := remaining
		remaining = remaining.Sub(principalPart)
		if remaining.IsNegative() {
			// Fixed-EMI math cannot overdraw the balance; if it does the
			// generator itself is broken.
			panic(fmt.Sprintf("schedule generation: negative balance %s at period %d", remaining, i))
		}

		rows = append(rows, Payment{
			PaymentID:         id.NewID32(),
			EMINumber:         i,
			DueDate:           startDate.AddDate(0, i, 0),
			EMIAmount:         rowEMI,
			PrincipalComp:     principalPart,
			InterestComp:      interest,
			PenaltyAmount:     decimal.Zero,
			TotalDueAmount:    rowEMI,
			OutstandingBefore: before,
			OutstandingAfter:  remaining,
			Status:            StatusPending,
		})
	}

	return rows, nil
}
