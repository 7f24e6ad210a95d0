package loan

import (
	"context"
	"sort"

	"fintrack-backend/internal/domain/loan"
	"fintrack-backend/internal/domain/payment"

	"github.com/shopspring/decimal"
)

// SummaryDTO is the dashboard aggregate, derived on read from the current
// payment states so it can never lag a committed transition.
type SummaryDTO struct {
	TotalPaid          decimal.Decimal `json:"total_paid"`
	TotalPending       decimal.Decimal `json:"total_pending"`
	TotalOverdue       decimal.Decimal `json:"total_overdue"`
	TotalPenalty       decimal.Decimal `json:"total_penalty"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
}

// DashboardSummary folds over every payment row the user owns:
//
//	totalPaid    = sum of EMI+penalty over PAID rows
//	totalPending = sum of EMI over PENDING rows
//	totalOverdue = sum of EMI+penalty over OVERDUE rows
//	outstanding  = per active loan, the pre-computed balance ahead of its
//	               first unpaid row (zero once everything is PAID)
func (u *Usecase) DashboardSummary(ctx context.Context, userID uint64) (*SummaryDTO, error) {
	loans, err := u.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	rows, err := u.payments.ListByUser(ctx, userID, payment.Filter{})
	if err != nil {
		return nil, err
	}

	s := &SummaryDTO{
		TotalPaid:          decimal.Zero,
		TotalPending:       decimal.Zero,
		TotalOverdue:       decimal.Zero,
		TotalPenalty:       decimal.Zero,
		OutstandingBalance: decimal.Zero,
	}

	byLoan := make(map[uint64][]payment.Payment)
	for _, p := range rows {
		switch p.Status {
		case payment.StatusPaid:
			s.TotalPaid = s.TotalPaid.Add(p.TotalDueAmount)
		case payment.StatusPending:
			s.TotalPending = s.TotalPending.Add(p.EMIAmount)
		case payment.StatusOverdue:
			s.TotalOverdue = s.TotalOverdue.Add(p.TotalDueAmount)
		}
		s.TotalPenalty = s.TotalPenalty.Add(p.PenaltyAmount)
		byLoan[p.LoanID] = append(byLoan[p.LoanID], p)
	}

	for _, l := range loans {
		if l.Status != loan.StatusActive {
			continue
		}
		sched := byLoan[l.ID]
		sort.Slice(sched, func(i, j int) bool { return sched[i].EMINumber < sched[j].EMINumber })
		for _, p := range sched {
			if p.Status != payment.StatusPaid {
				s.OutstandingBalance = s.OutstandingBalance.Add(p.OutstandingBefore)
				break
			}
		}
	}

	return s, nil
}
