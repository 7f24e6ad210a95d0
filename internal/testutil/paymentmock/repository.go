package paymentmock

import (
	"context"
	"time"

	domain "fintrack-backend/internal/domain/payment"

	"github.com/shopspring/decimal"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies payment.Repository.
type Repo struct {
	BulkCreateFn              func(ctx context.Context, rows []domain.Payment) error
	GetByPaymentIDFn          func(ctx context.Context, paymentID string) (*domain.Payment, error)
	GetByPaymentIDForUpdateFn func(ctx context.Context, paymentID string) (*domain.Payment, error)
	ListByUserFn              func(ctx context.Context, userID uint64, f domain.Filter) ([]domain.Payment, error)
	ListPendingDueBeforeFn    func(ctx context.Context, day time.Time) ([]domain.Payment, error)
	ListUnpaidDueBetweenFn    func(ctx context.Context, from, to time.Time) ([]domain.Payment, error)
	CountUnpaidByLoanFn       func(ctx context.Context, loanPK uint64) (int64, error)
	MarkOverdueIfPendingFn    func(ctx context.Context, pk uint64, penalty, totalDue decimal.Decimal) (bool, error)
	SaveFn                    func(ctx context.Context, p *domain.Payment) error
}

func (m *Repo) BulkCreate(ctx context.Context, rows []domain.Payment) error {
	if m.BulkCreateFn != nil {
		return m.BulkCreateFn(ctx, rows)
	}
	return nil
}

func (m *Repo) GetByPaymentID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	if m.GetByPaymentIDFn != nil {
		return m.GetByPaymentIDFn(ctx, paymentID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByPaymentIDForUpdate(ctx context.Context, paymentID string) (*domain.Payment, error) {
	if m.GetByPaymentIDForUpdateFn != nil {
		return m.GetByPaymentIDForUpdateFn(ctx, paymentID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByUser(ctx context.Context, userID uint64, f domain.Filter) ([]domain.Payment, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID, f)
	}
	return nil, nil
}

func (m *Repo) ListPendingDueBefore(ctx context.Context, day time.Time) ([]domain.Payment, error) {
	if m.ListPendingDueBeforeFn != nil {
		return m.ListPendingDueBeforeFn(ctx, day)
	}
	return nil, nil
}

func (m *Repo) ListUnpaidDueBetween(ctx context.Context, from, to time.Time) ([]domain.Payment, error) {
	if m.ListUnpaidDueBetweenFn != nil {
		return m.ListUnpaidDueBetweenFn(ctx, from, to)
	}
	return nil, nil
}

func (m *Repo) CountUnpaidByLoan(ctx context.Context, loanPK uint64) (int64, error) {
	if m.CountUnpaidByLoanFn != nil {
		return m.CountUnpaidByLoanFn(ctx, loanPK)
	}
	return 0, nil
}

func (m *Repo) MarkOverdueIfPending(ctx context.Context, pk uint64, penalty, totalDue decimal.Decimal) (bool, error) {
	if m.MarkOverdueIfPendingFn != nil {
		return m.MarkOverdueIfPendingFn(ctx, pk, penalty, totalDue)
	}
	return false, nil
}

func (m *Repo) Save(ctx context.Context, p *domain.Payment) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, p)
	}
	return nil
}
