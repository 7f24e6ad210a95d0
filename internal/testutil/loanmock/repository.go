package loanmock

import (
	"context"

	domain "fintrack-backend/internal/domain/loan"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies loan.Repository.
// Only methods you need are included; add more as tests require.
type Repo struct {
	CreateFn      func(ctx context.Context, l *domain.Loan) error
	GetByIDFn     func(ctx context.Context, pk uint64) (*domain.Loan, error)
	GetByLoanIDFn func(ctx context.Context, userID uint64, loanID string) (*domain.Loan, error)
	ListByUserFn  func(ctx context.Context, userID uint64) ([]domain.Loan, error)
	SaveFn        func(ctx context.Context, l *domain.Loan) error
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, pk uint64) (*domain.Loan, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, pk)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByLoanID(ctx context.Context, userID uint64, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDFn != nil {
		return m.GetByLoanIDFn(ctx, userID, loanID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByUser(ctx context.Context, userID uint64) ([]domain.Loan, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID)
	}
	return nil, nil
}

func (m *Repo) Save(ctx context.Context, l *domain.Loan) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, l)
	}
	return nil
}
