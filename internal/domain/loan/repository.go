package loan

import "context"

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByID(ctx context.Context, pk uint64) (*Loan, error)
	GetByLoanID(ctx context.Context, userID uint64, loanID string) (*Loan, error)
	ListByUser(ctx context.Context, userID uint64) ([]Loan, error)
	Save(ctx context.Context, l *Loan) error
}
