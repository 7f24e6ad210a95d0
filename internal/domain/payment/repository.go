package payment

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Filter narrows payment listings; zero values mean "no constraint".
type Filter struct {
	LoanID string // public loan_id
	Status Status
}

type Repository interface {
	// BulkCreate inserts a whole schedule; callers run it inside the same
	// transaction that creates the owning loan.
	BulkCreate(ctx context.Context, rows []Payment) error
	GetByPaymentID(ctx context.Context, paymentID string) (*Payment, error)
	// GetByPaymentIDForUpdate locks the row for the duration of the
	// surrounding transaction.
	GetByPaymentIDForUpdate(ctx context.Context, paymentID string) (*Payment, error)
	// ListByUser returns the user's payments (via loan ownership) with
	// LoanName populated, ordered by loan and sequence.
	ListByUser(ctx context.Context, userID uint64, f Filter) ([]Payment, error)
	// ListPendingDueBefore returns PENDING rows strictly past due.
	ListPendingDueBefore(ctx context.Context, day time.Time) ([]Payment, error)
	// ListUnpaidDueBetween returns PENDING and OVERDUE rows due inside
	// [from, to], for the reminder window.
	ListUnpaidDueBetween(ctx context.Context, from, to time.Time) ([]Payment, error)
	CountUnpaidByLoan(ctx context.Context, loanPK uint64) (int64, error)
	// MarkOverdueIfPending is a conditional update guarded on
	// status = PENDING; it reports whether the row was transitioned. A row
	// paid concurrently is left untouched.
	MarkOverdueIfPending(ctx context.Context, pk uint64, penalty, totalDue decimal.Decimal) (bool, error)
	Save(ctx context.Context, p *Payment) error
}
