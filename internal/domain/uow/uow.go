package uow

import (
	"context"

	"fintrack-backend/internal/domain/loan"
	"fintrack-backend/internal/domain/payment"
	"fintrack-backend/internal/domain/reminder"
	"fintrack-backend/internal/domain/user"
)

type Repos struct {
	Loans     loan.Repository
	Payments  payment.Repository
	Reminders reminder.Repository
	Users     user.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the payment row first, then pass it in. The lock is
	// what serializes concurrent mark-paid calls on the same row.
	WithinPaymentTx(ctx context.Context, paymentID string, fn func(r Repos, p *payment.Payment) error) error
}
