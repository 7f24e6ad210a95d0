package uowmock

import (
	"context"
	"errors"

	"fintrack-backend/internal/domain/payment"
	"fintrack-backend/internal/domain/uow"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
// Fill in the function fields you need in a test; unfilled ones return errUnimplemented.
type UoW struct {
	WithinTxFn        func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinPaymentTxFn func(ctx context.Context, paymentID string, fn func(r uow.Repos, p *payment.Payment) error) error
}

func New() *UoW { return &UoW{} }

// Passthrough builds a UoW that simply invokes the transaction body with the
// given repos — the common case in usecase tests.
func Passthrough(repos uow.Repos, find func(ctx context.Context, paymentID string) (*payment.Payment, error)) *UoW {
	return &UoW{
		WithinTxFn: func(ctx context.Context, fn func(r uow.Repos) error) error {
			return fn(repos)
		},
		WithinPaymentTxFn: func(ctx context.Context, paymentID string, fn func(r uow.Repos, p *payment.Payment) error) error {
			p, err := find(ctx, paymentID)
			if err != nil {
				return err
			}
			return fn(repos, p)
		},
	}
}

func (m *UoW) Reset() { *m = UoW{} }

func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}

func (m *UoW) WithinPaymentTx(ctx context.Context, paymentID string, fn func(r uow.Repos, p *payment.Payment) error) error {
	if m.WithinPaymentTxFn != nil {
		return m.WithinPaymentTxFn(ctx, paymentID, fn)
	}
	return errUnimplemented
}
