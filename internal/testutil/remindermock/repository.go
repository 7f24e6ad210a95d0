package remindermock

import (
	"context"

	domain "fintrack-backend/internal/domain/reminder"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies reminder.Repository.
type Repo struct {
	CreateIfAbsentFn      func(ctx context.Context, r *domain.Reminder) (bool, error)
	GetByPaymentAndTypeFn func(ctx context.Context, paymentPK uint64, t domain.Type) (*domain.Reminder, error)
	ListByUserFn          func(ctx context.Context, userID uint64) ([]domain.Reminder, error)
	SaveFn                func(ctx context.Context, r *domain.Reminder) error
}

func (m *Repo) CreateIfAbsent(ctx context.Context, r *domain.Reminder) (bool, error) {
	if m.CreateIfAbsentFn != nil {
		return m.CreateIfAbsentFn(ctx, r)
	}
	return true, nil
}

func (m *Repo) GetByPaymentAndType(ctx context.Context, paymentPK uint64, t domain.Type) (*domain.Reminder, error) {
	if m.GetByPaymentAndTypeFn != nil {
		return m.GetByPaymentAndTypeFn(ctx, paymentPK, t)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByUser(ctx context.Context, userID uint64) ([]domain.Reminder, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID)
	}
	return nil, nil
}

func (m *Repo) Save(ctx context.Context, r *domain.Reminder) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, r)
	}
	return nil
}
