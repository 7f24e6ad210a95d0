package reminder

import "context"

type Repository interface {
	// CreateIfAbsent inserts the reminder unless one already exists for the
	// same (payment, type); it reports whether a row was created. Relies on
	// the unique index, so it is safe under concurrent sweeps.
	CreateIfAbsent(ctx context.Context, r *Reminder) (bool, error)
	GetByPaymentAndType(ctx context.Context, paymentPK uint64, t Type) (*Reminder, error)
	ListByUser(ctx context.Context, userID uint64) ([]Reminder, error)
	Save(ctx context.Context, r *Reminder) error
}
