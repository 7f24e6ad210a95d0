package mysql

import (
	"context"

	loanDomain "fintrack-backend/internal/domain/loan"
	paymentDomain "fintrack-backend/internal/domain/payment"
	reminderDomain "fintrack-backend/internal/domain/reminder"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReminderRepository struct{ db *gorm.DB }

func NewReminderRepository(db *gorm.DB) *ReminderRepository { return &ReminderRepository{db: db} }

// CreateIfAbsent leans on the (payment_id, reminder_type) unique index:
// concurrent dispatcher runs race on the insert and exactly one wins.
func (r *ReminderRepository) CreateIfAbsent(ctx context.Context, rem *reminderDomain.Reminder) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(rem)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *ReminderRepository) GetByPaymentAndType(ctx context.Context, paymentPK uint64, t reminderDomain.Type) (*reminderDomain.Reminder, error) {
	var out reminderDomain.Reminder
	res := r.db.WithContext(ctx).
		Where("payment_id = ? AND reminder_type = ?", paymentPK, t).
		First(&out)
	return &out, res.Error
}

func (r *ReminderRepository) ListByUser(ctx context.Context, userID uint64) ([]reminderDomain.Reminder, error) {
	var loans []loanDomain.Loan
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&loans).Error; err != nil {
		return nil, err
	}
	if len(loans) == 0 {
		return nil, nil
	}
	names := make(map[uint64]string, len(loans))
	pks := make([]uint64, 0, len(loans))
	for _, l := range loans {
		names[l.ID] = l.LoanName
		pks = append(pks, l.ID)
	}

	var out []reminderDomain.Reminder
	if err := r.db.WithContext(ctx).
		Where("loan_id IN ?", pks).
		Order("reminder_date DESC, id DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}

	payPKs := make([]uint64, 0, len(out))
	for _, rem := range out {
		payPKs = append(payPKs, rem.PaymentID)
	}
	amounts := make(map[uint64]string, len(payPKs))
	if len(payPKs) > 0 {
		var pays []paymentDomain.Payment
		if err := r.db.WithContext(ctx).Where("id IN ?", payPKs).Find(&pays).Error; err != nil {
			return nil, err
		}
		for _, p := range pays {
			amounts[p.ID] = p.EMIAmount.StringFixed(2)
		}
	}
	for i := range out {
		out[i].LoanName = names[out[i].LoanID]
		out[i].EMIAmount = amounts[out[i].PaymentID]
	}
	return out, nil
}

func (r *ReminderRepository) Save(ctx context.Context, rem *reminderDomain.Reminder) error {
	return r.db.WithContext(ctx).Save(rem).Error
}
