package mysql

import (
	"context"
	"time"

	loanDomain "fintrack-backend/internal/domain/loan"
	paymentDomain "fintrack-backend/internal/domain/payment"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PaymentRepository struct{ db *gorm.DB }

func NewPaymentRepository(db *gorm.DB) *PaymentRepository { return &PaymentRepository{db: db} }

func (r *PaymentRepository) BulkCreate(ctx context.Context, rows []paymentDomain.Payment) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *PaymentRepository) GetByPaymentID(ctx context.Context, paymentID string) (*paymentDomain.Payment, error) {
	var out paymentDomain.Payment
	res := r.db.WithContext(ctx).Where("payment_id = ?", paymentID).First(&out)
	return &out, res.Error
}

func (r *PaymentRepository) GetByPaymentIDForUpdate(ctx context.Context, paymentID string) (*paymentDomain.Payment, error) {
	var out paymentDomain.Payment
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("payment_id = ?", paymentID).
		First(&out)
	return &out, res.Error
}

// ListByUser resolves ownership through the loans table and fills LoanName for
// display. Done in two queries to stay portable between mysql and the sqlite
// used in tests.
func (r *PaymentRepository) ListByUser(ctx context.Context, userID uint64, f paymentDomain.Filter) ([]paymentDomain.Payment, error) {
	loansQ := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if f.LoanID != "" {
		loansQ = loansQ.Where("loan_id = ?", f.LoanID)
	}
	var loans []loanDomain.Loan
	if err := loansQ.Find(&loans).Error; err != nil {
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

	q := r.db.WithContext(ctx).Where("loan_id IN ?", pks)
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	var out []paymentDomain.Payment
	if err := q.Order("loan_id, emi_number").Find(&out).Error; err != nil {
		return nil, err
	}
	for i := range out {
		out[i].LoanName = names[out[i].LoanID]
	}
	return out, nil
}

func (r *PaymentRepository) ListPendingDueBefore(ctx context.Context, day time.Time) ([]paymentDomain.Payment, error) {
	var out []paymentDomain.Payment
	res := r.db.WithContext(ctx).
		Where("status = ? AND due_date < ?", paymentDomain.StatusPending, day).
		Order("due_date, id").
		Find(&out)
	return out, res.Error
}

func (r *PaymentRepository) ListUnpaidDueBetween(ctx context.Context, from, to time.Time) ([]paymentDomain.Payment, error) {
	var out []paymentDomain.Payment
	res := r.db.WithContext(ctx).
		Where("status IN ? AND due_date BETWEEN ? AND ?",
			[]paymentDomain.Status{paymentDomain.StatusPending, paymentDomain.StatusOverdue}, from, to).
		Order("due_date, id").
		Find(&out)
	return out, res.Error
}

func (r *PaymentRepository) CountUnpaidByLoan(ctx context.Context, loanPK uint64) (int64, error) {
	var n int64
	res := r.db.WithContext(ctx).Model(&paymentDomain.Payment{}).
		Where("loan_id = ? AND status <> ?", loanPK, paymentDomain.StatusPaid).
		Count(&n)
	return n, res.Error
}

// MarkOverdueIfPending is the conditional update the sweep relies on: the
// status guard means a row paid between scan and update is left alone.
func (r *PaymentRepository) MarkOverdueIfPending(ctx context.Context, pk uint64, penalty, totalDue decimal.Decimal) (bool, error) {
	res := r.db.WithContext(ctx).Model(&paymentDomain.Payment{}).
		Where("id = ? AND status = ?", pk, paymentDomain.StatusPending).
		Updates(map[string]any{
			"status":           paymentDomain.StatusOverdue,
			"penalty_amount":   penalty,
			"total_due_amount": totalDue,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *PaymentRepository) Save(ctx context.Context, p *paymentDomain.Payment) error {
	return r.db.WithContext(ctx).Save(p).Error
}
