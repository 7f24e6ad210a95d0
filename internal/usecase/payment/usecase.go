package payment

import (
	"context"
	"errors"
	"time"

	"fintrack-backend/internal/domain/payment"
	"fintrack-backend/internal/domain/uow"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	loanDomain "fintrack-backend/internal/domain/loan"
)

type Usecase struct {
	repo    payment.Repository
	uow     uow.UnitOfWork
	penalty payment.PenaltyFunc
	log     *logrus.Logger
}

func NewUsecase(r payment.Repository, tx uow.UnitOfWork, penalty payment.PenaltyFunc, log *logrus.Logger) *Usecase {
	if penalty == nil {
		penalty = payment.DefaultPenalty
	}
	return &Usecase{repo: r, uow: tx, penalty: penalty, log: log}
}

func (u *Usecase) List(ctx context.Context, userID uint64, f payment.Filter) ([]payment.Payment, error) {
	return u.repo.ListByUser(ctx, userID, f)
}

// MarkPaid transitions one row to PAID. The row is locked for the whole
// transaction, which is what makes a second concurrent call observe PAID and
// fail with ErrAlreadyPaid instead of double-counting. When the row was the
// loan's last unpaid one the loan closes in the same transaction.
func (u *Usecase) MarkPaid(ctx context.Context, userID uint64, paymentID string) (*payment.Payment, error) {
	var out *payment.Payment

	err := u.uow.WithinPaymentTx(ctx, paymentID, func(r uow.Repos, p *payment.Payment) error {
		l, err := r.Loans.GetByID(ctx, p.LoanID)
		if err != nil {
			return err
		}
		if l.UserID != userID {
			// Someone else's payment is indistinguishable from a missing one.
			return payment.ErrNotFound
		}
		if p.Status == payment.StatusPaid {
			return payment.ErrAlreadyPaid
		}

		today := truncateToDay(time.Now().UTC())
		p.Status = payment.StatusPaid
		p.PaidDate = &today
		p.TotalDueAmount = p.EMIAmount.Add(p.PenaltyAmount)
		if err := r.Payments.Save(ctx, p); err != nil {
			return err
		}

		unpaid, err := r.Payments.CountUnpaidByLoan(ctx, l.ID)
		if err != nil {
			return err
		}
		if unpaid == 0 {
			l.Status = loanDomain.StatusClosed
			if err := r.Loans.Save(ctx, l); err != nil {
				return err
			}
		}

		out = p
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, payment.ErrNotFound
		}
		return nil, err
	}

	u.log.WithFields(logrus.Fields{
		"payment_id": out.PaymentID,
		"emi_number": out.EMINumber,
		"total_due":  out.TotalDueAmount.StringFixed(2),
	}).Info("payment marked paid")
	return out, nil
}

// SweepOverdue reclassifies PENDING rows strictly past due as OVERDUE and
// assigns the penalty once. The per-row conditional update keeps the sweep
// idempotent and lets a concurrent mark-paid win the race.
func (u *Usecase) SweepOverdue(ctx context.Context, now time.Time) (int, error) {
	today := truncateToDay(now.UTC())

	rows, err := u.repo.ListPendingDueBefore(ctx, today)
	if err != nil {
		return 0, err
	}

	count := 0
	for i := range rows {
		p := &rows[i]
		daysLate := int(today.Sub(truncateToDay(p.DueDate)).Hours() / 24)
		pen := u.penalty(p.EMIAmount, daysLate)
		total := p.EMIAmount.Add(pen)

		ok, err := u.repo.MarkOverdueIfPending(ctx, p.ID, pen, total)
		if err != nil {
			return count, err
		}
		if ok {
			count++
		}
	}

	u.log.WithField("overdue", count).Info("overdue sweep completed")
	return count, nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
