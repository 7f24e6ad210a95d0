package reminder

import (
	"context"
	"fmt"
	"time"

	"fintrack-backend/internal/domain/loan"
	"fintrack-backend/internal/domain/payment"
	"fintrack-backend/internal/domain/reminder"
	"fintrack-backend/internal/domain/user"
	"fintrack-backend/pkg/id"

	"github.com/sirupsen/logrus"
)

// Notifier is the delivery collaborator; the SMTP implementation lives in
// internal/infrastructure/mail. Delivery failures are retryable, never fatal.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Window bounds which due dates qualify for a reminder, in days relative to
// the current date.
type Window struct {
	LookbackDays  int
	LookaheadDays int
}

type Summary struct {
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

// Message renders the caller-facing result line.
func (s Summary) Message() string {
	switch {
	case s.Sent > 0:
		return fmt.Sprintf("Successfully sent %d reminders.", s.Sent)
	case s.Skipped > 0:
		return "Reminders already sent. No new emails sent."
	default:
		return "No due payments found needing reminders."
	}
}

type Usecase struct {
	reminders   reminder.Repository
	payments    payment.Repository
	loans       loan.Repository
	users       user.Repository
	notifier    Notifier
	window      Window
	sendTimeout time.Duration
	log         *logrus.Logger
}

func NewUsecase(
	reminders reminder.Repository,
	payments payment.Repository,
	loans loan.Repository,
	users user.Repository,
	notifier Notifier,
	window Window,
	sendTimeout time.Duration,
	log *logrus.Logger,
) *Usecase {
	if sendTimeout <= 0 {
		sendTimeout = 10 * time.Second
	}
	return &Usecase{
		reminders:   reminders,
		payments:    payments,
		loans:       loans,
		users:       users,
		notifier:    notifier,
		window:      window,
		sendTimeout: sendTimeout,
		log:         log,
	}
}

func (u *Usecase) List(ctx context.Context, userID uint64) ([]reminder.Reminder, error) {
	return u.reminders.ListByUser(ctx, userID)
}

// Dispatch scans unpaid schedule rows due inside the window, makes sure each
// has its reminder row, and attempts delivery for every unsent one. Reminders
// already sent are skipped, so repeated invocations never duplicate an email;
// failed ones keep is_sent = false and are retried on the next run.
func (u *Usecase) Dispatch(ctx context.Context, now time.Time) (Summary, error) {
	var s Summary

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	from := today.AddDate(0, 0, -u.window.LookbackDays)
	to := today.AddDate(0, 0, u.window.LookaheadDays)

	rows, err := u.payments.ListUnpaidDueBetween(ctx, from, to)
	if err != nil {
		return s, err
	}

	for i := range rows {
		p := &rows[i]

		typ := reminder.TypeOverdue
		if !p.DueDate.Before(today) {
			typ = reminder.TypeUpcoming
		}

		l, err := u.loans.GetByID(ctx, p.LoanID)
		if err != nil {
			u.log.WithError(err).WithField("payment_id", p.PaymentID).Warn("reminder: loan lookup failed")
			s.Failed++
			continue
		}
		owner, err := u.users.GetByID(ctx, l.UserID)
		if err != nil {
			u.log.WithError(err).WithField("loan_id", l.LoanID).Warn("reminder: user lookup failed")
			s.Failed++
			continue
		}

		rem := &reminder.Reminder{
			ReminderID:   id.NewID32(),
			LoanID:       p.LoanID,
			PaymentID:    p.ID,
			ReminderType: typ,
			ReminderDate: today,
			Message:      composeMessage(owner.Username, l.LoanName, p, typ),
		}
		created, err := u.reminders.CreateIfAbsent(ctx, rem)
		if err != nil {
			return s, err
		}
		if !created {
			existing, err := u.reminders.GetByPaymentAndType(ctx, p.ID, typ)
			if err != nil {
				return s, err
			}
			if existing.IsSent {
				s.Skipped++
				continue
			}
			rem = existing
		}

		sendCtx, cancel := context.WithTimeout(ctx, u.sendTimeout)
		err = u.notifier.Send(sendCtx, owner.Email, subjectFor(l.LoanName, typ), rem.Message)
		cancel()
		if err != nil {
			rem.ErrorMessage = err.Error()
			if saveErr := u.reminders.Save(ctx, rem); saveErr != nil {
				return s, saveErr
			}
			s.Failed++
			continue
		}

		sentAt := now.UTC()
		rem.IsSent = true
		rem.SentAt = &sentAt
		rem.ErrorMessage = ""
		if err := u.reminders.Save(ctx, rem); err != nil {
			return s, err
		}
		s.Sent++
	}

	u.log.WithFields(logrus.Fields{
		"sent": s.Sent, "failed": s.Failed, "skipped": s.Skipped,
	}).Info("reminder dispatch completed")
	return s, nil
}

func subjectFor(loanName string, typ reminder.Type) string {
	if typ == reminder.TypeOverdue {
		return fmt.Sprintf("Overdue EMI Payment - %s", loanName)
	}
	return fmt.Sprintf("EMI Payment Reminder - %s", loanName)
}

func composeMessage(username, loanName string, p *payment.Payment, typ reminder.Type) string {
	due := p.DueDate.Format("2006-01-02")
	if typ == reminder.TypeOverdue {
		return fmt.Sprintf(
			"Dear %s,\n\nYour EMI of %s for %s was due on %s and is now overdue.\n"+
				"A penalty of %s has been applied. Total due: %s.\n"+
				"Please make the payment as soon as possible to avoid further penalties.\n\nRegards,\nFinTrack",
			username, p.EMIAmount.StringFixed(2), loanName, due,
			p.PenaltyAmount.StringFixed(2), p.TotalDueAmount.StringFixed(2),
		)
	}
	return fmt.Sprintf(
		"Dear %s,\n\nThis is a reminder that your EMI of %s for %s is due on %s.\n"+
			"Outstanding loan balance after this payment: %s.\n"+
			"Please make the payment before the due date to avoid a late penalty.\n\nRegards,\nFinTrack",
		username, p.EMIAmount.StringFixed(2), loanName, due,
		p.OutstandingAfter.StringFixed(2),
	)
}
