package reminder

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	loanDomain "fintrack-backend/internal/domain/loan"
	"fintrack-backend/internal/domain/payment"
	"fintrack-backend/internal/domain/reminder"
	userDomain "fintrack-backend/internal/domain/user"
	"fintrack-backend/internal/testutil/loanmock"
	"fintrack-backend/internal/testutil/paymentmock"
	"fintrack-backend/internal/testutil/remindermock"
	"fintrack-backend/internal/testutil/usermock"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type sentMail struct {
	to      string
	subject string
	body    string
}

// notifierMock records sends and can be told to fail.
type notifierMock struct {
	sent []sentMail
	err  error
}

func (n *notifierMock) Send(ctx context.Context, to, subject, body string) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

func fixedNow() time.Time {
	return time.Date(2025, 9, 10, 9, 0, 0, 0, time.UTC)
}

func scheduleRows() []payment.Payment {
	return []payment.Payment{
		{ID: 1, PaymentID: "p-overdue", LoanID: 5, EMINumber: 2,
			DueDate:   time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
			EMIAmount: decimal.RequireFromString("1000.00"),
			PenaltyAmount: decimal.RequireFromString("20.00"),
			TotalDueAmount: decimal.RequireFromString("1020.00"),
			Status: payment.StatusOverdue},
		{ID: 2, PaymentID: "p-upcoming", LoanID: 5, EMINumber: 3,
			DueDate:   time.Date(2025, 9, 12, 0, 0, 0, 0, time.UTC),
			EMIAmount: decimal.RequireFromString("1000.00"),
			TotalDueAmount:   decimal.RequireFromString("1000.00"),
			OutstandingAfter: decimal.RequireFromString("8000.00"),
			Status:           payment.StatusPending},
	}
}

func lookupMocks(t *testing.T) (*loanmock.Repo, *usermock.Repo) {
	t.Helper()
	loans := &loanmock.Repo{
		GetByIDFn: func(ctx context.Context, pk uint64) (*loanDomain.Loan, error) {
			if pk != 5 {
				t.Fatalf("loan lookup pk mismatch: %d", pk)
			}
			return &loanDomain.Loan{ID: 5, UserID: 7, LoanName: "Car loan"}, nil
		},
	}
	users := &usermock.Repo{
		GetByIDFn: func(ctx context.Context, id uint64) (*userDomain.User, error) {
			if id != 7 {
				t.Fatalf("user lookup id mismatch: %d", id)
			}
			return &userDomain.User{ID: 7, Username: "alice", Email: "alice@example.com"}, nil
		},
	}
	return loans, users
}

func TestUsecase_Dispatch(t *testing.T) {
	window := Window{LookbackDays: 30, LookaheadDays: 3}

	t.Run("sends typed reminders inside the window", func(t *testing.T) {
		payments := &paymentmock.Repo{
			ListUnpaidDueBetweenFn: func(ctx context.Context, from, to time.Time) ([]payment.Payment, error) {
				wantFrom := time.Date(2025, 8, 11, 0, 0, 0, 0, time.UTC)
				wantTo := time.Date(2025, 9, 13, 0, 0, 0, 0, time.UTC)
				if !from.Equal(wantFrom) || !to.Equal(wantTo) {
					t.Fatalf("window mismatch: %s..%s", from, to)
				}
				return scheduleRows(), nil
			},
		}
		loans, users := lookupMocks(t)

		var saved []*reminder.Reminder
		reminders := &remindermock.Repo{
			CreateIfAbsentFn: func(ctx context.Context, r *reminder.Reminder) (bool, error) {
				return true, nil
			},
			SaveFn: func(ctx context.Context, r *reminder.Reminder) error {
				saved = append(saved, r)
				return nil
			},
		}
		notifier := &notifierMock{}
		u := NewUsecase(reminders, payments, loans, users, notifier, window, time.Second, testLogger())

		s, err := u.Dispatch(context.Background(), fixedNow())
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if s.Sent != 2 || s.Failed != 0 || s.Skipped != 0 {
			t.Fatalf("summary mismatch: %+v", s)
		}
		if len(notifier.sent) != 2 {
			t.Fatalf("want 2 emails, got %d", len(notifier.sent))
		}
		if notifier.sent[0].to != "alice@example.com" {
			t.Fatalf("recipient mismatch: %s", notifier.sent[0].to)
		}
		if !strings.Contains(notifier.sent[0].subject, "Overdue") {
			t.Fatalf("past-due row should get the overdue subject, got %q", notifier.sent[0].subject)
		}
		if !strings.Contains(notifier.sent[1].subject, "Reminder") {
			t.Fatalf("future row should get the upcoming subject, got %q", notifier.sent[1].subject)
		}
		if !strings.Contains(notifier.sent[0].body, "penalty") &&
			!strings.Contains(notifier.sent[0].body, "Penalty") {
			t.Fatalf("overdue body should mention the penalty: %q", notifier.sent[0].body)
		}

		if len(saved) != 2 {
			t.Fatalf("want 2 reminder rows saved, got %d", len(saved))
		}
		for _, r := range saved {
			if !r.IsSent || r.SentAt == nil || r.ErrorMessage != "" {
				t.Fatalf("saved reminder should be marked sent: %+v", r)
			}
		}
		if saved[0].ReminderType != reminder.TypeOverdue || saved[1].ReminderType != reminder.TypeUpcoming {
			t.Fatalf("reminder types mismatch: %s / %s", saved[0].ReminderType, saved[1].ReminderType)
		}
	})

	t.Run("delivery failure keeps the reminder unsent for retry", func(t *testing.T) {
		payments := &paymentmock.Repo{
			ListUnpaidDueBetweenFn: func(ctx context.Context, from, to time.Time) ([]payment.Payment, error) {
				return scheduleRows()[:1], nil
			},
		}
		loans, users := lookupMocks(t)

		var saved *reminder.Reminder
		reminders := &remindermock.Repo{
			SaveFn: func(ctx context.Context, r *reminder.Reminder) error {
				saved = r
				return nil
			},
		}
		notifier := &notifierMock{err: errors.New("smtp: connection refused")}
		u := NewUsecase(reminders, payments, loans, users, notifier, window, time.Second, testLogger())

		s, err := u.Dispatch(context.Background(), fixedNow())
		if err != nil {
			t.Fatalf("delivery failure must not abort the run: %v", err)
		}
		if s.Failed != 1 || s.Sent != 0 {
			t.Fatalf("summary mismatch: %+v", s)
		}
		if saved == nil || saved.IsSent || saved.ErrorMessage == "" {
			t.Fatalf("failed reminder should stay unsent with the error recorded: %+v", saved)
		}
	})

	t.Run("already sent reminder is skipped", func(t *testing.T) {
		payments := &paymentmock.Repo{
			ListUnpaidDueBetweenFn: func(ctx context.Context, from, to time.Time) ([]payment.Payment, error) {
				return scheduleRows()[:1], nil
			},
		}
		loans, users := lookupMocks(t)

		sentAt := fixedNow().Add(-24 * time.Hour)
		reminders := &remindermock.Repo{
			CreateIfAbsentFn: func(ctx context.Context, r *reminder.Reminder) (bool, error) {
				return false, nil
			},
			GetByPaymentAndTypeFn: func(ctx context.Context, paymentPK uint64, typ reminder.Type) (*reminder.Reminder, error) {
				return &reminder.Reminder{PaymentID: paymentPK, ReminderType: typ, IsSent: true, SentAt: &sentAt}, nil
			},
		}
		notifier := &notifierMock{}
		u := NewUsecase(reminders, payments, loans, users, notifier, window, time.Second, testLogger())

		s, err := u.Dispatch(context.Background(), fixedNow())
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if s.Skipped != 1 || s.Sent != 0 {
			t.Fatalf("summary mismatch: %+v", s)
		}
		if len(notifier.sent) != 0 {
			t.Fatalf("no email should go out for an already-sent reminder")
		}
	})

	t.Run("existing unsent reminder is retried", func(t *testing.T) {
		payments := &paymentmock.Repo{
			ListUnpaidDueBetweenFn: func(ctx context.Context, from, to time.Time) ([]payment.Payment, error) {
				return scheduleRows()[:1], nil
			},
		}
		loans, users := lookupMocks(t)

		existing := &reminder.Reminder{
			ReminderID: "existing", PaymentID: 1,
			ReminderType: reminder.TypeOverdue,
			Message:      "stored message",
			ErrorMessage: "smtp: connection refused",
		}
		var saved *reminder.Reminder
		reminders := &remindermock.Repo{
			CreateIfAbsentFn: func(ctx context.Context, r *reminder.Reminder) (bool, error) {
				return false, nil
			},
			GetByPaymentAndTypeFn: func(ctx context.Context, paymentPK uint64, typ reminder.Type) (*reminder.Reminder, error) {
				return existing, nil
			},
			SaveFn: func(ctx context.Context, r *reminder.Reminder) error {
				saved = r
				return nil
			},
		}
		notifier := &notifierMock{}
		u := NewUsecase(reminders, payments, loans, users, notifier, window, time.Second, testLogger())

		s, err := u.Dispatch(context.Background(), fixedNow())
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if s.Sent != 1 {
			t.Fatalf("retry should send, got %+v", s)
		}
		if len(notifier.sent) != 1 || notifier.sent[0].body != "stored message" {
			t.Fatalf("retry should reuse the stored message: %+v", notifier.sent)
		}
		if saved == nil || saved.ReminderID != "existing" || !saved.IsSent || saved.ErrorMessage != "" {
			t.Fatalf("retried reminder should be marked sent with the error cleared: %+v", saved)
		}
	})
}

func TestSummary_Message(t *testing.T) {
	cases := []struct {
		s    Summary
		want string
	}{
		{Summary{Sent: 3}, "Successfully sent 3 reminders."},
		{Summary{Sent: 1, Skipped: 2}, "Successfully sent 1 reminders."},
		{Summary{Skipped: 4}, "Reminders already sent. No new emails sent."},
		{Summary{}, "No due payments found needing reminders."},
	}
	for _, tc := range cases {
		if got := tc.s.Message(); got != tc.want {
			t.Fatalf("Message(%+v): want %q, got %q", tc.s, got, tc.want)
		}
	}
}
