package loan

import (
	"errors"
	"fmt"
	"time"

	"context"

	"fintrack-backend/internal/domain/loan"
	"fintrack-backend/internal/domain/payment"
	"fintrack-backend/internal/domain/uow"
	"fintrack-backend/pkg/id"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Usecase struct {
	repo     loan.Repository
	payments payment.Repository
	uow      uow.UnitOfWork
	log      *logrus.Logger
}

func NewUsecase(r loan.Repository, p payment.Repository, tx uow.UnitOfWork, log *logrus.Logger) *Usecase {
	return &Usecase{repo: r, payments: p, uow: tx, log: log}
}

type CreateLoanInput struct {
	LoanName     string
	LoanType     string
	TotalAmount  decimal.Decimal
	InterestRate decimal.Decimal
	TenureMonths int
	StartDate    time.Time
}

type LoanDTO struct {
	LoanID       string          `json:"loan_id"`
	LoanName     string          `json:"loan_name"`
	LoanType     string          `json:"loan_type"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	InterestRate decimal.Decimal `json:"interest_rate"`
	TenureMonths int             `json:"tenure_months"`
	EMIAmount    decimal.Decimal `json:"emi_amount"`
	StartDate    string          `json:"start_date"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
}

func toDTO(l *loan.Loan) *LoanDTO {
	return &LoanDTO{
		LoanID:       l.LoanID,
		LoanName:     l.LoanName,
		LoanType:     l.LoanType,
		TotalAmount:  l.TotalAmount,
		InterestRate: l.InterestRate,
		TenureMonths: l.TenureMonths,
		EMIAmount:    l.EMIAmount,
		StartDate:    l.StartDate.Format("2006-01-02"),
		Status:       string(l.Status),
		CreatedAt:    l.CreatedAt,
	}
}

// Create validates the terms, generates the full EMI schedule and persists
// loan plus schedule in one transaction. A reader can never observe the loan
// without its schedule.
func (u *Usecase) Create(ctx context.Context, userID uint64, in CreateLoanInput) (*LoanDTO, error) {
	if !loan.ValidTerms(in.TotalAmount, in.InterestRate, in.TenureMonths) {
		return nil, fmt.Errorf("%w: principal=%s rate=%s tenure=%d",
			loan.ErrInvalidTerms, in.TotalAmount, in.InterestRate, in.TenureMonths)
	}

	rows, err := payment.GenerateSchedule(in.TotalAmount, in.InterestRate, in.TenureMonths, in.StartDate)
	if err != nil {
		return nil, err
	}

	l := &loan.Loan{
		LoanID:       id.NewID32(),
		UserID:       userID,
		LoanName:     in.LoanName,
		LoanType:     in.LoanType,
		TotalAmount:  in.TotalAmount,
		InterestRate: in.InterestRate,
		TenureMonths: in.TenureMonths,
		EMIAmount:    payment.CalculateEMI(in.TotalAmount, in.InterestRate, in.TenureMonths),
		StartDate:    in.StartDate,
		Status:       loan.StatusActive,
	}

	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}
		for i := range rows {
			rows[i].LoanID = l.ID
		}
		return r.Payments.BulkCreate(ctx, rows)
	})
	if err != nil {
		return nil, err
	}

	u.log.WithFields(logrus.Fields{
		"loan_id": l.LoanID,
		"tenure":  l.TenureMonths,
		"emi":     l.EMIAmount.StringFixed(2),
	}).Info("loan created with schedule")
	return toDTO(l), nil
}

func (u *Usecase) Get(ctx context.Context, userID uint64, loanID string) (*LoanDTO, error) {
	l, err := u.repo.GetByLoanID(ctx, userID, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, loan.ErrNotFound
		}
		return nil, err
	}
	return toDTO(l), nil
}

func (u *Usecase) List(ctx context.Context, userID uint64) ([]LoanDTO, error) {
	loans, err := u.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]LoanDTO, 0, len(loans))
	for i := range loans {
		out = append(out, *toDTO(&loans[i]))
	}
	return out, nil
}
