package loan

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound     = errors.New("loan not found")
	ErrInvalidTerms = errors.New("invalid loan terms")
)

type Status string

const (
	StatusActive Status = "Active"
	StatusClosed Status = "Closed"
)

// Recognized loan products. Anything else is rejected at the HTTP layer.
const (
	TypePersonal  = "Personal"
	TypeHousing   = "Housing"
	TypeCar       = "Car"
	TypeEducation = "Education"
	TypeGold      = "Gold"
)

type Loan struct {
	ID           uint64          `gorm:"primaryKey;column:id" json:"-"`
	LoanID       string          `gorm:"size:32;uniqueIndex:ux_loans_loan_id" json:"loan_id"`
	UserID       uint64          `gorm:"column:user_id;index:idx_loans_user" json:"-"`
	LoanName     string          `gorm:"size:255;column:loan_name" json:"loan_name"`
	LoanType     string          `gorm:"size:100;column:loan_type" json:"loan_type"`
	TotalAmount  decimal.Decimal `gorm:"type:decimal(12,2);column:total_amount" json:"total_amount"`
	InterestRate decimal.Decimal `gorm:"type:decimal(5,2);column:interest_rate" json:"interest_rate"`
	TenureMonths int             `gorm:"column:tenure_months" json:"tenure_months"`
	EMIAmount    decimal.Decimal `gorm:"type:decimal(12,2);column:emi_amount" json:"emi_amount"`
	StartDate    time.Time       `gorm:"type:date;column:start_date" json:"start_date"`
	Status       Status          `gorm:"size:10;default:'Active'" json:"status"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Loan) TableName() string { return "loans" }

// ValidTerms reports whether principal, rate and tenure satisfy the
// constraints the amortization formula requires.
func ValidTerms(principal, annualRate decimal.Decimal, tenureMonths int) bool {
	return principal.GreaterThan(decimal.Zero) &&
		!annualRate.IsNegative() &&
		tenureMonths >= 1
}
