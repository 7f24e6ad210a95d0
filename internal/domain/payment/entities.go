package payment

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound    = errors.New("payment not found")
	ErrAlreadyPaid = errors.New("payment is already paid")
)

type Status string

const (
	StatusPending Status = "PENDING"
	StatusOverdue Status = "OVERDUE"
	StatusPaid    Status = "PAID"
)

// Payment is one row of a loan's EMI schedule. All rows are created in a
// single transaction with the owning loan; the monetary columns are fixed at
// generation time and only Status, PaidDate, PenaltyAmount and TotalDueAmount
// change afterwards.
type Payment struct {
	ID                uint64          `gorm:"primaryKey;column:id" json:"-"`
	PaymentID         string          `gorm:"size:32;uniqueIndex:ux_payments_payment_id" json:"payment_id"`
	LoanID            uint64          `gorm:"column:loan_id;index:idx_payments_loan;constraint:OnDelete:CASCADE" json:"-"`
	EMINumber         int             `gorm:"column:emi_number" json:"emi_number"`
	DueDate           time.Time       `gorm:"type:date;column:due_date;index:idx_payments_due" json:"due_date"`
	PaidDate          *time.Time      `gorm:"type:date;column:paid_date" json:"paid_date,omitempty"`
	EMIAmount         decimal.Decimal `gorm:"type:decimal(12,2);column:emi_amount" json:"emi_amount"`
	PrincipalComp     decimal.Decimal `gorm:"type:decimal(12,2);column:principal_component" json:"principal_component"`
	InterestComp      decimal.Decimal `gorm:"type:decimal(12,2);column:interest_component" json:"interest_component"`
	PenaltyAmount     decimal.Decimal `gorm:"type:decimal(12,2);column:penalty_amount;default:0" json:"penalty_amount"`
	TotalDueAmount    decimal.Decimal `gorm:"type:decimal(12,2);column:total_due_amount" json:"total_due_amount"`
	OutstandingBefore decimal.Decimal `gorm:"type:decimal(12,2);column:outstanding_before" json:"outstanding_before"`
	OutstandingAfter  decimal.Decimal `gorm:"type:decimal(12,2);column:outstanding_after" json:"outstanding_after"`
	Status            Status          `gorm:"size:10;column:status;default:'PENDING';index:idx_payments_status" json:"status"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Display-only, populated by the listing query.
	LoanName string `gorm:"-" json:"loan_name,omitempty"`
}

func (Payment) TableName() string { return "payments" }
