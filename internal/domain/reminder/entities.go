package reminder

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("reminder not found")

type Type string

const (
	TypeUpcoming Type = "upcoming"
	TypeOverdue  Type = "overdue"
)

// Reminder records one notification owed for a schedule row. The
// (payment_id, reminder_type) uniqueness constraint is what keeps concurrent
// dispatcher runs from creating duplicates; do not replace it with an
// existence check.
type Reminder struct {
	ID           uint64     `gorm:"primaryKey;column:id" json:"-"`
	ReminderID   string     `gorm:"size:32;uniqueIndex:ux_reminders_reminder_id" json:"reminder_id"`
	LoanID       uint64     `gorm:"column:loan_id;index:idx_reminders_loan" json:"-"`
	PaymentID    uint64     `gorm:"column:payment_id;uniqueIndex:ux_reminders_payment_type" json:"-"`
	ReminderType Type       `gorm:"size:10;column:reminder_type;uniqueIndex:ux_reminders_payment_type" json:"reminder_type"`
	ReminderDate time.Time  `gorm:"type:date;column:reminder_date" json:"reminder_date"`
	Message      string     `gorm:"type:text" json:"message"`
	IsSent       bool       `gorm:"column:is_sent;default:false" json:"is_sent"`
	SentAt       *time.Time `gorm:"column:sent_at" json:"sent_at,omitempty"`
	ErrorMessage string     `gorm:"type:text;column:error_message" json:"error_message,omitempty"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`

	// Display-only, populated by the listing query.
	LoanName  string `gorm:"-" json:"loan_name,omitempty"`
	EMIAmount string `gorm:"-" json:"emi_amount,omitempty"`
}

func (Reminder) TableName() string { return "reminders" }
