package models

import "time"

// Transaction types. Amount is always positive; the type carries the sign.
const (
	TransactionTypeIncome  = "INCOME"
	TransactionTypeExpense = "EXPENSE"
)

// Recurrence intervals.
const (
	IntervalDaily   = "DAILY"
	IntervalWeekly  = "WEEKLY"
	IntervalMonthly = "MONTHLY"
	IntervalYearly  = "YEARLY"
)

// Transaction represents a single income or expense record.
type Transaction struct {
	ID          uint      `gorm:"primaryKey"`
	UserID      uint      `gorm:"index;not null"`
	AccountID   uint      `gorm:"index;not null"`
	Type        string    `gorm:"size:16;index;not null"` // INCOME / EXPENSE
	AmountCent  int64     `gorm:"not null"`               // store in cents to avoid float
	Date        time.Time `gorm:"index;not null"`
	Category    string    `gorm:"size:32;not null"`
	Description string    `gorm:"size:255"`

	IsRecurring       bool       `gorm:"index"`
	RecurringInterval string     `gorm:"size:16"` // DAILY / WEEKLY / MONTHLY / YEARLY
	NextRecurringDate *time.Time `gorm:"index"`   // set iff recurring

	CreatedAt time.Time
	UpdatedAt time.Time

	Account Account `gorm:"constraint:OnDelete:CASCADE"`
}

// SignedCents returns the transaction's contribution to its account balance.
func (t *Transaction) SignedCents() int64 {
	if t.Type == TransactionTypeExpense {
		return -t.AmountCent
	}
	return t.AmountCent
}
