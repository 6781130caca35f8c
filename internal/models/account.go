package models

import "time"

// Account types.
const (
	AccountTypeCurrent = "CURRENT"
	AccountTypeSavings = "SAVINGS"
)

// Account is a user's financial account. BalanceCent is kept consistent with
// the signed sum of the account's transactions by the ledger service; nothing
// else writes it.
type Account struct {
	ID          uint   `gorm:"primaryKey"`
	UserID      uint   `gorm:"index;not null"`
	Name        string `gorm:"size:64;not null"`
	Type        string `gorm:"size:16;not null;default:CURRENT"`
	BalanceCent int64  `gorm:"not null;default:0"` // store in cents to avoid float
	Currency    string `gorm:"size:8;default:USD"`
	IsDefault   bool   `gorm:"index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	User User `gorm:"constraint:OnDelete:CASCADE"`
}
