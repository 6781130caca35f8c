package util

import (
	"fmt"
	"time"

	"github.com/aastha-raghuvanshi/welth/internal/models"
)

// maxAmountCent caps a single transaction at 10 million units.
const maxAmountCent = 10_000_000 * 100

// ValidateAmountCents checks a transaction amount (positive, below the cap).
func ValidateAmountCents(cents int64) error {
	if cents <= 0 {
		return fmt.Errorf("amount must be positive, got %d", cents)
	}
	if cents >= maxAmountCent {
		return fmt.Errorf("amount too large, got %d", cents)
	}
	return nil
}

// ValidateDate checks a date string (must be YYYY-MM-DD).
func ValidateDate(dateStr string) error {
	if dateStr == "" {
		return fmt.Errorf("date is empty")
	}
	_, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return fmt.Errorf("invalid date format: %w", err)
	}
	return nil
}

// ValidateCategory checks a category label (non-empty, reasonable length).
func ValidateCategory(category string) error {
	if category == "" {
		return fmt.Errorf("category is empty")
	}
	if len(category) > 32 {
		return fmt.Errorf("category too long, max 32 characters")
	}
	return nil
}

// ValidateTransactionType checks the signed-category type.
func ValidateTransactionType(txnType string) error {
	switch txnType {
	case models.TransactionTypeIncome, models.TransactionTypeExpense:
		return nil
	}
	return fmt.Errorf("invalid transaction type %q", txnType)
}

// ValidateRecurringInterval checks a recurrence interval.
func ValidateRecurringInterval(interval string) error {
	switch interval {
	case models.IntervalDaily, models.IntervalWeekly, models.IntervalMonthly, models.IntervalYearly:
		return nil
	}
	return fmt.Errorf("invalid recurring interval %q", interval)
}
