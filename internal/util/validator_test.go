package util

import "testing"

func TestValidateAmountCents_Positive(t *testing.T) {
	testCases := []int64{1, 100, 10050, 999999999}

	for _, amount := range testCases {
		if err := ValidateAmountCents(amount); err != nil {
			t.Errorf("ValidateAmountCents(%d) error = %v, want nil", amount, err)
		}
	}
}

func TestValidateAmountCents_NotPositive(t *testing.T) {
	testCases := []int64{0, -1, -10000}

	for _, amount := range testCases {
		if err := ValidateAmountCents(amount); err == nil {
			t.Errorf("ValidateAmountCents(%d) error = nil, want error", amount)
		}
	}
}

func TestValidateAmountCents_TooLarge(t *testing.T) {
	if err := ValidateAmountCents(10_000_000 * 100); err == nil {
		t.Error("ValidateAmountCents(cap) error = nil, want error")
	}
}

func TestValidateDate(t *testing.T) {
	valid := []string{"2024-01-01", "2024-12-31", "2025-06-15"}
	for _, date := range valid {
		if err := ValidateDate(date); err != nil {
			t.Errorf("ValidateDate(%q) error = %v, want nil", date, err)
		}
	}

	invalid := []string{"", "2024/01/01", "01-01-2024", "2024-13-01", "yesterday"}
	for _, date := range invalid {
		if err := ValidateDate(date); err == nil {
			t.Errorf("ValidateDate(%q) error = nil, want error", date)
		}
	}
}

func TestValidateCategory(t *testing.T) {
	if err := ValidateCategory("groceries"); err != nil {
		t.Errorf("ValidateCategory(groceries) error = %v, want nil", err)
	}
	if err := ValidateCategory(""); err == nil {
		t.Error("ValidateCategory(empty) error = nil, want error")
	}
	if err := ValidateCategory("a-very-long-category-name-over-the-limit"); err == nil {
		t.Error("ValidateCategory(too long) error = nil, want error")
	}
}

func TestValidateTransactionType(t *testing.T) {
	for _, txnType := range []string{"INCOME", "EXPENSE"} {
		if err := ValidateTransactionType(txnType); err != nil {
			t.Errorf("ValidateTransactionType(%q) error = %v, want nil", txnType, err)
		}
	}
	for _, txnType := range []string{"", "income", "TRANSFER"} {
		if err := ValidateTransactionType(txnType); err == nil {
			t.Errorf("ValidateTransactionType(%q) error = nil, want error", txnType)
		}
	}
}

func TestValidateRecurringInterval(t *testing.T) {
	for _, interval := range []string{"DAILY", "WEEKLY", "MONTHLY", "YEARLY"} {
		if err := ValidateRecurringInterval(interval); err != nil {
			t.Errorf("ValidateRecurringInterval(%q) error = %v, want nil", interval, err)
		}
	}
	for _, interval := range []string{"", "daily", "HOURLY"} {
		if err := ValidateRecurringInterval(interval); err == nil {
			t.Errorf("ValidateRecurringInterval(%q) error = nil, want error", interval)
		}
	}
}
