package ledger

import (
	"time"

	"github.com/aastha-raghuvanshi/welth/internal/models"
)

// NextRecurringDate projects the next occurrence of a recurring transaction.
// Month and year steps use time.AddDate normalization, so overflowing days
// roll into the following month (Jan 31 + 1 month = Mar 2 or Mar 3,
// Feb 29 + 1 year = Mar 1). One rule, applied everywhere.
//
// An unknown interval returns start unchanged; callers validate the interval
// before storing it, so this branch is never reached with persisted data.
func NextRecurringDate(start time.Time, interval string) time.Time {
	switch interval {
	case models.IntervalDaily:
		return start.AddDate(0, 0, 1)
	case models.IntervalWeekly:
		return start.AddDate(0, 0, 7)
	case models.IntervalMonthly:
		return start.AddDate(0, 1, 0)
	case models.IntervalYearly:
		return start.AddDate(1, 0, 0)
	}
	return start
}
