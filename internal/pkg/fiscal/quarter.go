package fiscal

import (
	"fmt"
	"time"
)

// Quarter is one three-month window of the fiscal year. The fiscal year
// starts in April: Q1 = Apr-Jun, Q2 = Jul-Sep, Q3 = Oct-Dec, Q4 = Jan-Mar.
// Q4 belongs to the fiscal year that started the previous April, but its
// boundary dates use the current calendar year.
type Quarter struct {
	Label string    `json:"label"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Key identifies the quarter for idempotency ledgers, e.g. "2025-26-Q3".
func (q Quarter) Key(at time.Time) string {
	return FiscalYearLabel(at) + "-" + q.Label
}

// Resolve maps a calendar date to its fiscal quarter. Total: every month
// maps to exactly one quarter.
func Resolve(at time.Time) Quarter {
	year := at.Year()

	switch at.Month() {
	case time.April, time.May, time.June:
		return Quarter{
			Label: "Q1",
			Start: date(year, time.April, 1),
			End:   date(year, time.June, 30),
		}
	case time.July, time.August, time.September:
		return Quarter{
			Label: "Q2",
			Start: date(year, time.July, 1),
			End:   date(year, time.September, 30),
		}
	case time.October, time.November, time.December:
		return Quarter{
			Label: "Q3",
			Start: date(year, time.October, 1),
			End:   date(year, time.December, 31),
		}
	default: // January, February, March
		return Quarter{
			Label: "Q4",
			Start: date(year, time.January, 1),
			End:   date(year, time.March, 31),
		}
	}
}

// FiscalYearLabel derives the "2025-26" style label. For Q4 (Jan-Mar) the
// fiscal year began the previous April, so the calendar year is shifted
// back by one.
func FiscalYearLabel(at time.Time) string {
	startYear := at.Year()
	if at.Month() <= time.March {
		startYear--
	}
	return fmt.Sprintf("%d-%02d", startYear, (startYear+1)%100)
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
