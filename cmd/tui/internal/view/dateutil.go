package view

import (
	"fmt"
	"time"
)

// Period is a predefined or custom reporting range. Quarters and years
// follow the Indian financial year, which starts on 1 April.
type Period int

const (
	PeriodThisMonth Period = iota
	PeriodLastMonth
	PeriodThisQuarter
	PeriodLastQuarter
	PeriodFinancialYear
	PeriodAll
	PeriodCustom
)

func (p Period) String() string {
	switch p {
	case PeriodThisMonth:
		return "This Month"
	case PeriodLastMonth:
		return "Last Month"
	case PeriodThisQuarter:
		return "This Quarter"
	case PeriodLastQuarter:
		return "Last Quarter"
	case PeriodFinancialYear:
		return "This Financial Year"
	case PeriodAll:
		return "All Time"
	case PeriodCustom:
		return "Custom Range"
	}

	return "Unknown"
}

// PeriodRange returns the inclusive date range of p relative to now. It
// returns zero times for PeriodAll and PeriodCustom.
func PeriodRange(p Period, now time.Time) (time.Time, time.Time) {
	y, m := now.Year(), now.Month()

	var start, end time.Time

	switch p {
	case PeriodThisMonth:
		start = time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 1, -1)
	case PeriodLastMonth:
		start = time.Date(y, m-1, 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 1, -1)
	case PeriodThisQuarter, PeriodLastQuarter:
		start = time.Date(y, m-(m-1)%3, 1, 0, 0, 0, 0, time.UTC)
		if p == PeriodLastQuarter {
			start = start.AddDate(0, -3, 0)
		}

		end = start.AddDate(0, 3, -1)
	case PeriodFinancialYear:
		start = FinancialYearStart(now)
		end = start.AddDate(1, 0, -1)
	default:
		return time.Time{}, time.Time{}
	}

	return NormalizeDateRange(start, end)
}

// FinancialYearStart returns 1 April of the financial year containing t.
func FinancialYearStart(t time.Time) time.Time {
	y := t.Year()
	if t.Month() < time.April {
		y--
	}

	return time.Date(y, time.April, 1, 0, 0, 0, 0, time.UTC)
}

// FinancialYearLabel names the financial year containing t, e.g. "FY 2025-26".
func FinancialYearLabel(t time.Time) string {
	y := FinancialYearStart(t).Year()
	return fmt.Sprintf("FY %d-%02d", y, (y+1)%100)
}

func NormalizeDateRange(start, end time.Time) (time.Time, time.Time) {
	return time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC),
		time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 0, time.UTC)
}
