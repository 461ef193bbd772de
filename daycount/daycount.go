// Package daycount converts calendar periods into fractional-year accruals
// under named market conventions.
package daycount

import (
	"errors"
	"fmt"
	"time"

	"github.com/meenmo/depolib/instrument"
)

// ErrUnsupportedConvention is returned for a convention with no accrual rule.
var ErrUnsupportedConvention = errors.New("unsupported day count convention")

// Fraction computes the accrual fraction from start to end.
//
// Supported conventions:
//   - ACT/360, ACT/365: calendar days over a fixed denominator
//   - 30/360: US (NASD) convention with the 31st-day adjustments
//   - ACT/ACT: ISDA actual/actual — the period is split at calendar-year
//     boundaries and each year's days are divided by that year's length
//     (365 or 366)
func Fraction(start, end time.Time, convention instrument.Convention) (float64, error) {
	switch convention {
	case instrument.ACT360:
		return float64(daysBetween(start, end)) / 360.0, nil
	case instrument.ACT365:
		return float64(daysBetween(start, end)) / 365.0, nil
	case instrument.Thirty360:
		return thirty360US(start, end), nil
	case instrument.ActAct:
		return actActISDA(start, end), nil
	default:
		return 0, fmt.Errorf("daycount.Fraction: %w: %q", ErrUnsupportedConvention, convention)
	}
}

func daysBetween(start, end time.Time) int {
	return int(end.Sub(start).Hours() / 24)
}

// thirty360US applies the US (NASD) 30/360 rule:
//
//	d1 = 30 if start falls on the 31st, else start.Day
//	d2 = 30 if end falls on the 31st and d1 >= 30, else end.Day
func thirty360US(start, end time.Time) float64 {
	y1, m1, d1 := start.Year(), int(start.Month()), start.Day()
	y2, m2, d2 := end.Year(), int(end.Month()), end.Day()

	if d1 == 31 {
		d1 = 30
	}
	if d2 == 31 && d1 >= 30 {
		d2 = 30
	}

	return float64(360*(y2-y1)+30*(m2-m1)+(d2-d1)) / 360.0
}

func actActISDA(start, end time.Time) float64 {
	if !end.After(start) {
		return 0
	}
	if start.Year() == end.Year() {
		return float64(daysBetween(start, end)) / yearLength(start.Year())
	}

	// First partial year, whole intermediate years, last partial year.
	frac := float64(daysBetween(start, startOfYear(start.Year()+1))) / yearLength(start.Year())
	frac += float64(end.Year() - start.Year() - 1)
	frac += float64(daysBetween(startOfYear(end.Year()), end)) / yearLength(end.Year())
	return frac
}

func startOfYear(year int) time.Time {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
}

func yearLength(year int) float64 {
	if isLeap(year) {
		return 366.0
	}
	return 365.0
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
