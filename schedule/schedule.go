// Package schedule generates coupon payment dates for an instrument.
package schedule

import (
	"errors"
	"fmt"
	"time"

	"github.com/meenmo/depolib/instrument"
	"github.com/meenmo/depolib/utils"
)

// ErrUnsupportedFrequency is returned for frequencies with no calendar step
// (daily and weekly schedules are not generated).
var ErrUnsupportedFrequency = errors.New("unsupported payment frequency")

// Generate produces the ordered payment dates from start to end at the given
// frequency. The sequence includes start, steps by whole months with EDATE
// day-of-month semantics, and always terminates exactly at end: if the last
// step overshoots, end itself is appended.
func Generate(start, end time.Time, frequency instrument.Frequency) ([]time.Time, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("schedule.Generate: end %s before start %s",
			end.Format("2006-01-02"), start.Format("2006-01-02"))
	}

	months, ok := stepMonths(frequency)
	if !ok {
		return nil, fmt.Errorf("schedule.Generate: %w: %q", ErrUnsupportedFrequency, frequency)
	}

	var dates []time.Time
	for current := start; !current.After(end); current = utils.AddMonth(current, months) {
		dates = append(dates, current)
	}
	if !dates[len(dates)-1].Equal(end) {
		dates = append(dates, end)
	}
	return dates, nil
}

func stepMonths(f instrument.Frequency) (int, bool) {
	switch f {
	case instrument.Monthly:
		return 1, true
	case instrument.Quarterly:
		return 3, true
	case instrument.SemiAnnual:
		return 6, true
	case instrument.Annual:
		return 12, true
	default:
		return 0, false
	}
}
