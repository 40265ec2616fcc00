package service

import (
	"fmt"
	"time"
)

// ComputePeriod returns the rotation period active on today's date.
//
// The cycle index grows by one every periodDurationDays since the anchor
// date; the active period is the largest n in [1, numberOfPeriods] that
// evenly divides the cycle index, so period 1 is always reachable.
func ComputePeriod(numberOfPeriods, periodDurationDays int, anchor, today time.Time) (int, error) {
	if numberOfPeriods < 1 {
		return 0, fmt.Errorf("number of periods must be at least 1, got %d", numberOfPeriods)
	}
	if periodDurationDays < 1 {
		return 0, fmt.Errorf("period duration must be at least 1 day, got %d", periodDurationDays)
	}

	elapsed := daysBetween(anchor, today)
	if elapsed < 0 {
		return 0, fmt.Errorf("start of first period %s is after today", anchor.Format("2006/01/02"))
	}

	cycle := elapsed/periodDurationDays + 1
	for n := numberOfPeriods; n > 1; n-- {
		if cycle%n == 0 {
			return n, nil
		}
	}
	return 1, nil
}

// daysBetween counts whole calendar days from one date to another, ignoring
// the time of day and any DST shifts in between.
func daysBetween(from, to time.Time) int {
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a) / (24 * time.Hour))
}
