package engine

import "time"

// findMatch returns the index of the first unconsumed event whose start date
// falls in the same year and month as the simulated date, or -1 if none.
// Events are scanned in dataset order, so when two events share a year-month
// key only the earlier one can ever match; the clock visits each month once
// per run, leaving the later duplicate unmatched. That collision is accepted,
// not resolved.
func findMatch(events []HeatwaveEvent, consumed []bool, date time.Time) int {
	for i, ev := range events {
		if consumed[i] || ev.StartDate.IsZero() {
			continue
		}
		if ev.StartDate.Year() == date.Year() && ev.StartDate.Month() == date.Month() {
			return i
		}
	}
	return -1
}
