package engine

import (
	"time"

	"github.com/large-farva/heatwave-monitor/internal/config"
)

// PacePolicy maps simulated progress (0 at the start year, 1 at the end year)
// to the real-time interval in milliseconds between calendar ticks. Policies
// are pure functions so pacing is testable without a running clock.
type PacePolicy func(progress float64) float64

// ConstantPace ticks at a fixed interval regardless of progress.
func ConstantPace(intervalMS float64) PacePolicy {
	return func(float64) float64 { return intervalMS }
}

// SlowingPace grows the tick interval linearly from baseMS to maxMS as the
// timeline advances, so early decades flash past and recent ones linger.
func SlowingPace(baseMS, maxMS float64) PacePolicy {
	return func(progress float64) float64 {
		p := clamp(progress, 0, 1)
		return baseMS + p*(maxMS-baseMS)
	}
}

// EndPolicy decides what happens when the simulated date passes the final
// December of the end year.
type EndPolicy int

const (
	// EndLoop wraps the clock back to January of the start year and keeps
	// ticking.
	EndLoop EndPolicy = iota
	// EndStop halts the clock; Done reports true afterwards.
	EndStop
)

// Clock advances a simulated calendar by one month per qualifying tick. It
// does no scheduling of its own: the owner calls Tick with wall-clock
// milliseconds and the clock decides whether enough real time has elapsed.
type Clock struct {
	startYear int
	endYear   int
	pace      PacePolicy
	endPolicy EndPolicy

	current  time.Time
	lastTick int64

	running bool
	paused  bool
	done    bool
}

// NewClock builds a stopped clock positioned at January of the start year.
func NewClock(tc config.TimelineConfig) *Clock {
	var pace PacePolicy
	if tc.Pace == "constant" {
		pace = ConstantPace(float64(tc.BaseIntervalMS))
	} else {
		pace = SlowingPace(float64(tc.BaseIntervalMS), float64(tc.MaxIntervalMS))
	}
	endPolicy := EndLoop
	if tc.EndPolicy == "stop" {
		endPolicy = EndStop
	}

	c := &Clock{
		startYear: tc.StartYear,
		endYear:   tc.EndYear,
		pace:      pace,
		endPolicy: endPolicy,
	}
	c.current = monthStart(c.startYear, time.January)
	return c
}

// Start resets the clock to the start boundary and begins producing ticks.
// Calling Start while already running (and not paused) is a no-op; it
// reports whether the clock actually (re)started.
func (c *Clock) Start(nowMillis int64) bool {
	if c.running && !c.paused {
		return false
	}
	c.Reset(nowMillis)
	c.running = true
	return true
}

// Reset rewinds to January of the start year and clears the paused, done,
// and tick bookkeeping state. The running flag is left alone.
func (c *Clock) Reset(nowMillis int64) {
	c.current = monthStart(c.startYear, time.January)
	c.lastTick = nowMillis
	c.paused = false
	c.done = false
}

// Pause suspends ticking without moving the date. Idempotent.
func (c *Clock) Pause() { c.paused = true }

// Resume clears the paused flag. Calling it while not paused is a no-op.
func (c *Clock) Resume() { c.paused = false }

// Stop halts the clock entirely; only Start revives it.
func (c *Clock) Stop() { c.running = false }

func (c *Clock) Running() bool { return c.running }
func (c *Clock) Paused() bool  { return c.paused }

// Done reports whether the clock hit the end boundary under the stop policy.
func (c *Clock) Done() bool { return c.done }

// Current returns the simulated date, always the first of a month.
func (c *Clock) Current() time.Time { return c.current }

// Progress returns the fraction of the timeline already played, in [0,1].
func (c *Clock) Progress() float64 {
	totalMonths := (c.endYear - c.startYear + 1) * 12
	if totalMonths <= 0 {
		return 1
	}
	elapsed := (c.current.Year()-c.startYear)*12 + int(c.current.Month()) - 1
	return clamp(float64(elapsed)/float64(totalMonths), 0, 1)
}

// Tick advances the simulated date by one month if the clock is running,
// not paused, and at least the pace interval has elapsed since the previous
// qualifying tick. It reports whether the date advanced. After December of
// the end year the clock wraps or halts per its end policy; a wrap counts
// as an advance (the new current month is January of the start year), a
// halt does not (the current month stays December of the end year).
func (c *Clock) Tick(nowMillis int64) bool {
	if !c.running || c.paused || c.done {
		return false
	}

	interval := int64(c.pace(c.Progress()))
	if nowMillis-c.lastTick < interval {
		return false
	}

	c.lastTick = nowMillis
	c.current = c.current.AddDate(0, 1, 0)

	if c.current.Year() > c.endYear {
		if c.endPolicy == EndLoop {
			c.current = monthStart(c.startYear, time.January)
		} else {
			// Halt on the final in-range month; the date shown after
			// finishing must stay within [startYear, endYear].
			c.current = monthStart(c.endYear, time.December)
			c.done = true
			c.running = false
			return false
		}
	}
	return true
}

func monthStart(year int, month time.Month) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}
