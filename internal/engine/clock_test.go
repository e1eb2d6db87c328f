package engine

import (
	"testing"
	"time"
)

func testClock(endPolicy string) *Clock {
	tc := testConfig().Timeline
	tc.StartYear = 1911
	tc.EndYear = 1912
	tc.EndPolicy = endPolicy
	return NewClock(tc)
}

func TestClockTickAdvancesOneMonth(t *testing.T) {
	c := testClock("stop")
	c.Start(0)

	if c.Tick(5) {
		t.Error("tick before the pace interval elapsed should not advance")
	}
	if !c.Tick(10) {
		t.Error("tick at the pace interval should advance")
	}
	if got := c.Current(); got.Year() != 1911 || got.Month() != time.February {
		t.Errorf("current = %v, want 1911-02", got.Format("2006-01"))
	}

	// The next tick measures from the previous advance, not from zero.
	if c.Tick(15) {
		t.Error("tick 5ms after the previous advance should not advance")
	}
	if !c.Tick(20) {
		t.Error("tick 10ms after the previous advance should advance")
	}
}

func TestClockStartIsNotReentrant(t *testing.T) {
	c := testClock("stop")

	if !c.Start(0) {
		t.Fatal("first Start should start the clock")
	}
	c.Tick(10)
	c.Tick(20)

	if c.Start(30) {
		t.Error("Start while running should be a no-op")
	}
	if got := c.Current(); got.Month() != time.March {
		t.Errorf("no-op Start moved the date to %v", got.Format("2006-01"))
	}

	// An explicitly paused clock may be restarted.
	c.Pause()
	if !c.Start(40) {
		t.Error("Start while paused should restart")
	}
	if got := c.Current(); got.Year() != 1911 || got.Month() != time.January {
		t.Errorf("restart did not rewind: %v", got.Format("2006-01"))
	}
}

func TestClockPauseResumeIdempotence(t *testing.T) {
	c := testClock("stop")
	c.Start(0)
	c.Tick(10)
	date := c.Current()

	c.Pause()
	c.Pause() // double pause equals single pause
	if !c.Paused() {
		t.Fatal("clock should be paused")
	}
	if c.Tick(1000) {
		t.Error("paused clock must not advance")
	}
	if c.Current() != date {
		t.Error("pause must not move the date")
	}

	c.Resume()
	c.Resume() // resume when not paused is a no-op
	if c.Paused() {
		t.Fatal("clock should not be paused")
	}
	if !c.Tick(1010) {
		t.Error("resumed clock should advance again")
	}
}

func TestClockStopPolicyHaltsAtEndBoundary(t *testing.T) {
	c := testClock("stop")
	c.Start(0)

	// 1911-01 through 1912-12 is 23 advances; the 24th crosses the end.
	now := int64(0)
	for i := 0; i < 23; i++ {
		now += 10
		if !c.Tick(now) {
			t.Fatalf("advance %d did not tick", i)
		}
	}
	if got := c.Current(); got.Year() != 1912 || got.Month() != time.December {
		t.Fatalf("current = %v, want 1912-12", got.Format("2006-01"))
	}

	now += 10
	if c.Tick(now) {
		t.Error("crossing the end boundary under stop policy should not advance")
	}
	if !c.Done() || c.Running() {
		t.Errorf("clock should be done and stopped, done=%v running=%v", c.Done(), c.Running())
	}
	// The halted clock keeps reporting the final in-range month, never a
	// date past the end year.
	if got := c.Current(); got.Year() != 1912 || got.Month() != time.December {
		t.Errorf("current after done = %v, want 1912-12", got.Format("2006-01"))
	}
	if c.Tick(now + 1000) {
		t.Error("a done clock must never tick again")
	}
	if got := c.Current(); got.Year() != 1912 || got.Month() != time.December {
		t.Errorf("current after extra tick = %v, want still 1912-12", got.Format("2006-01"))
	}
}

func TestClockLoopPolicyWrapsToStart(t *testing.T) {
	c := testClock("loop")
	c.Start(0)

	now := int64(0)
	for i := 0; i < 23; i++ {
		now += 10
		c.Tick(now)
	}

	now += 10
	if !c.Tick(now) {
		t.Fatal("loop policy wrap should count as an advance")
	}
	if got := c.Current(); got.Year() != 1911 || got.Month() != time.January {
		t.Errorf("current = %v, want wrap to 1911-01", got.Format("2006-01"))
	}
	if c.Done() || !c.Running() {
		t.Errorf("looping clock should keep running, done=%v running=%v", c.Done(), c.Running())
	}
}

func TestPacePolicies(t *testing.T) {
	t.Run("Constant ignores progress", func(t *testing.T) {
		p := ConstantPace(40)
		for _, x := range []float64{0, 0.3, 1} {
			if got := p(x); got != 40 {
				t.Errorf("ConstantPace(40)(%v) = %v", x, got)
			}
		}
	})

	t.Run("Slowing is monotonic and hits both endpoints", func(t *testing.T) {
		p := SlowingPace(40, 160)
		if got := p(0); got != 40 {
			t.Errorf("p(0) = %v, want 40", got)
		}
		if got := p(1); got != 160 {
			t.Errorf("p(1) = %v, want 160", got)
		}
		prev := 0.0
		for x := 0.0; x <= 1.0; x += 0.05 {
			got := p(x)
			if got < prev {
				t.Fatalf("p(%v) = %v < previous %v", x, got, prev)
			}
			prev = got
		}
		// Out-of-range progress is clamped, not extrapolated.
		if got := p(2); got != 160 {
			t.Errorf("p(2) = %v, want clamp to 160", got)
		}
	})
}

func TestClockProgress(t *testing.T) {
	c := testClock("stop") // 1911-1912, 24 months
	c.Start(0)

	if got := c.Progress(); got != 0 {
		t.Errorf("initial progress = %v, want 0", got)
	}

	now := int64(0)
	for i := 0; i < 12; i++ {
		now += 10
		c.Tick(now)
	}
	if got := c.Progress(); got != 0.5 {
		t.Errorf("mid progress = %v, want 0.5", got)
	}
}
