package engine

import (
	"github.com/large-farva/heatwave-monitor/internal/config"
)

// fixedRand always returns the same value. A value of 0.5 makes every
// symmetric perturbation (2*v - 1) collapse to zero.
type fixedRand struct{ v float64 }

func (r fixedRand) Float64() float64 { return r.v }

// seqRand cycles through a fixed sequence of values.
type seqRand struct {
	vals []float64
	i    int
}

func (r *seqRand) Float64() float64 {
	v := r.vals[r.i%len(r.vals)]
	r.i++
	return v
}

// testConfig returns a config tuned for fast deterministic stepping: a
// constant 10ms calendar tick, no throttling delays beyond the documented
// spacing, and draw/fade steps that complete in a handful of frames.
func testConfig() config.Config {
	cfg := config.Default()
	cfg.Timeline.StartYear = 1911
	cfg.Timeline.EndYear = 1925
	cfg.Timeline.Pace = "constant"
	cfg.Timeline.BaseIntervalMS = 10
	cfg.Timeline.MaxIntervalMS = 10
	cfg.Timeline.EndPolicy = "stop"
	cfg.Pulse.MinSpacingMS = 400
	cfg.Pulse.DrawStep = 0.5
	cfg.Pulse.FadeStep = 0.5
	cfg.Waveform.Jitter = false
	return cfg
}
