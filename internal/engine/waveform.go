package engine

import "github.com/large-farva/heatwave-monitor/internal/config"

// Anchor is one point of a waveform path. X is a fraction of the pulse's
// horizontal extent in [0,1]; Y is a vertical pixel offset from the baseline,
// positive up.
type Anchor struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Path is an ordered PQRST trace plus the horizontal scale the renderer
// should apply to the pulse's full extent. Anchors, in order: baseline
// lead-in, P bump, PR flat, Q dip, R spike, S dip, ST flat, T bump,
// baseline trail-out.
type Path struct {
	Anchors    []Anchor `json:"anchors"`
	WidthScale float64  `json:"width_scale"`
}

// JitterMode selects between the exact anchor layout and one with bounded
// random perturbation.
type JitterMode int

const (
	Clean JitterMode = iota
	Noisy
)

// Horizontal anchor fractions of the stylized PQRST trace.
var anchorX = [13]float64{
	0.00, 0.12, // lead-in
	0.18, 0.24, // P bump, return
	0.30,       // PR flat
	0.34,       // Q dip
	0.38,       // R spike
	0.42,       // S dip
	0.50, 0.58, // ST flat
	0.66, 0.74, // T bump, return
	1.00, // trail-out
}

// flatSpans lists runs of consecutive baseline anchors. In noisy mode each
// span shares one drift offset so the baseline wanders instead of jumping
// between adjacent flat segments.
var flatSpans = [4][2]int{{0, 1}, {3, 4}, {8, 9}, {11, 12}}

// Jitter bounds for noisy mode.
const (
	jitterX    = 0.008 // max horizontal perturbation, fraction of extent
	jitterY    = 2.0   // max vertical perturbation, px
	driftY     = 1.5   // max shared baseline drift per flat span, px
	defaultDur = 5     // days, substituted for missing/non-positive durations
)

// Generate produces the path for one pulse. Clean mode is a pure function of
// params and never consults rnd (which may be nil); noisy mode perturbs every
// anchor within fixed bounds using the injected source. Zero amplitudes are
// valid and yield a flat trace.
func Generate(p WaveformParams, cfg config.WaveformConfig, mode JitterMode, rnd Rand) Path {
	y := [13]float64{}
	y[2] = p.PHeight
	y[5] = -p.QDepth
	y[6] = p.RHeight
	y[7] = -p.SDepth
	y[10] = p.THeight

	anchors := make([]Anchor, len(anchorX))
	for i := range anchorX {
		anchors[i] = Anchor{X: anchorX[i], Y: y[i]}
	}

	if mode == Noisy {
		for i := range anchors {
			anchors[i].X += (rnd.Float64()*2 - 1) * jitterX
			anchors[i].Y += (rnd.Float64()*2 - 1) * jitterY
		}
		for _, span := range flatSpans {
			drift := (rnd.Float64()*2 - 1) * driftY
			for i := span[0]; i <= span[1]; i++ {
				anchors[i].Y += drift
			}
		}
	}

	return Path{
		Anchors:    anchors,
		WidthScale: WidthScaleFor(p.DurationDays, cfg),
	}
}

// WidthScaleFor maps an event duration to the horizontal scale of its pulse.
// Durations are clamped to [DurationMin, DurationMax] and interpolated into
// [WidthScaleMin, WidthScaleMax]; non-positive durations behave as the
// default duration.
func WidthScaleFor(durationDays int, cfg config.WaveformConfig) float64 {
	if durationDays <= 0 {
		durationDays = defaultDur
	}
	if cfg.DurationMax == cfg.DurationMin {
		return cfg.WidthScaleMin
	}
	d := clamp(float64(durationDays), float64(cfg.DurationMin), float64(cfg.DurationMax))
	frac := (d - float64(cfg.DurationMin)) / float64(cfg.DurationMax-cfg.DurationMin)
	return cfg.WidthScaleMin + frac*(cfg.WidthScaleMax-cfg.WidthScaleMin)
}
