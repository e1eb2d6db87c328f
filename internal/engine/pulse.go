package engine

// PulsePhase is the lifecycle stage of an on-screen pulse.
type PulsePhase int

const (
	PhaseDrawing PulsePhase = iota
	PhaseFading
)

func (p PulsePhase) String() string {
	if p == PhaseDrawing {
		return "drawing"
	}
	return "fading"
}

// Pulse is one animated rendering of a single event's waveform. It draws in
// from left to right, then fades out, then is removed from the active set.
// The path is generated once at trigger time so noisy jitter stays stable
// over the pulse's lifetime instead of shimmering every frame.
type Pulse struct {
	ID     int
	Params WaveformParams
	Path   Path

	Phase        PulsePhase
	DrawProgress float64
	FadeProgress float64
}

// advance moves the pulse forward one frame and reports whether it has
// finished fading and should be removed.
func (p *Pulse) advance(drawStep, fadeStep float64) bool {
	switch p.Phase {
	case PhaseDrawing:
		p.DrawProgress += drawStep
		if p.DrawProgress >= 1 {
			p.DrawProgress = 1
			p.Phase = PhaseFading
		}
	case PhaseFading:
		p.FadeProgress += fadeStep
		if p.FadeProgress >= 1 {
			p.FadeProgress = 1
			return true
		}
	}
	return false
}

// Reveal is the fraction of the path the renderer should show, driven by the
// draw-in phase.
func (p *Pulse) Reveal() float64 { return p.DrawProgress }

// Opacity is the display opacity for the current frame: the configured
// opacity, attenuated once the fade phase begins.
func (p *Pulse) Opacity() float64 {
	if p.Phase == PhaseFading {
		return p.Params.Opacity * (1 - p.FadeProgress)
	}
	return p.Params.Opacity
}
