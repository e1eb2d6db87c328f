package engine

import (
	"time"

	"github.com/large-farva/heatwave-monitor/internal/config"
)

// Session is the animation aggregate: the timeline clock, the event match
// state, the trigger queue, and the active pulse set, owned together so a
// restart can never leak state between runs. A session is stepped by exactly
// one driver loop; control operations only flip flags that the next Step
// observes, so no locking is needed inside the engine.
type Session struct {
	cfg config.Config
	rnd Rand

	events   []HeatwaveEvent
	consumed []bool
	warning  string

	clock  *Clock
	queue  *pulseQueue
	pulses []*Pulse

	nextPulseID int
	matched     []HeatwaveEvent

	// onPulse is invoked for every triggered pulse, fire-and-forget. The
	// app layer uses it for the audio cue and the pulse telemetry event.
	onPulse func(*Pulse, HeatwaveEvent)
}

// NewSession builds a stopped session over the given events. The warning
// string carries a non-fatal dataset problem (e.g. fallback data in use)
// through to the render surface.
func NewSession(cfg config.Config, events []HeatwaveEvent, warning string, rnd Rand) *Session {
	return &Session{
		cfg:      cfg,
		rnd:      rnd,
		events:   events,
		consumed: make([]bool, len(events)),
		warning:  warning,
		clock:    NewClock(cfg.Timeline),
		queue:    newPulseQueue(int64(cfg.Pulse.MinSpacingMS)),
	}
}

// SetPulseCallback registers the fire-and-forget trigger hook. Must be set
// before the first Step.
func (s *Session) SetPulseCallback(fn func(*Pulse, HeatwaveEvent)) {
	s.onPulse = fn
}

// Start resets the clock to the start year and clears every piece of derived
// state: match flags, pending queue, active pulses, history. A Start while
// already running (and not paused) is a no-op; it reports whether the session
// actually started.
func (s *Session) Start(nowMillis int64) bool {
	if !s.clock.Start(nowMillis) {
		return false
	}
	s.consumed = make([]bool, len(s.events))
	s.queue.reset()
	s.pulses = nil
	s.matched = nil
	s.nextPulseID = 0
	return true
}

// Restart unconditionally stops the session and starts it from the beginning.
func (s *Session) Restart(nowMillis int64) {
	s.clock.Stop()
	s.Start(nowMillis)
}

// Pause freezes the clock without touching the date, the queue, or the
// active pulses. Idempotent.
func (s *Session) Pause() { s.clock.Pause() }

// Resume undoes Pause. Calling it while not paused is a no-op.
func (s *Session) Resume() { s.clock.Resume() }

func (s *Session) Running() bool { return s.clock.Running() }
func (s *Session) Paused() bool  { return s.clock.Paused() }

// Finished reports whether the clock hit the end boundary under the stop
// policy. Pulses may still be animating after that.
func (s *Session) Finished() bool { return s.clock.Done() }

// Active reports whether stepping still has work to do: a running clock or
// pulses that haven't finished fading.
func (s *Session) Active() bool {
	return s.clock.Running() || len(s.pulses) > 0
}

// Warning returns the non-fatal dataset warning, if any.
func (s *Session) Warning() string { return s.warning }

// Events returns the loaded dataset. Callers must not mutate it.
func (s *Session) Events() []HeatwaveEvent { return s.events }

// Matched returns the events triggered so far this run, in trigger order.
func (s *Session) Matched() []HeatwaveEvent { return s.matched }

// CurrentDate returns the simulated calendar date.
func (s *Session) CurrentDate() time.Time { return s.clock.Current() }

// Step advances the whole session by one frame. Order within a step is
// fixed: clock advance, then event matching, then queue drain, then pulse
// animation. The clock may decline to advance (pace interval not yet
// elapsed, paused, finished) while pulses keep animating.
func (s *Session) Step(nowMillis int64) {
	if s.clock.Tick(nowMillis) {
		if i := findMatch(s.events, s.consumed, s.clock.Current()); i >= 0 {
			s.consumed[i] = true
			s.matched = append(s.matched, s.events[i])
			params := DeriveParams(s.events[i], s.cfg.Waveform, s.rnd)
			params.Opacity = s.cfg.Pulse.Opacity
			s.queue.enqueue(params)
		}
	}

	if params, ok := s.queue.drain(nowMillis); ok {
		s.trigger(params)
	}

	s.advancePulses()
}

func (s *Session) trigger(params WaveformParams) {
	mode := Clean
	if s.cfg.Waveform.Jitter {
		mode = Noisy
	}

	p := &Pulse{
		ID:     s.nextPulseID,
		Params: params,
		Path:   Generate(params, s.cfg.Waveform, mode, s.rnd),
		Phase:  PhaseDrawing,
	}
	s.nextPulseID++
	s.pulses = append(s.pulses, p)

	if s.onPulse != nil {
		// Triggers drain in match order, so the nth pulse is the nth
		// matched event.
		var ev HeatwaveEvent
		if p.ID < len(s.matched) {
			ev = s.matched[p.ID]
		}
		s.onPulse(p, ev)
	}
}

func (s *Session) advancePulses() {
	alive := s.pulses[:0]
	for _, p := range s.pulses {
		if !p.advance(s.cfg.Pulse.DrawStep, s.cfg.Pulse.FadeStep) {
			alive = append(alive, p)
		}
	}
	for i := len(alive); i < len(s.pulses); i++ {
		s.pulses[i] = nil
	}
	s.pulses = alive
}

// PulseView is the per-pulse slice of a frame snapshot, everything the
// renderer needs to stroke one heartbeat.
type PulseView struct {
	ID      int     `json:"id"`
	Path    Path    `json:"path"`
	Reveal  float64 `json:"reveal"`
	Opacity float64 `json:"opacity"`
	Color   string  `json:"color"`
	Phase   string  `json:"phase"`
}

// Frame is the immutable per-frame snapshot exposed to the render surface.
type Frame struct {
	Date         string      `json:"date"` // simulated, YYYY-MM
	Running      bool        `json:"running"`
	Paused       bool        `json:"paused"`
	Finished     bool        `json:"finished"`
	Warning      string      `json:"warning,omitempty"`
	Pulses       []PulseView `json:"pulses"`
	QueuedPulses int         `json:"queued_pulses"`
	MatchedCount int         `json:"matched_count"`
	TotalEvents  int         `json:"total_events"`
}

// Frame captures the session state for rendering. The snapshot shares no
// mutable memory with the session.
func (s *Session) Frame() Frame {
	views := make([]PulseView, len(s.pulses))
	for i, p := range s.pulses {
		views[i] = PulseView{
			ID:      p.ID,
			Path:    p.Path,
			Reveal:  p.Reveal(),
			Opacity: p.Opacity(),
			Color:   p.Params.Color,
			Phase:   p.Phase.String(),
		}
	}

	return Frame{
		Date:         s.clock.Current().Format("2006-01"),
		Running:      s.clock.Running(),
		Paused:       s.clock.Paused(),
		Finished:     s.clock.Done(),
		Warning:      s.warning,
		Pulses:       views,
		QueuedPulses: s.queue.len(),
		MatchedCount: len(s.matched),
		TotalEvents:  len(s.events),
	}
}
