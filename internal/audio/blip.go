// Package audio plays the short cue sound that accompanies each triggered
// pulse. Playback is strictly fire-and-forget: if the speaker can't be
// initialized the cuer degrades to silent mode, and play failures are logged
// and dropped, never propagated to the animation.
package audio

import (
	"log"
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/large-farva/heatwave-monitor/internal/config"
)

// Cuer emits one pulse cue. Implementations must never block the caller for
// longer than queueing the sound.
type Cuer interface {
	Pulse()
}

// Nop is the cuer used when audio is disabled by config.
type Nop struct{}

func (Nop) Pulse() {}

// Blip synthesizes a short sine blip per pulse and plays it through the
// system speaker.
type Blip struct {
	cfg    config.AudioConfig
	log    *log.Logger
	rate   beep.SampleRate
	silent bool
}

// NewCuer initializes the speaker and returns a Blip, or a Nop when audio is
// disabled. Speaker init failure is non-fatal: the returned Blip is
// permanently silent and says so once in the log.
func NewCuer(cfg config.AudioConfig, logger *log.Logger) Cuer {
	if !cfg.Enabled {
		return Nop{}
	}

	b := &Blip{
		cfg:  cfg,
		log:  logger,
		rate: beep.SampleRate(cfg.SampleRate),
	}

	if err := speaker.Init(b.rate, b.rate.N(50*time.Millisecond)); err != nil {
		logger.Printf("audio: speaker init failed, running silent: %v", err)
		b.silent = true
	}
	return b
}

// Pulse queues one blip. Failures are swallowed.
func (b *Blip) Pulse() {
	if b.silent {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			b.log.Printf("audio: pulse cue failed: %v", r)
		}
	}()

	dur := time.Duration(b.cfg.BlipMS) * time.Millisecond
	s := newBlipStreamer(b.cfg.FreqHz, b.cfg.Volume, dur, b.rate)
	speaker.Play(s)
}

// blipStreamer is a sine oscillator with a linear attack/release envelope,
// the minimal shape that reads as a cardiac monitor beep.
type blipStreamer struct {
	freq    float64
	volume  float64
	rate    beep.SampleRate
	total   int
	attack  int
	release int
	pos     int
}

func newBlipStreamer(freq, volume float64, dur time.Duration, rate beep.SampleRate) beep.Streamer {
	total := rate.N(dur)
	attack := rate.N(5 * time.Millisecond)
	release := rate.N(30 * time.Millisecond)
	if attack+release > total {
		attack = total / 4
		release = total / 2
	}
	return &blipStreamer{
		freq:    freq,
		volume:  volume,
		rate:    rate,
		total:   total,
		attack:  attack,
		release: release,
	}
}

func (s *blipStreamer) Stream(samples [][2]float64) (int, bool) {
	if s.pos >= s.total {
		return 0, false
	}

	n := 0
	for i := range samples {
		if s.pos >= s.total {
			break
		}

		v := sineSample(s.freq, s.rate, s.pos) * s.volume * s.envelope()
		samples[i][0] = v
		samples[i][1] = v
		s.pos++
		n++
	}
	return n, true
}

func (s *blipStreamer) Err() error { return nil }

func (s *blipStreamer) envelope() float64 {
	switch {
	case s.attack > 0 && s.pos < s.attack:
		return float64(s.pos) / float64(s.attack)
	case s.release > 0 && s.pos >= s.total-s.release:
		return float64(s.total-s.pos) / float64(s.release)
	default:
		return 1
	}
}

func sineSample(freq float64, rate beep.SampleRate, pos int) float64 {
	t := float64(pos) / float64(rate)
	return math.Sin(2 * math.Pi * freq * t)
}
