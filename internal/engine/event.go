// Package engine implements the animation and timing core of the Heatwave
// Monitor: a simulated calendar clock, an event matcher, a trigger throttle,
// and the lifecycle of the animated heartbeat pulses. The engine is stepped
// by a single driver loop and never schedules anything itself, so all of its
// logic is testable with synthetic timestamps.
package engine

import (
	"time"

	"github.com/large-farva/heatwave-monitor/internal/config"
)

// HeatwaveEvent is one historical heatwave record. Events are immutable once
// loaded; the session tracks match state separately.
type HeatwaveEvent struct {
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	DurationDays int       `json:"duration_days"`
	TropicalDays int       `json:"tropical_days"`
	PeakTemp     float64   `json:"peak_temp"`
}

// Year returns the calendar year the heatwave started in, or 0 for records
// whose start date failed to parse upstream.
func (e HeatwaveEvent) Year() int {
	if e.StartDate.IsZero() {
		return 0
	}
	return e.StartDate.Year()
}

// WaveformParams holds the five PQRST amplitudes plus presentation values for
// one event's pulse. Derived once per event, immutable afterwards.
type WaveformParams struct {
	PHeight float64 `json:"p_height"`
	QDepth  float64 `json:"q_depth"`
	RHeight float64 `json:"r_height"`
	SDepth  float64 `json:"s_depth"`
	THeight float64 `json:"t_height"`

	Color        string  `json:"color"`
	Opacity      float64 `json:"opacity"`
	DurationDays int     `json:"duration_days"`
}

// Base magnitudes for the minor waves, in pixels at intensity 1.0. Only the
// R spike carries meaning (peak temperature); the rest exist to make the
// trace read as a cardiogram.
const (
	basePHeight = 12.0
	baseQDepth  = 16.0
	baseSDepth  = 22.0
	baseTHeight = 15.0
)

// DeriveParams maps an event to its waveform parameters. The R height is
// linear in peak temperature over the configured reference range, clamped at
// both ends. The minor amplitudes all scale from one random intensity factor
// so a single pulse looks internally consistent rather than assembled from
// unrelated noise.
func DeriveParams(ev HeatwaveEvent, cfg config.WaveformConfig, rnd Rand) WaveformParams {
	intensity := cfg.IntensityMin + rnd.Float64()*(cfg.IntensityMax-cfg.IntensityMin)

	return WaveformParams{
		PHeight:      basePHeight * intensity,
		QDepth:       baseQDepth * intensity,
		RHeight:      RHeightFor(ev.PeakTemp, cfg),
		SDepth:       baseSDepth * intensity,
		THeight:      baseTHeight * intensity,
		Color:        colorFor(ev.PeakTemp),
		Opacity:      0.9, // default; the session overrides this from pulse config
		DurationDays: ev.DurationDays,
	}
}

// RHeightFor scales a peak temperature to an R-spike height in pixels.
// Temperatures are clamped to [TempMin, TempMax] before scaling, so the
// result exactly reaches RHeightMin and RHeightMax at the range endpoints.
func RHeightFor(peakTemp float64, cfg config.WaveformConfig) float64 {
	t := clamp(peakTemp, cfg.TempMin, cfg.TempMax)
	frac := (t - cfg.TempMin) / (cfg.TempMax - cfg.TempMin)
	return cfg.RHeightMin + frac*(cfg.RHeightMax-cfg.RHeightMin)
}

// colorFor buckets a peak temperature into a display color, cool amber
// through deep red.
func colorFor(peakTemp float64) string {
	switch {
	case peakTemp < 33:
		return "#ffb74d"
	case peakTemp < 36:
		return "#ff9800"
	case peakTemp < 39:
		return "#f4511e"
	default:
		return "#d32f2f"
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
