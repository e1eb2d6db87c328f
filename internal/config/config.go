// Package config handles loading, defaulting, and validation of the Heatwave
// Monitor TOML configuration file. Every section maps to a typed struct so the
// rest of the codebase gets strong typing without manual key lookups.
package config

import (
	"errors"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config is the top-level configuration, mirroring the TOML sections.
type Config struct {
	Server   ServerConfig   `toml:"server"   json:"server"`
	Logging  LoggingConfig  `toml:"logging"  json:"logging"`
	Dataset  DatasetConfig  `toml:"dataset"  json:"dataset"`
	Timeline TimelineConfig `toml:"timeline" json:"timeline"`
	Pulse    PulseConfig    `toml:"pulse"    json:"pulse"`
	Waveform WaveformConfig `toml:"waveform" json:"waveform"`
	Audio    AudioConfig    `toml:"audio"    json:"audio"`
}

type ServerConfig struct {
	Bind string `toml:"bind" json:"bind"`
}

type LoggingConfig struct {
	Level string `toml:"level" json:"level"`
}

type DatasetConfig struct {
	URL           string `toml:"url"            json:"url"`
	CacheDir      string `toml:"cache_dir"      json:"cache_dir"`
	RefreshHours  int    `toml:"refresh_hours"  json:"refresh_hours"`
	FallbackCount int    `toml:"fallback_count" json:"fallback_count"`
}

type TimelineConfig struct {
	StartYear int `toml:"start_year" json:"start_year"`
	EndYear   int `toml:"end_year"   json:"end_year"`

	// Pace selects how the simulated clock speed evolves over the run:
	// "constant" keeps one tick interval, "slowing" grows it linearly with
	// progress so later decades play out slower.
	Pace           string `toml:"pace"             json:"pace"`
	BaseIntervalMS int    `toml:"base_interval_ms" json:"base_interval_ms"`
	MaxIntervalMS  int    `toml:"max_interval_ms"  json:"max_interval_ms"`

	// EndPolicy is "loop" (wrap back to start_year) or "stop" (halt after the
	// final December).
	EndPolicy string `toml:"end_policy" json:"end_policy"`
	Autostart bool   `toml:"autostart"  json:"autostart"`
}

type PulseConfig struct {
	MinSpacingMS    int     `toml:"min_spacing_ms"    json:"min_spacing_ms"`
	FrameIntervalMS int     `toml:"frame_interval_ms" json:"frame_interval_ms"`
	DrawStep        float64 `toml:"draw_step"         json:"draw_step"`
	FadeStep        float64 `toml:"fade_step"         json:"fade_step"`
	Opacity         float64 `toml:"opacity"           json:"opacity"`
}

type WaveformConfig struct {
	TempMin float64 `toml:"temp_min" json:"temp_min"`
	TempMax float64 `toml:"temp_max" json:"temp_max"`

	RHeightMin float64 `toml:"r_height_min" json:"r_height_min"`
	RHeightMax float64 `toml:"r_height_max" json:"r_height_max"`

	// Events shorter than DurationMin days render at WidthScaleMin, longer
	// than DurationMax at WidthScaleMax, linear in between.
	DurationMin   int     `toml:"duration_min"    json:"duration_min"`
	DurationMax   int     `toml:"duration_max"    json:"duration_max"`
	WidthScaleMin float64 `toml:"width_scale_min" json:"width_scale_min"`
	WidthScaleMax float64 `toml:"width_scale_max" json:"width_scale_max"`

	IntensityMin float64 `toml:"intensity_min" json:"intensity_min"`
	IntensityMax float64 `toml:"intensity_max" json:"intensity_max"`

	Jitter bool `toml:"jitter" json:"jitter"`
}

type AudioConfig struct {
	Enabled    bool    `toml:"enabled"     json:"enabled"`
	SampleRate int     `toml:"sample_rate" json:"sample_rate"`
	FreqHz     float64 `toml:"freq_hz"     json:"freq_hz"`
	BlipMS     int     `toml:"blip_ms"     json:"blip_ms"`
	Volume     float64 `toml:"volume"      json:"volume"`
}

// Default returns a Config populated with sane defaults. Values here are
// used whenever the TOML file omits a field.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Bind: "0.0.0.0:8080",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Dataset: DatasetConfig{
			URL:           "https://cdn.knmi.nl/knmi/map/page/klimatologie/gegevens/lijsten/hittegolven.csv",
			CacheDir:      "/var/lib/heatwave",
			RefreshHours:  24,
			FallbackCount: 30,
		},
		Timeline: TimelineConfig{
			StartYear:      1911,
			EndYear:        2025,
			Pace:           "slowing",
			BaseIntervalMS: 40,
			MaxIntervalMS:  160,
			EndPolicy:      "loop",
			Autostart:      true,
		},
		Pulse: PulseConfig{
			MinSpacingMS:    400,
			FrameIntervalMS: 16,
			DrawStep:        0.02,
			FadeStep:        0.008,
			Opacity:         0.9,
		},
		Waveform: WaveformConfig{
			TempMin:       30,
			TempMax:       42,
			RHeightMin:    50,
			RHeightMax:    150,
			DurationMin:   1,
			DurationMax:   30,
			WidthScaleMin: 0.5,
			WidthScaleMax: 1.0,
			IntensityMin:  0.3,
			IntensityMax:  1.0,
			Jitter:        true,
		},
		Audio: AudioConfig{
			Enabled:    true,
			SampleRate: 44100,
			FreqHz:     880,
			BlipMS:     90,
			Volume:     0.5,
		},
	}
}

// Load reads the TOML file at path, layers it on top of the defaults, and
// validates the result. An error is returned if the file can't be read,
// parsed, or if any constraint is violated.
func Load(path string) (Config, error) {
	cfg := Default()

	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := toml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}

	if err := validate(cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func validate(cfg Config) error {
	if cfg.Dataset.URL == "" {
		return errors.New("dataset.url must not be empty")
	}
	if cfg.Dataset.RefreshHours < 1 {
		return errors.New("dataset.refresh_hours must be >= 1")
	}
	if cfg.Dataset.FallbackCount < 1 {
		return errors.New("dataset.fallback_count must be >= 1")
	}
	if cfg.Timeline.StartYear > cfg.Timeline.EndYear {
		return errors.New("timeline.start_year must not be after timeline.end_year")
	}
	if cfg.Timeline.Pace != "constant" && cfg.Timeline.Pace != "slowing" {
		return errors.New(`timeline.pace must be "constant" or "slowing"`)
	}
	if cfg.Timeline.BaseIntervalMS <= 0 {
		return errors.New("timeline.base_interval_ms must be > 0")
	}
	if cfg.Timeline.MaxIntervalMS < cfg.Timeline.BaseIntervalMS {
		return errors.New("timeline.max_interval_ms must be >= timeline.base_interval_ms")
	}
	if cfg.Timeline.EndPolicy != "loop" && cfg.Timeline.EndPolicy != "stop" {
		return errors.New(`timeline.end_policy must be "loop" or "stop"`)
	}
	if cfg.Pulse.MinSpacingMS < 0 {
		return errors.New("pulse.min_spacing_ms must be >= 0")
	}
	if cfg.Pulse.FrameIntervalMS <= 0 {
		return errors.New("pulse.frame_interval_ms must be > 0")
	}
	if cfg.Pulse.DrawStep <= 0 || cfg.Pulse.DrawStep > 1 {
		return errors.New("pulse.draw_step must be in (0, 1]")
	}
	if cfg.Pulse.FadeStep <= 0 || cfg.Pulse.FadeStep > 1 {
		return errors.New("pulse.fade_step must be in (0, 1]")
	}
	if cfg.Pulse.Opacity < 0 || cfg.Pulse.Opacity > 1 {
		return errors.New("pulse.opacity must be between 0 and 1")
	}
	if cfg.Waveform.TempMin >= cfg.Waveform.TempMax {
		return errors.New("waveform.temp_min must be below waveform.temp_max")
	}
	if cfg.Waveform.RHeightMin > cfg.Waveform.RHeightMax {
		return errors.New("waveform.r_height_min must be <= waveform.r_height_max")
	}
	if cfg.Waveform.DurationMin < 1 || cfg.Waveform.DurationMax < cfg.Waveform.DurationMin {
		return errors.New("waveform duration range is invalid")
	}
	if cfg.Waveform.WidthScaleMin <= 0 || cfg.Waveform.WidthScaleMax < cfg.Waveform.WidthScaleMin {
		return errors.New("waveform width scale range is invalid")
	}
	if cfg.Waveform.IntensityMin < 0 || cfg.Waveform.IntensityMax < cfg.Waveform.IntensityMin {
		return errors.New("waveform intensity range is invalid")
	}
	if cfg.Audio.SampleRate <= 0 {
		return errors.New("audio.sample_rate must be > 0")
	}
	if cfg.Audio.Volume < 0 || cfg.Audio.Volume > 1 {
		return errors.New("audio.volume must be between 0 and 1")
	}
	return nil
}
