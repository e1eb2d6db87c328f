package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := validate(Default()); err != nil {
		t.Fatalf("defaults failed validation: %v", err)
	}
}

func TestLoadLayersOverDefaults(t *testing.T) {
	path := writeConfig(t, `
[server]
bind = "127.0.0.1:9090"

[timeline]
pace = "constant"
end_policy = "stop"

[waveform]
jitter = false
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Server.Bind != "127.0.0.1:9090" {
		t.Errorf("Bind = %q", cfg.Server.Bind)
	}
	if cfg.Timeline.Pace != "constant" || cfg.Timeline.EndPolicy != "stop" {
		t.Errorf("timeline overrides not applied: %+v", cfg.Timeline)
	}
	if cfg.Waveform.Jitter {
		t.Error("jitter override not applied")
	}

	// Untouched sections keep their defaults.
	def := Default()
	if cfg.Timeline.StartYear != def.Timeline.StartYear {
		t.Errorf("StartYear = %d, want default %d", cfg.Timeline.StartYear, def.Timeline.StartYear)
	}
	if cfg.Pulse.MinSpacingMS != def.Pulse.MinSpacingMS {
		t.Errorf("MinSpacingMS = %d, want default %d", cfg.Pulse.MinSpacingMS, def.Pulse.MinSpacingMS)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestLoadMalformedTOML(t *testing.T) {
	path := writeConfig(t, "[timeline\nstart_year =")
	if _, err := Load(path); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"empty dataset url", func(c *Config) { c.Dataset.URL = "" }, "dataset.url"},
		{"zero refresh hours", func(c *Config) { c.Dataset.RefreshHours = 0 }, "refresh_hours"},
		{"zero fallback count", func(c *Config) { c.Dataset.FallbackCount = 0 }, "fallback_count"},
		{"inverted years", func(c *Config) { c.Timeline.StartYear = 2030 }, "start_year"},
		{"unknown pace", func(c *Config) { c.Timeline.Pace = "warp" }, "timeline.pace"},
		{"zero base interval", func(c *Config) { c.Timeline.BaseIntervalMS = 0 }, "base_interval_ms"},
		{"max below base", func(c *Config) { c.Timeline.MaxIntervalMS = 1 }, "max_interval_ms"},
		{"unknown end policy", func(c *Config) { c.Timeline.EndPolicy = "rewind" }, "end_policy"},
		{"negative spacing", func(c *Config) { c.Pulse.MinSpacingMS = -1 }, "min_spacing_ms"},
		{"zero frame interval", func(c *Config) { c.Pulse.FrameIntervalMS = 0 }, "frame_interval_ms"},
		{"draw step too big", func(c *Config) { c.Pulse.DrawStep = 1.5 }, "draw_step"},
		{"zero fade step", func(c *Config) { c.Pulse.FadeStep = 0 }, "fade_step"},
		{"opacity out of range", func(c *Config) { c.Pulse.Opacity = 2 }, "opacity"},
		{"inverted temp range", func(c *Config) { c.Waveform.TempMin = 50 }, "temp_min"},
		{"inverted r height range", func(c *Config) { c.Waveform.RHeightMin = 500 }, "r_height_min"},
		{"zero duration min", func(c *Config) { c.Waveform.DurationMin = 0 }, "duration"},
		{"zero width scale", func(c *Config) { c.Waveform.WidthScaleMin = 0 }, "width scale"},
		{"inverted intensity", func(c *Config) { c.Waveform.IntensityMax = 0.1 }, "intensity"},
		{"zero sample rate", func(c *Config) { c.Audio.SampleRate = 0 }, "sample_rate"},
		{"volume out of range", func(c *Config) { c.Audio.Volume = 1.5 }, "volume"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := Default()
			c.mutate(&cfg)
			err := validate(cfg)
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if !strings.Contains(err.Error(), c.wantErr) {
				t.Errorf("error %q does not mention %q", err, c.wantErr)
			}
		})
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := writeConfig(t, `
[timeline]
pace = "warp"
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation to reject the file")
	}
}
