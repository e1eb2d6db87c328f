package engine

import (
	"math"
	"reflect"
	"testing"
)

func testParams() WaveformParams {
	return WaveformParams{
		PHeight:      10,
		QDepth:       14,
		RHeight:      100,
		SDepth:       18,
		THeight:      12,
		Opacity:      0.9,
		DurationDays: 8,
	}
}

func TestGenerateCleanIsDeterministic(t *testing.T) {
	cfg := testConfig().Waveform
	p := testParams()

	// Clean mode must not consult the randomness source at all.
	a := Generate(p, cfg, Clean, nil)
	b := Generate(p, cfg, Clean, nil)

	if !reflect.DeepEqual(a, b) {
		t.Errorf("Generate(clean) not deterministic:\n%v\n%v", a, b)
	}
}

func TestGenerateCleanBounds(t *testing.T) {
	cfg := testConfig().Waveform
	p := testParams()
	path := Generate(p, cfg, Clean, nil)

	if len(path.Anchors) != 13 {
		t.Fatalf("expected 13 anchors, got %d", len(path.Anchors))
	}

	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, a := range path.Anchors {
		minY = math.Min(minY, a.Y)
		maxY = math.Max(maxY, a.Y)
	}

	if maxY != p.RHeight {
		t.Errorf("max y = %v, want R height %v", maxY, p.RHeight)
	}
	if minY != -p.SDepth {
		t.Errorf("min y = %v, want -S depth %v", minY, -p.SDepth)
	}

	// X fractions must be non-decreasing and span [0,1].
	for i := 1; i < len(path.Anchors); i++ {
		if path.Anchors[i].X < path.Anchors[i-1].X {
			t.Errorf("anchor %d x=%v precedes anchor %d x=%v", i, path.Anchors[i].X, i-1, path.Anchors[i-1].X)
		}
	}
	if path.Anchors[0].X != 0 || path.Anchors[len(path.Anchors)-1].X != 1 {
		t.Errorf("path does not span [0,1]: first %v last %v", path.Anchors[0].X, path.Anchors[len(path.Anchors)-1].X)
	}
}

func TestGenerateZeroAmplitudesIsFlat(t *testing.T) {
	cfg := testConfig().Waveform
	p := WaveformParams{DurationDays: 0}
	path := Generate(p, cfg, Clean, nil)

	for i, a := range path.Anchors {
		if math.IsNaN(a.X) || math.IsNaN(a.Y) {
			t.Fatalf("anchor %d contains NaN: %+v", i, a)
		}
		if a.Y != 0 {
			t.Errorf("anchor %d y = %v, want flat baseline", i, a.Y)
		}
	}
	if math.IsNaN(path.WidthScale) || path.WidthScale <= 0 {
		t.Errorf("width scale = %v, want positive", path.WidthScale)
	}
}

func TestGenerateNoisyMidpointEqualsClean(t *testing.T) {
	// A source pinned to 0.5 makes every symmetric perturbation zero, so
	// noisy output must coincide with clean output.
	cfg := testConfig().Waveform
	p := testParams()

	clean := Generate(p, cfg, Clean, nil)
	noisy := Generate(p, cfg, Noisy, fixedRand{0.5})

	if !reflect.DeepEqual(clean, noisy) {
		t.Errorf("noisy at midpoint differs from clean:\n%v\n%v", clean, noisy)
	}
}

func TestGenerateNoisyStaysBounded(t *testing.T) {
	cfg := testConfig().Waveform
	p := testParams()
	clean := Generate(p, cfg, Clean, nil)

	// Pin the source at the extreme so every perturbation takes its
	// maximum magnitude.
	for _, v := range []float64{0, 1} {
		noisy := Generate(p, cfg, Noisy, fixedRand{v})
		for i := range clean.Anchors {
			dx := math.Abs(noisy.Anchors[i].X - clean.Anchors[i].X)
			dy := math.Abs(noisy.Anchors[i].Y - clean.Anchors[i].Y)
			if dx > jitterX+1e-9 {
				t.Errorf("rand=%v anchor %d x moved %v, bound %v", v, i, dx, jitterX)
			}
			if dy > jitterY+driftY+1e-9 {
				t.Errorf("rand=%v anchor %d y moved %v, bound %v", v, i, dy, jitterY+driftY)
			}
		}
	}
}

func TestGenerateNoisyDriftIsSharedWithinSpan(t *testing.T) {
	cfg := testConfig().Waveform
	p := testParams()

	// With a pinned source, both anchors of a flat span receive identical
	// jitter and identical drift, so their y offsets must match exactly.
	noisy := Generate(p, cfg, Noisy, fixedRand{1})
	for _, span := range flatSpans {
		a, b := noisy.Anchors[span[0]], noisy.Anchors[span[1]]
		if a.Y != b.Y {
			t.Errorf("span %v baseline split: %v vs %v", span, a.Y, b.Y)
		}
	}
}

func TestRHeightForScalesAndClamps(t *testing.T) {
	cfg := testConfig().Waveform // 30-42 °C onto 50-150 px

	t.Run("Exact at range endpoints", func(t *testing.T) {
		if got := RHeightFor(30, cfg); got != 50 {
			t.Errorf("RHeightFor(30) = %v, want 50", got)
		}
		if got := RHeightFor(42, cfg); got != 150 {
			t.Errorf("RHeightFor(42) = %v, want 150", got)
		}
	})

	t.Run("Clamped outside the range", func(t *testing.T) {
		if got := RHeightFor(12, cfg); got != 50 {
			t.Errorf("RHeightFor(12) = %v, want 50", got)
		}
		if got := RHeightFor(55, cfg); got != 150 {
			t.Errorf("RHeightFor(55) = %v, want 150", got)
		}
	})

	t.Run("Monotonically non-decreasing", func(t *testing.T) {
		prev := math.Inf(-1)
		for temp := 28.0; temp <= 44; temp += 0.5 {
			got := RHeightFor(temp, cfg)
			if got < prev {
				t.Fatalf("RHeightFor(%v) = %v < RHeightFor(previous) = %v", temp, got, prev)
			}
			prev = got
		}
	})
}

func TestWidthScaleFor(t *testing.T) {
	cfg := testConfig().Waveform // 1-30 days onto 0.5-1.0

	t.Run("Monotonic and clamped", func(t *testing.T) {
		prev := 0.0
		for d := 1; d <= 30; d++ {
			got := WidthScaleFor(d, cfg)
			if got < prev {
				t.Fatalf("WidthScaleFor(%d) = %v < previous %v", d, got, prev)
			}
			prev = got
		}
		if got := WidthScaleFor(31, cfg); got != cfg.WidthScaleMax {
			t.Errorf("WidthScaleFor(31) = %v, want clamp to %v", got, cfg.WidthScaleMax)
		}
	})

	t.Run("Non-positive duration behaves as default", func(t *testing.T) {
		want := WidthScaleFor(5, cfg)
		if got := WidthScaleFor(0, cfg); got != want {
			t.Errorf("WidthScaleFor(0) = %v, want default-duration value %v", got, want)
		}
		if got := WidthScaleFor(-3, cfg); got != want {
			t.Errorf("WidthScaleFor(-3) = %v, want default-duration value %v", got, want)
		}
	})
}

func TestDeriveParams(t *testing.T) {
	cfg := testConfig().Waveform
	ev := HeatwaveEvent{PeakTemp: 38, DurationDays: 9}

	// Source pinned to 0 pins the intensity factor at its minimum.
	p := DeriveParams(ev, cfg, fixedRand{0})

	wantR := RHeightFor(38, cfg)
	if p.RHeight != wantR {
		t.Errorf("RHeight = %v, want %v", p.RHeight, wantR)
	}
	if p.PHeight != basePHeight*cfg.IntensityMin {
		t.Errorf("PHeight = %v, want %v", p.PHeight, basePHeight*cfg.IntensityMin)
	}
	if p.DurationDays != 9 {
		t.Errorf("DurationDays = %d, want 9", p.DurationDays)
	}
	if p.Color == "" {
		t.Error("expected a derived color")
	}
	if p.Opacity <= 0 || p.Opacity > 1 {
		t.Errorf("Opacity = %v, want in (0,1]", p.Opacity)
	}
}
