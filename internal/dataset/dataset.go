// Package dataset loads the heatwave records that drive the animation. It
// fetches a CSV export over HTTP with a tiered fallback strategy: fresh disk
// cache, network fetch, stale disk cache, and finally a synthetic dataset
// generated in-process, so the visualization is never empty. Individual
// malformed fields degrade to zero values instead of aborting the load.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/large-farva/heatwave-monitor/internal/config"
	"github.com/large-farva/heatwave-monitor/internal/engine"
)

const cacheFile = "heatwaves.csv"

// Source tags where the loaded events came from.
type Source string

const (
	SourceCache     Source = "cache"
	SourceNetwork   Source = "network"
	SourceStale     Source = "stale-cache"
	SourceSynthetic Source = "synthetic"
)

// Result is what Load hands to the engine: the events in dataset order, the
// tier they came from, and a non-fatal warning when the data is degraded.
type Result struct {
	Events  []engine.HeatwaveEvent
	Source  Source
	Warning string
}

// Loader fetches and caches the heatwave CSV.
type Loader struct {
	cfg      config.DatasetConfig
	timeline config.TimelineConfig
	log      *log.Logger
	rnd      engine.Rand

	client *http.Client
}

// NewLoader returns a loader caching under the configured cache dir. The
// timeline config bounds the synthetic fallback's year range.
func NewLoader(cfg config.DatasetConfig, timeline config.TimelineConfig, logger *log.Logger, rnd engine.Rand) *Loader {
	return &Loader{
		cfg:      cfg,
		timeline: timeline,
		log:      logger,
		rnd:      rnd,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Load walks the fallback chain and always produces a usable dataset. Data
// problems never surface as errors; they surface as the Warning field plus a
// degraded Source tag.
func (l *Loader) Load() Result {
	cachePath := filepath.Join(l.cfg.CacheDir, cacheFile)
	maxAge := time.Duration(l.cfg.RefreshHours) * time.Hour

	// Tier 1: fresh disk cache.
	if info, err := os.Stat(cachePath); err == nil && time.Since(info.ModTime()) < maxAge {
		if b, readErr := os.ReadFile(cachePath); readErr == nil {
			if events := parseCSV(string(b)); len(events) > 0 {
				return Result{Events: events, Source: SourceCache}
			}
		}
	}

	// Tier 2: network fetch.
	body, fetchErr := l.fetch()
	if fetchErr == nil {
		if events := parseCSV(body); len(events) > 0 {
			// Cache write failure is non-fatal; the data is in memory.
			if err := l.writeCache(cachePath, body); err != nil {
				l.log.Printf("dataset: cache write failed: %v", err)
			}
			return Result{Events: events, Source: SourceNetwork}
		}
		fetchErr = fmt.Errorf("fetched CSV contained no parseable records")
	}
	l.log.Printf("dataset: fetch failed: %v", fetchErr)

	// Tier 3: stale disk cache.
	if b, readErr := os.ReadFile(cachePath); readErr == nil {
		if events := parseCSV(string(b)); len(events) > 0 {
			return Result{
				Events:  events,
				Source:  SourceStale,
				Warning: "dataset fetch failed; showing cached data: " + fetchErr.Error(),
			}
		}
	}

	// Tier 4: synthetic fallback so the animation stays non-empty.
	return Result{
		Events:  l.Synthetic(),
		Source:  SourceSynthetic,
		Warning: "dataset unavailable; showing synthetic data: " + fetchErr.Error(),
	}
}

func (l *Loader) fetch() (string, error) {
	resp, err := l.client.Get(l.cfg.URL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("dataset fetch returned HTTP %d", resp.StatusCode)
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// writeCache atomically writes data via a temp file and rename so readers
// never see a half-written file.
func (l *Loader) writeCache(cachePath, data string) error {
	dir := filepath.Dir(cachePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "heatwaves-*.tmp")
	if err != nil {
		return err
	}

	if _, err := tmp.WriteString(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), cachePath)
}

// Synthetic generates the documented fallback dataset: exactly fallback_count
// plausible summer heatwaves spread across the configured year range.
// Deterministic for a fixed randomness source.
func (l *Loader) Synthetic() []engine.HeatwaveEvent {
	count := l.cfg.FallbackCount
	years := l.timeline.EndYear - l.timeline.StartYear
	if years < 0 {
		years = 0
	}

	events := make([]engine.HeatwaveEvent, 0, count)
	for i := 0; i < count; i++ {
		year := l.timeline.StartYear
		if count > 1 {
			year += i * years / (count - 1)
		}
		month := time.June + time.Month(l.rnd.Float64()*3) // June-August
		day := 1 + int(l.rnd.Float64()*25)
		duration := 5 + int(l.rnd.Float64()*10)
		tropical := int(l.rnd.Float64() * 8)
		temp := 30 + l.rnd.Float64()*8

		start := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		events = append(events, engine.HeatwaveEvent{
			StartDate:    start,
			EndDate:      start.AddDate(0, 0, duration),
			DurationDays: duration,
			TropicalDays: tropical,
			PeakTemp:     temp,
		})
	}
	return events
}

// parseCSV parses the heatwave CSV export: one record per row with start
// date, end date, duration in days, tropical day count, and peak temperature.
// Both comma and semicolon separators are accepted, a header row is skipped,
// and unparseable fields fall back to zero values rather than dropping the
// whole load.
func parseCSV(data string) []engine.HeatwaveEvent {
	data = strings.TrimSpace(data)
	if data == "" {
		return nil
	}

	r := csv.NewReader(strings.NewReader(data))
	if firstLine, _, ok := strings.Cut(data, "\n"); ok || firstLine != "" {
		if strings.Count(firstLine, ";") > strings.Count(firstLine, ",") {
			r.Comma = ';'
		}
	}
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var events []engine.HeatwaveEvent
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Skip structurally broken rows, keep reading.
			continue
		}
		if len(row) < 5 {
			continue
		}
		// Header row: the first column doesn't parse as a date.
		if parseDate(row[0]).IsZero() && !looksNumeric(row[2]) {
			continue
		}

		events = append(events, engine.HeatwaveEvent{
			StartDate:    parseDate(row[0]),
			EndDate:      parseDate(row[1]),
			DurationDays: parseInt(row[2]),
			TropicalDays: parseInt(row[3]),
			PeakTemp:     parseFloat(row[4]),
		})
	}
	return events
}

// parseDate accepts ISO dates and the day-first format used by the upstream
// export. Unparseable dates yield the zero time; downstream code treats that
// as "never matches".
func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02", "2-1-2006", "02-01-2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func parseInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func parseFloat(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func looksNumeric(s string) bool {
	_, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
	return err == nil
}
