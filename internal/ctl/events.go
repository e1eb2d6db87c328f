package ctl

import (
	"fmt"
	"strings"
)

// EventsOptions controls the events command behavior.
type EventsOptions struct {
	JSON    bool
	Matched bool // show only events already matched this run
	Count   int  // limit rows shown (0 = all)
}

type eventJSON struct {
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date"`
	DurationDays int     `json:"duration_days"`
	TropicalDays int     `json:"tropical_days"`
	PeakTemp     float64 `json:"peak_temp"`
}

type eventsResponse struct {
	Source  string      `json:"source"`
	Warning string      `json:"warning"`
	Events  []eventJSON `json:"events"`
	Matched []eventJSON `json:"matched"`
}

// Events lists the loaded heatwave dataset, or only the rows already matched
// by the timeline this run.
func Events(baseURL string, opts EventsOptions) error {
	var resp eventsResponse
	if err := getJSON(baseURL, "/api/events", &resp); err != nil {
		return err
	}

	if opts.JSON {
		return printJSON(resp)
	}

	rows := resp.Events
	title := "HEATWAVE EVENTS"
	if opts.Matched {
		rows = resp.Matched
		title = "MATCHED EVENTS"
	}
	if opts.Count > 0 && opts.Count < len(rows) {
		rows = rows[:opts.Count]
	}

	fmt.Println()
	fmt.Printf("  %s %s\n", header(title), colorize(dim, fmt.Sprintf("(%d, source: %s)", len(rows), resp.Source)))
	if resp.Warning != "" {
		fmt.Printf("  %s %s\n", colorize(yellow, "WARN"), resp.Warning)
	}
	fmt.Println(colorize(dim, "  "+strings.Repeat("─", 58)))
	fmt.Printf("  %s\n", colorize(dim, fmt.Sprintf("%-12s %-12s %8s %9s %7s", "START", "END", "DAYS", "TROPICAL", "PEAK")))

	for _, ev := range rows {
		temp := fmt.Sprintf("%.1f°", ev.PeakTemp)
		fmt.Printf("  %-12s %-12s %8d %9d %7s\n",
			shortDate(ev.StartDate), shortDate(ev.EndDate),
			ev.DurationDays, ev.TropicalDays, colorize(tempColor(ev.PeakTemp), temp))
	}
	fmt.Println()

	return nil
}

// shortDate trims a timestamp to its date part.
func shortDate(s string) string {
	if len(s) >= 10 {
		return s[:10]
	}
	return s
}

// tempColor grades a peak temperature the same way the daemon's waveform
// coloring does.
func tempColor(t float64) string {
	if !colorEnabled() {
		return ""
	}
	if t < 36 {
		return yellow
	}
	return red
}
