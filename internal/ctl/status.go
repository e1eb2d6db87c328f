package ctl

import (
	"fmt"
	"strings"
	"time"
)

// StatusResponse mirrors the JSON returned by GET /api/status.
type StatusResponse struct {
	Name           string `json:"name"`
	State          string `json:"state"`
	UptimeSeconds  int64  `json:"uptime_seconds"`
	DatasetSource  string `json:"dataset_source"`
	DatasetWarning string `json:"dataset_warning"`
	Date           string `json:"date"`
	Running        bool   `json:"running"`
	Paused         bool   `json:"paused"`
	Finished       bool   `json:"finished"`
	ActivePulses   int    `json:"active_pulses"`
	MatchedEvents  int    `json:"matched_events"`
	TotalEvents    int    `json:"total_events"`
	StartYear      int    `json:"start_year"`
	EndYear        int    `json:"end_year"`
}

// Status fetches the daemon status and prints a formatted summary.
func Status(baseURL string, jsonOutput bool) error {
	var s StatusResponse
	if err := getJSON(baseURL, "/api/status", &s); err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(s)
	}

	uptime := formatDuration(time.Duration(s.UptimeSeconds) * time.Second)
	stateStr := colorize(stateColor(s.State), s.State)

	fmt.Println()
	fmt.Println(header("  HEATWAVE MONITOR STATUS"))
	fmt.Println(colorize(dim, "  "+strings.Repeat("─", 38)))
	fmt.Printf("  %-12s %s\n", colorize(dim, "Daemon:"), s.Name)
	fmt.Printf("  %-12s %s\n", colorize(dim, "State:"), stateStr)
	fmt.Printf("  %-12s %s\n", colorize(dim, "Uptime:"), uptime)
	fmt.Printf("  %-12s %s (%d-%d)\n", colorize(dim, "Timeline:"), s.Date, s.StartYear, s.EndYear)
	fmt.Printf("  %-12s %d matched of %d, %d pulsing\n", colorize(dim, "Events:"), s.MatchedEvents, s.TotalEvents, s.ActivePulses)
	fmt.Printf("  %-12s %s\n", colorize(dim, "Dataset:"), s.DatasetSource)
	if s.DatasetWarning != "" {
		fmt.Printf("  %-12s %s\n", colorize(dim, "Warning:"), colorize(yellow, s.DatasetWarning))
	}
	fmt.Printf("  %-12s %s\n", colorize(dim, "Host:"), strings.TrimRight(baseURL, "/"))
	fmt.Println()

	return nil
}
