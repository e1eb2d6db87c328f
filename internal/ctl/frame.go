package ctl

import (
	"fmt"
	"strings"
)

type pulseJSON struct {
	ID      int     `json:"id"`
	Reveal  float64 `json:"reveal"`
	Opacity float64 `json:"opacity"`
	Color   string  `json:"color"`
	Phase   string  `json:"phase"`
}

type frameJSON struct {
	Date         string      `json:"date"`
	Running      bool        `json:"running"`
	Paused       bool        `json:"paused"`
	Finished     bool        `json:"finished"`
	Warning      string      `json:"warning"`
	Pulses       []pulseJSON `json:"pulses"`
	QueuedPulses int         `json:"queued_pulses"`
	MatchedCount int         `json:"matched_count"`
	TotalEvents  int         `json:"total_events"`
}

// Frame fetches the current animation frame snapshot via GET /api/frame.
func Frame(baseURL string, jsonOutput bool) error {
	if jsonOutput {
		// Raw passthrough keeps the full path geometry.
		var raw map[string]any
		if err := getJSON(baseURL, "/api/frame", &raw); err != nil {
			return err
		}
		return printJSON(raw)
	}

	var f frameJSON
	if err := getJSON(baseURL, "/api/frame", &f); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(header("  CURRENT FRAME"))
	fmt.Println(colorize(dim, "  "+strings.Repeat("─", 38)))
	fmt.Printf("  %-12s %s\n", colorize(dim, "Date:"), f.Date)
	fmt.Printf("  %-12s %s\n", colorize(dim, "Clock:"), clockLabel(f))
	fmt.Printf("  %-12s %d matched of %d, %d queued\n", colorize(dim, "Events:"), f.MatchedCount, f.TotalEvents, f.QueuedPulses)
	if f.Warning != "" {
		fmt.Printf("  %-12s %s\n", colorize(dim, "Warning:"), colorize(yellow, f.Warning))
	}

	if len(f.Pulses) == 0 {
		fmt.Printf("  %-12s %s\n", colorize(dim, "Pulses:"), colorize(dim, "none"))
	} else {
		fmt.Printf("  %-12s\n", colorize(dim, "Pulses:"))
		for _, p := range f.Pulses {
			fmt.Printf("    #%-4d %-8s [%s] opacity %.2f\n",
				p.ID, p.Phase, revealBar(p.Reveal, 16), p.Opacity)
		}
	}
	fmt.Println()

	return nil
}

func clockLabel(f frameJSON) string {
	switch {
	case f.Finished:
		return colorize(cyan, "finished")
	case f.Paused:
		return colorize(yellow, "paused")
	case f.Running:
		return colorize(green, "running")
	default:
		return colorize(dim, "stopped")
	}
}
