package ctl

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
)

// WatchOptions controls the watch command behavior.
type WatchOptions struct {
	Filter []string // event types to show (empty = all)
	JSON   bool     // output raw JSON per event
}

// Watch connects to the daemon's WebSocket endpoint and streams events to
// the terminal in a human-readable format until interrupted. Frame events
// arrive at animation rate, so by default they render as a single updating
// line rather than one row each.
func Watch(baseURL string, opts WatchOptions) error {
	baseURL = strings.TrimRight(baseURL, "/")

	u, err := url.Parse(baseURL)
	if err != nil {
		return err
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}
	u.Path = "/ws"
	u.RawQuery = ""

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	if !opts.JSON {
		fmt.Println()
		fmt.Printf("  %s %s\n", colorize(green, "connected"), colorize(dim, u.String()))
		if len(opts.Filter) > 0 {
			fmt.Printf("  %s %s\n", colorize(dim, "filter:"), colorize(dim, strings.Join(opts.Filter, ", ")))
		}
		fmt.Println(colorize(dim, "  "+strings.Repeat("─", 50)))
		fmt.Println()
	}

	// Build a filter set for O(1) lookup.
	filterSet := make(map[string]bool, len(opts.Filter))
	for _, f := range opts.Filter {
		filterSet[f] = true
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		var framesOnLine bool
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}

			var ev map[string]any
			if err := json.Unmarshal(msg, &ev); err != nil {
				fmt.Printf("  %s\n", string(msg))
				continue
			}
			evType, _ := ev["type"].(string)

			if len(filterSet) > 0 && !filterSet[evType] {
				continue
			}

			if opts.JSON {
				fmt.Println(string(msg))
				continue
			}

			if evType == "frame" {
				renderFrameLine(ev)
				framesOnLine = true
				continue
			}
			if framesOnLine {
				fmt.Println()
				framesOnLine = false
			}
			renderEvent(ev, msg)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sig:
		if !opts.JSON {
			fmt.Println()
			fmt.Println(colorize(dim, "  disconnecting..."))
		}
		_ = conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"),
			time.Now().Add(1*time.Second),
		)
		return nil
	case <-done:
		return nil
	}
}

// renderFrameLine redraws the live frame summary in place.
func renderFrameLine(ev map[string]any) {
	frame, _ := ev["frame"].(map[string]any)
	if frame == nil {
		return
	}
	date, _ := frame["date"].(string)
	matched, _ := frame["matched_count"].(float64)
	total, _ := frame["total_events"].(float64)
	pulses, _ := frame["pulses"].([]any)

	label := "running"
	if paused, _ := frame["paused"].(bool); paused {
		label = "paused"
	} else if finished, _ := frame["finished"].(bool); finished {
		label = "finished"
	} else if running, _ := frame["running"].(bool); !running {
		label = "stopped"
	}

	beat := " "
	if len(pulses) > 0 {
		beat = colorize(red, "♥")
	}

	fmt.Printf("\r  %s %s  %s  %d/%d matched, %d pulsing   ",
		colorize(bold, date), beat, colorize(dim, label),
		int(matched), int(total), len(pulses))
}

// renderEvent prints a non-frame event in a human-friendly format, falling
// back to raw JSON for unrecognized event types.
func renderEvent(ev map[string]any, raw []byte) {
	evType, _ := ev["type"].(string)
	ts := formatEventTime(ev)

	switch evType {
	case "heartbeat":
		// Heartbeats are noisy — show them dimmed on a single line.
		state, _ := ev["state"].(string)
		uptime, _ := ev["uptime_seconds"].(float64)
		uptimeStr := formatDuration(time.Duration(uptime) * time.Second)
		fmt.Printf("  %s %s  %s  up %s\n",
			colorize(dim, ts),
			colorize(dim, "heartbeat"),
			colorize(stateColor(state), state),
			colorize(dim, uptimeStr),
		)

	case "state":
		from, _ := ev["from"].(string)
		to, _ := ev["to"].(string)
		fmt.Printf("  %s %s  %s %s %s\n",
			colorize(dim, ts),
			colorize(bold, "STATE"),
			colorize(stateColor(from), from),
			colorize(dim, "->"),
			colorize(stateColor(to), to),
		)

	case "log":
		level, _ := ev["level"].(string)
		message, _ := ev["message"].(string)
		component, _ := ev["component"].(string)
		levelStr := formatLogLevel(level)
		src := ""
		if component != "" {
			src = colorize(dim, "["+component+"] ")
		}
		fmt.Printf("  %s %s  %s%s\n", colorize(dim, ts), levelStr, src, message)

	case "pulse":
		date, _ := ev["date"].(string)
		temp, _ := ev["peak_temp"].(float64)
		durDays, _ := ev["duration_days"].(float64)
		tropical, _ := ev["tropical_days"].(float64)
		rHeight, _ := ev["r_height"].(float64)

		fmt.Println()
		fmt.Printf("  %s %s\n", colorize(dim, ts), header("PULSE "+colorize(red, "♥")))
		fmt.Printf("    %-14s %s\n", colorize(dim, "Heatwave:"), colorize(bold, date))
		fmt.Printf("    %-14s %.1f°C\n", colorize(dim, "Peak temp:"), temp)
		fmt.Printf("    %-14s %d days (%d tropical)\n", colorize(dim, "Duration:"), int(durDays), int(tropical))
		fmt.Printf("    %-14s %.0f px\n", colorize(dim, "R height:"), rHeight)
		fmt.Println()

	default:
		// Unknown event type — dump as indented JSON so nothing is lost.
		pretty, err := json.MarshalIndent(ev, "  ", "  ")
		if err != nil {
			fmt.Printf("  %s\n", string(raw))
			return
		}
		fmt.Printf("  %s\n", string(pretty))
	}
}

// formatEventTime extracts and shortens the timestamp from an event.
func formatEventTime(ev map[string]any) string {
	tsRaw, ok := ev["ts"].(string)
	if !ok {
		return "          "
	}
	t, err := time.Parse(time.RFC3339Nano, tsRaw)
	if err != nil {
		return tsRaw[:10]
	}
	return t.Local().Format("15:04:05")
}
