package app

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/large-farva/heatwave-monitor/internal/engine"
)

// command is a control request forwarded to the driver goroutine. The reply
// channel receives exactly one result.
type command struct {
	action string
	reply  chan controlResult
}

// controlResult is the response sent back through a command's reply channel.
type controlResult struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (a *App) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func (a *App) handleStatus(w http.ResponseWriter, _ *http.Request) {
	frame := a.lastFrame.Load().(engine.Frame)

	resp := map[string]any{
		"name":            "heatwave-monitor",
		"state":           a.state.Load().(string),
		"uptime_seconds":  int64(time.Since(a.startedAt).Seconds()),
		"dataset_source":  string(a.datasetSource),
		"dataset_warning": a.datasetWarning,
		"date":            frame.Date,
		"running":         frame.Running,
		"paused":          frame.Paused,
		"finished":        frame.Finished,
		"active_pulses":   len(frame.Pulses),
		"matched_events":  frame.MatchedCount,
		"total_events":    frame.TotalEvents,
		"start_year":      a.cfg.Timeline.StartYear,
		"end_year":        a.cfg.Timeline.EndYear,
	}

	// Disk usage for the dataset cache directory.
	if du := diskUsage(a.cfg.Dataset.CacheDir); du != nil {
		resp["disk"] = du
	}

	writeJSON(w, resp)
}

func (a *App) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]any{
		"version":    Version,
		"go_version": GoVersion,
		"built_at":   BuiltAt,
	})
}

func (a *App) handleConfig(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, a.cfg)
}

// handleEvents returns the loaded dataset plus the events matched so far
// this run, in trigger order.
func (a *App) handleEvents(w http.ResponseWriter, _ *http.Request) {
	matched := a.matched.Load().([]engine.HeatwaveEvent)
	events := []engine.HeatwaveEvent(nil)
	if a.session != nil {
		events = a.session.Events()
	}

	writeJSON(w, map[string]any{
		"source":  string(a.datasetSource),
		"warning": a.datasetWarning,
		"events":  events,
		"matched": matched,
	})
}

// handleFrame returns the most recent frame snapshot, the same payload the
// WebSocket stream carries.
func (a *App) handleFrame(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, a.lastFrame.Load().(engine.Frame))
}

// handleControl accepts {"action": "start" | "pause" | "resume" | "restart"}
// and forwards it to the driver goroutine.
func (a *App) handleControl(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Action string `json:"action"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}

	cmd := command{action: req.Action, reply: make(chan controlResult, 1)}

	select {
	case a.commands <- cmd:
	case <-time.After(2 * time.Second):
		http.Error(w, "engine not accepting commands", http.StatusServiceUnavailable)
		return
	}

	select {
	case res := <-cmd.reply:
		w.Header().Set("Content-Type", "application/json")
		if !res.OK {
			w.WriteHeader(http.StatusBadRequest)
		}
		_ = json.NewEncoder(w).Encode(res)
	case <-time.After(2 * time.Second):
		http.Error(w, "engine did not reply", http.StatusGatewayTimeout)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
