// Package app wires together the HTTP server, the WebSocket hub, the dataset
// loader, and the animation engine. It owns the daemon's lifecycle and is the
// single source of truth for the current operating state.
package app

import (
	"context"
	"log"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/large-farva/heatwave-monitor/internal/audio"
	"github.com/large-farva/heatwave-monitor/internal/config"
	"github.com/large-farva/heatwave-monitor/internal/dataset"
	"github.com/large-farva/heatwave-monitor/internal/engine"
	"github.com/large-farva/heatwave-monitor/internal/telemetry"
	"github.com/large-farva/heatwave-monitor/internal/ws"
)

// Options holds everything the App needs from the caller.
type Options struct {
	Logger *log.Logger
	Cfg    config.Config
	Bind   string
}

// App is the top-level daemon process. It manages the HTTP server, the
// WebSocket event hub, and the animation driver loop.
type App struct {
	log    *log.Logger
	cfg    config.Config
	bind   string
	server *http.Server

	startedAt time.Time
	state     atomic.Value // current state string (BOOTING, RUNNING, etc.)

	wsHub *ws.Hub
	cuer  audio.Cuer

	// The session is owned exclusively by the driver goroutine. HTTP
	// handlers read the latest published snapshots and send control
	// commands through the commands channel; they never touch the session.
	session   *engine.Session
	commands  chan command
	lastFrame atomic.Value // engine.Frame
	matched   atomic.Value // []engine.HeatwaveEvent

	datasetSource  dataset.Source
	datasetWarning string
}

// New creates an App in the BOOTING state. Call Run to start serving.
func New(opts Options) *App {
	a := &App{
		log:       opts.Logger,
		cfg:       opts.Cfg,
		bind:      opts.Bind,
		startedAt: time.Now(),
		wsHub:     ws.NewHub(),
		commands:  make(chan command, 4),
	}
	a.state.Store("BOOTING")
	a.lastFrame.Store(engine.Frame{})
	a.matched.Store([]engine.HeatwaveEvent(nil))
	return a
}

// Run loads the dataset, starts the HTTP server, WebSocket hub, heartbeat
// ticker, and the animation driver. It blocks until the context is cancelled
// or the server returns an error. The dataset load completes before the
// first animation step is scheduled.
func (a *App) Run(ctx context.Context) error {
	bind := a.bind
	if bind == "" && a.cfg.Server.Bind != "" {
		bind = a.cfg.Server.Bind
	}
	if bind == "" {
		bind = "0.0.0.0:8080"
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", a.handleHealthz)
	mux.HandleFunc("/api/status", a.handleStatus)
	mux.HandleFunc("/api/version", a.handleVersion)
	mux.HandleFunc("/api/config", a.handleConfig)
	mux.HandleFunc("/api/events", a.handleEvents)
	mux.HandleFunc("/api/frame", a.handleFrame)
	mux.HandleFunc("/api/control", a.handleControl)
	mux.Handle("/ws", a.wsHub.Handler())

	a.server = &http.Server{
		Addr:              bind,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", bind)
	if err != nil {
		return err
	}

	a.log.Printf("listening on http://%s", bind)

	go a.wsHub.Run(ctx)
	go a.heartbeatLoop(ctx)

	a.transition("LOADING")
	rnd := engine.SystemRand{}
	result := dataset.NewLoader(a.cfg.Dataset, a.cfg.Timeline, a.log, rnd).Load()
	a.datasetSource = result.Source
	a.datasetWarning = result.Warning
	a.log.Printf("dataset: %d events from %s", len(result.Events), result.Source)
	if result.Warning != "" {
		a.log.Printf("dataset: %s", result.Warning)
		a.emit("dataset", map[string]any{
			"type":    telemetry.EventLog,
			"level":   "warn",
			"message": result.Warning,
		})
	}

	a.cuer = audio.NewCuer(a.cfg.Audio, a.log)

	a.session = engine.NewSession(a.cfg, result.Events, result.Warning, rnd)
	a.session.SetPulseCallback(a.onPulse)
	if a.cfg.Timeline.Autostart {
		a.session.Start(time.Now().UnixMilli())
	}
	a.syncState()

	go a.runDriver(ctx)

	go func() {
		<-ctx.Done()
		a.log.Printf("shutdown requested")
		_ = a.server.Shutdown(context.Background())
	}()

	return a.server.Serve(ln)
}

// runDriver is the animation loop: one real ticker whose every beat steps
// the session and publishes the resulting frame. Control commands are
// handled between steps on the same goroutine, so the session never sees
// concurrent access. Cancelling ctx stops the ticker; nothing else in the
// engine holds a timer.
func (a *App) runDriver(ctx context.Context) {
	ticker := time.NewTicker(time.Duration(a.cfg.Pulse.FrameIntervalMS) * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case cmd := <-a.commands:
			a.handleCommand(cmd)

		case <-ticker.C:
			wasActive := a.session.Active()
			a.session.Step(time.Now().UnixMilli())
			a.publishFrame(wasActive || a.session.Active())
			a.syncState()
		}
	}
}

// publishFrame snapshots the session for the HTTP handlers and, while the
// animation has anything to show, broadcasts the frame to WebSocket clients.
func (a *App) publishFrame(broadcast bool) {
	frame := a.session.Frame()
	a.lastFrame.Store(frame)

	if !broadcast {
		return
	}
	a.wsHub.BroadcastFrame(map[string]any{
		"type":      telemetry.EventFrame,
		"ts":        telemetry.NowTS(),
		"component": "engine",
		"frame":     frame,
	})
}

// onPulse runs on the driver goroutine for every triggered pulse: it fires
// the audio cue, announces the pulse over the hub, and refreshes the matched
// history snapshot.
func (a *App) onPulse(p *engine.Pulse, ev engine.HeatwaveEvent) {
	a.cuer.Pulse()

	date := ""
	if !ev.StartDate.IsZero() {
		date = ev.StartDate.Format("2006-01-02")
	}
	a.emit("engine", map[string]any{
		"type":          telemetry.EventPulse,
		"pulse_id":      p.ID,
		"date":          date,
		"peak_temp":     ev.PeakTemp,
		"duration_days": ev.DurationDays,
		"tropical_days": ev.TropicalDays,
		"r_height":      p.Params.RHeight,
		"color":         p.Params.Color,
	})

	a.matched.Store(append([]engine.HeatwaveEvent(nil), a.session.Matched()...))
}

// handleCommand applies a control action to the session and replies with the
// outcome. Runs on the driver goroutine.
func (a *App) handleCommand(cmd command) {
	now := time.Now().UnixMilli()
	res := controlResult{OK: true}

	switch cmd.action {
	case "start":
		if a.session.Start(now) {
			res.Message = "animation started"
		} else {
			res.Message = "animation already running"
		}
	case "pause":
		if a.session.Paused() {
			res.Message = "animation already paused"
		} else {
			a.session.Pause()
			res.Message = "animation paused"
		}
	case "resume":
		if !a.session.Paused() {
			res.Message = "animation not paused"
		} else {
			a.session.Resume()
			res.Message = "animation resumed"
		}
	case "restart":
		a.session.Restart(now)
		a.matched.Store([]engine.HeatwaveEvent(nil))
		res.Message = "animation restarted"
	default:
		res.OK = false
		res.Error = "unknown action: " + cmd.action
	}

	if res.OK {
		a.emit("engine", map[string]any{
			"type":    telemetry.EventLog,
			"level":   "info",
			"message": res.Message,
		})
	}

	a.publishFrame(true)
	a.syncState()
	cmd.reply <- res
}

// syncState derives the public daemon state from the session flags and
// broadcasts a transition when it changed.
func (a *App) syncState() {
	switch {
	case a.session.Finished():
		a.transition("FINISHED")
	case a.session.Paused():
		a.transition("PAUSED")
	case a.session.Running():
		a.transition("RUNNING")
	default:
		a.transition("IDLE")
	}
}

// transition atomically updates the daemon state and broadcasts the change
// to all connected WebSocket clients.
func (a *App) transition(newState string) {
	old := a.state.Load().(string)
	if old == newState {
		return
	}
	a.state.Store(newState)

	a.wsHub.BroadcastJSON(map[string]any{
		"type":      telemetry.EventState,
		"ts":        telemetry.NowTS(),
		"from":      old,
		"to":        newState,
		"component": "heatwaved",
	})
}

// heartbeatLoop sends a periodic heartbeat event so clients can detect
// connectivity and track uptime without polling.
func (a *App) heartbeatLoop(ctx context.Context) {
	t := time.NewTicker(10 * time.Second)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			a.wsHub.BroadcastJSON(map[string]any{
				"type":           telemetry.EventHeartbeat,
				"ts":             telemetry.NowTS(),
				"uptime_seconds": int64(time.Since(a.startedAt).Seconds()),
				"state":          a.state.Load().(string),
			})
		}
	}
}

// emit stamps a payload with a timestamp and component name, then pushes it
// to every connected WebSocket client.
func (a *App) emit(component string, payload map[string]any) {
	payload["ts"] = telemetry.NowTS()
	payload["component"] = component
	a.wsHub.BroadcastJSON(payload)
}
