// Heatctl is the command-line client for monitoring and controlling a
// running heatwaved instance. It connects over HTTP and WebSocket to query
// status and stream the live animation from the daemon.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/large-farva/heatwave-monitor/internal/ctl"
)

func main() {
	var (
		host    = pflag.StringP("host", "H", "http://127.0.0.1:8080", "Heatwave daemon URL (e.g. http://192.168.8.1:8080)")
		jsonOut = pflag.Bool("json", false, "Output raw JSON instead of formatted text")
		filter  = pflag.StringSlice("filter", nil, "Event types to show in watch (e.g. --filter pulse,log)")
	)

	// Stop parsing global flags at the first non-flag argument (the command
	// name), so subcommand-specific flags like --count are not rejected.
	pflag.CommandLine.SetInterspersed(false)
	pflag.Parse()

	if pflag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	cmd := pflag.Arg(0)
	subArgs := pflag.Args()[1:]

	var err error
	switch cmd {
	// ── Query commands ────────────────────────────────────────────
	case "status":
		err = ctl.Status(*host, *jsonOut)

	case "health":
		err = ctl.Health(*host, *jsonOut)

	case "version":
		err = ctl.VersionInfo(*host, *jsonOut)

	case "config":
		err = ctl.Config(*host, *jsonOut)

	case "events":
		opts := ctl.EventsOptions{JSON: *jsonOut}
		evFlags := pflag.NewFlagSet("events", pflag.ContinueOnError)
		evFlags.BoolVar(&opts.Matched, "matched", false, "Show only events already matched this run")
		evFlags.IntVar(&opts.Count, "count", 0, "Limit number of events shown")
		_ = evFlags.Parse(subArgs)
		err = ctl.Events(*host, opts)

	case "frame":
		err = ctl.Frame(*host, *jsonOut)

	// ── Control commands ──────────────────────────────────────────
	case "start":
		err = ctl.Start(*host, *jsonOut)

	case "pause":
		err = ctl.Pause(*host, *jsonOut)

	case "resume":
		err = ctl.Resume(*host, *jsonOut)

	case "restart":
		err = ctl.Restart(*host, *jsonOut)

	// ── Live streaming ────────────────────────────────────────────
	case "watch":
		err = ctl.Watch(*host, ctl.WatchOptions{
			Filter: *filter,
			JSON:   *jsonOut,
		})

	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Print(`
  heatctl — Heatwave Monitor control CLI

  USAGE
    heatctl [flags] <command> [command-flags]

  COMMANDS (query)
    status          Show daemon state, simulated date, and dataset info
    health          Check daemon liveness
    version         Show CLI and daemon version information
    config          Show the daemon's running configuration
    events          List the loaded heatwave dataset
    frame           Show the current animation frame snapshot

  COMMANDS (control)
    start           Start the animation from the start year
    pause           Freeze the simulated clock in place
    resume          Continue a paused animation
    restart         Rewind to the start year unconditionally

  COMMANDS (live)
    watch           Stream live frames and events (Ctrl-C to stop)

  GLOBAL FLAGS
    -H, --host URL      Daemon base URL (default: http://127.0.0.1:8080)
        --json          Output raw JSON instead of formatted text
        --filter TYPE   Event types to show in watch (comma-separated)

  COMMAND FLAGS
    events:
        --matched           Show only events already matched this run
        --count N           Limit number of events shown

  EXAMPLES
    heatctl status
    heatctl --json status
    heatctl --host http://192.168.8.1:8080 watch
    heatctl events --count 10
    heatctl events --matched
    heatctl frame
    heatctl pause
    heatctl resume
    heatctl restart
    heatctl watch --filter pulse,log
    heatctl watch --filter frame

`)
}
