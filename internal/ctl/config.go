package ctl

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Config fetches the daemon's running configuration via GET /api/config and
// prints it. The daemon is the source of truth; this avoids guessing which
// TOML file it was started with.
func Config(baseURL string, jsonOutput bool) error {
	var cfg map[string]any
	if err := getJSON(baseURL, "/api/config", &cfg); err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(cfg)
	}

	fmt.Println()
	fmt.Println(header("  RUNNING CONFIGURATION"))
	fmt.Println(colorize(dim, "  "+strings.Repeat("─", 38)))
	printSection(cfg, "")
	fmt.Println()
	return nil
}

// printSection renders nested config maps as indented key: value lines.
func printSection(m map[string]any, indent string) {
	for key, val := range m {
		if sub, ok := val.(map[string]any); ok {
			fmt.Printf("  %s%s\n", indent, colorize(bold, key))
			printSection(sub, indent+"  ")
			continue
		}
		b, err := json.Marshal(val)
		if err != nil {
			continue
		}
		fmt.Printf("  %s%s %s\n", indent, colorize(dim, key+":"), string(b))
	}
}
