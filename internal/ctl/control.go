package ctl

import "fmt"

// Start begins the animation from the start year, clearing any previous run.
func Start(baseURL string, jsonOutput bool) error {
	return control(baseURL, "start", "STARTED", jsonOutput)
}

// Pause freezes the simulated clock without losing position.
func Pause(baseURL string, jsonOutput bool) error {
	return control(baseURL, "pause", "PAUSED", jsonOutput)
}

// Resume continues a paused animation.
func Resume(baseURL string, jsonOutput bool) error {
	return control(baseURL, "resume", "RESUMED", jsonOutput)
}

// Restart unconditionally rewinds to the start year.
func Restart(baseURL string, jsonOutput bool) error {
	return control(baseURL, "restart", "RESTARTED", jsonOutput)
}

func control(baseURL, action, label string, jsonOutput bool) error {
	var result struct {
		OK      bool   `json:"ok"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	body := map[string]string{"action": action}
	if err := postJSON(baseURL, "/api/control", body, &result); err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(result)
	}

	if result.OK {
		fmt.Printf("\n  %s  %s\n\n", colorize(green, label), result.Message)
	} else {
		fmt.Printf("\n  %s  %s\n\n", colorize(red, "ERROR"), result.Error)
	}
	return nil
}
