// Command assfontui is the control panel for the AssFontSubset engine.
//
// Without a subcommand it serves the web UI: the launcher probes for a free
// port starting at the persisted one, opens the browser and falls back to a
// cloudflared quick tunnel when every candidate is taken. The remaining
// subcommands expose the same operations from the terminal.
package main
