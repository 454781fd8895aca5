// Package deps reports whether the external programs the control panel
// shells out to are installed.
package deps

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"assfontui/internal/config"
)

// Requirement defines an external program the control panel relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	// Path is the resolved executable when Available.
	Path   string
	Detail string
}

// Requirements lists the programs used with env: the subsetting engine, the
// relay and the browser opener.
func Requirements(env *config.Environment) []Requirement {
	reqs := []Requirement{
		{
			Name:        "AssFontSubset",
			Command:     env.EngineBinary,
			Description: "Required to subset fonts",
		},
		{
			Name:        "cloudflared",
			Command:     env.RelayBinary,
			Description: "Publishes the UI when no local port is free",
			Optional:    true,
		},
	}
	if opener := browserOpener(); opener != "" {
		reqs = append(reqs, Requirement{
			Name:        "Browser opener",
			Command:     opener,
			Description: "Opens the UI on launch",
			Optional:    true,
		})
	}
	return reqs
}

func browserOpener() string {
	switch runtime.GOOS {
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open"
	case "darwin":
		return "open"
	default:
		return ""
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
// Commands containing a path separator are checked in place; bare names are
// looked up on PATH.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		path, err := exec.LookPath(cmd)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		status.Path = path
		results = append(results, status)
	}
	return results
}

// Missing returns the required dependencies that are unavailable.
func Missing(statuses []Status) []Status {
	var out []Status
	for _, s := range statuses {
		if !s.Available && !s.Optional {
			out = append(out, s)
		}
	}
	return out
}
