package preflight

import (
	"fmt"
	"path/filepath"

	"assfontui/internal/config"
	"assfontui/internal/deps"
)

// minFreeBytes is the free space below which the work directory check fails.
const minFreeBytes = 64 << 20

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	// Warn marks a passing result that deserves attention, such as a missing
	// optional program.
	Warn   bool
	Detail string
}

// RunAll executes every check for env.
func RunAll(env *config.Environment) []Result {
	if env == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Work directory", env.WorkDir),
		CheckFreeSpace("Work directory space", env.WorkDir, minFreeBytes),
	}
	for _, loc := range []struct{ name, file string }{
		{"Log directory", env.LogFile},
		{"Port file directory", env.PortFile},
	} {
		if dir := filepath.Dir(loc.file); dir != env.WorkDir {
			results = append(results, CheckDirectoryAccess(loc.name, dir))
		}
	}
	for _, status := range deps.CheckBinaries(deps.Requirements(env)) {
		results = append(results, FromDependency(status))
	}
	return results
}

// FromDependency converts a dependency status into a check result. Missing
// optional programs pass with a note.
func FromDependency(status deps.Status) Result {
	res := Result{Name: status.Name, Passed: status.Available}
	switch {
	case status.Available:
		res.Detail = status.Path
	case status.Optional:
		res.Passed = true
		res.Warn = true
		res.Detail = fmt.Sprintf("%s (optional: %s)", status.Detail, status.Description)
	default:
		res.Detail = fmt.Sprintf("%s (%s)", status.Detail, status.Description)
	}
	return res
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed {
			out = append(out, r)
		}
	}
	return out
}
