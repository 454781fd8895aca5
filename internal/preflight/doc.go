// Package preflight provides readiness checks for the filesystem locations
// and programs the control panel depends on.
//
// The CLI "check" command runs RunAll and renders the results. "serve" runs
// the same checks at startup and logs failures without refusing to start.
package preflight
