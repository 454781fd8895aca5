// Package pathutil normalizes and validates the free-form path and port strings
// that arrive from the control panel, the CLI and persisted configuration.
//
// Every function is side-effect free and reports failure through its error
// return; callers decide whether an invalid value is dropped or surfaced.
package pathutil
