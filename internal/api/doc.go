// Package api is the request/response boundary between the control panel
// core and whatever renders it (the HTTP adapter or the CLI).
//
// # Operations
//
// LoadConfig, SaveConfig, Run, SavePort and ReadLog each take plain values
// and return values ready to display. None of them return Go errors: failures
// are logged and rendered into the returned text.
//
// # Wire types
//
// ConfigFields mirrors config.Document with camelCase JSON tags for the
// browser. FromDocument and ToDocument convert between the two.
package api
