// Package launcher acquires a local port for the web UI and serves it.
//
// Launch walks candidate ports upward from the persisted preferred port,
// one at a time. The first candidate that passes a throwaway bind probe and a
// real bind wins: it is persisted, the browser is pointed at it and the UI is
// served until the context ends. When every candidate fails, the UI is served
// on an ephemeral loopback port and published through a relay instead.
package launcher
