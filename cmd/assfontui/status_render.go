package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"assfontui/internal/preflight"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const ansiReset = "\x1b[0m"

type statusStyle struct {
	label string
	cell  string
	color string
}

var statusStyles = map[statusKind]statusStyle{
	statusInfo:  {label: "INFO", cell: "info", color: "\x1b[34m"},
	statusOK:    {label: "OK", cell: "ok", color: "\x1b[32m"},
	statusWarn:  {label: "WARN", cell: "warning", color: "\x1b[33m"},
	statusError: {label: "ERROR", cell: "failed", color: "\x1b[31m"},
}

const statusLabelWidth = 12

// resultStatus maps a preflight result onto a display status.
func resultStatus(r preflight.Result) statusKind {
	switch {
	case !r.Passed:
		return statusError
	case r.Warn:
		return statusWarn
	default:
		return statusOK
	}
}

func paint(kind statusKind, s string, colorize bool) string {
	if !colorize {
		return s
	}
	return statusStyles[kind].color + s + ansiReset
}

// renderStatusLine prints "<label>: [LEVEL] message" padded to line up under
// the check table.
func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	line := fmt.Sprintf("%-*s [%s]", statusLabelWidth, label+":", statusStyles[kind].label)
	if message != "" {
		line += " " + message
	}
	return paint(kind, line, colorize)
}

// statusCell is the Status column of the check table.
func statusCell(r preflight.Result, colorize bool) string {
	kind := resultStatus(r)
	return paint(kind, statusStyles[kind].cell, colorize)
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
