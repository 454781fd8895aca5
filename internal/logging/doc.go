// Package logging assembles the slog loggers used by the control panel.
//
// A logger writes one line per record to the console and, when a log file is
// configured, appends the same line to that file through a size-capped
// lumberjack writer. The log view reads the file back with ReadLog.
package logging
