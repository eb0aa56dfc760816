// Package logging builds the slog loggers platter commands use: a compact
// console format for terminals and JSON for log files and collectors.
//
// Every component logger carries a "component" key, and warnings go through
// Warn so they always carry an event type, a hint and an impact.
package logging
