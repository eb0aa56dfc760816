// Package logs reads platter.log for the CLI: the last N lines, then
// optionally follows appended lines until the context ends.
package logs
