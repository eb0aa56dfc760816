// Package preflight provides readiness checks for the paths, drive, and
// freedb servers platter depends on.
//
// The CLI "platter check" command runs RunAll and prints one line per
// result. Checks never modify anything: a missing catalog or log directory
// passes when it could be created.
package preflight
