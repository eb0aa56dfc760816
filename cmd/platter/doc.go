// Package main hosts the platter CLI entrypoint and command graph.
//
// The Cobra command tree turns terminal invocations into disc ID
// computations, freedb query and read round trips, catalog maintenance, and
// the udev-driven watcher. Configuration resolution and logger setup live in
// commandContext so subcommands stay declarative; the protocol work itself
// belongs in the internal packages.
package main
