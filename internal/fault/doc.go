// Package fault defines the error markers shared by platter packages.
//
// Every failure that leaves a package is wrapped around one of the exported
// sentinels so callers can classify it with errors.Is without parsing
// messages. A decoder that runs and finds nothing is not a fault; violated
// preconditions and failing I/O are.
package fault
