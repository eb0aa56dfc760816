// Package lookup talks to freedb servers.
//
// Client sends one command per call over HTTP GET and decodes the reply with
// the configured charset. Service layers disc identification on top: it tags
// each run with a correlation ID, queries the disc, picks a candidate, reads
// its entry, and merges the returned names onto the probed track lengths.
package lookup
