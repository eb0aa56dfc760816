// Package freedb builds freedb/CDDB protocol commands and decodes server
// responses.
//
// Commands are the query string of an HTTP GET against a cddb.cgi endpoint:
//
//	cmd=cddb+query+<discid>+<n>+<off_0>+...+<off_n-1>+<secs>&hello=<user>+<email>+<app>+<version>&proto=<proto>
//	cmd=cddb+read+<category>+<discid>&hello=<user>+<host>+<app>+<version>&proto=<proto>
//
// Responses are line oriented: a status header, zero or more body lines, and
// a terminating ".". Both decoders classify body lines through a small, ordered
// rule table; the first rule that accepts a line wins and unmatched lines are
// skipped. Finding nothing is a valid, empty result rather than an error.
//
// The read decoder appends tracks in the order TTITLE lines appear and ignores
// their numeric suffix, so it assumes the server emits TTITLE lines in
// ascending, contiguous order.
package freedb
