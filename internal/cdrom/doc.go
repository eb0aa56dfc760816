// Package cdrom reads the table of contents of an audio CD.
//
// On Linux the drive is queried with the CDROMREADTOCHDR and
// CDROMREADTOCENTRY ioctls; other platforms return ErrUnsupported. TOC
// converts the raw LBA entries into an album.Album whose lead-in matches the
// first track, so the freedb disc ID computed from it equals the one servers
// expect.
package cdrom
