// Package discid computes freedb/CDDB disc identifiers.
//
// A disc identifier packs three fields into 32 bits: the digit-sum checksum of
// every track start (mod 255) in the top byte, the total playing time in
// seconds in the middle 16 bits, and the track count in the low byte. All
// arithmetic is uint32 and wraps silently, which is what freedb servers
// expect.
package discid
