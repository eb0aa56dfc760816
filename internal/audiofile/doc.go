// Package audiofile derives album layouts from ripped audio files and writes
// freedb metadata back into them.
//
// Track lengths come from FLAC STREAMINFO blocks and MP4 movie headers and are
// converted to CD sectors (75 per second), so a directory of rips can be
// identified without the original disc. Tagging writes Vorbis comments into
// FLAC files and ID3v2 frames into MP3 files.
package audiofile
