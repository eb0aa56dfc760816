package freedb

import (
	"platter/internal/album"
)

// ReadResult is a decoded read response. Album track lengths are always zero
// because read responses carry no timing.
type ReadResult struct {
	Header Header      `json:"header"`
	DiscID string      `json:"disc_id"`
	Album  album.Album `json:"album"`
}

// Empty reports whether no disc fields were found.
func (r ReadResult) Empty() bool {
	a := r.Album
	return r.DiscID == "" && a.Title == "" && a.Artist == "" && a.Year == "" && a.Genre == "" && len(a.Tracks) == 0
}

var readRules = []lineRule[ReadResult]{
	{
		name: "discid",
		apply: func(line string, acc *ReadResult) bool {
			value, ok := cutTag(line, "DISCID")
			if ok {
				acc.DiscID = value
			}
			return ok
		},
	},
	{
		name: "dtitle",
		apply: func(line string, acc *ReadResult) bool {
			value, ok := cutTag(line, "DTITLE")
			if !ok {
				return false
			}
			if artist, title, split := splitArtistTitle(value); split {
				acc.Album.Artist, acc.Album.Title = artist, title
			} else {
				acc.Album.Artist, acc.Album.Title = "", value
			}
			return true
		},
	},
	{
		name: "dyear",
		apply: func(line string, acc *ReadResult) bool {
			value, ok := cutTag(line, "DYEAR")
			if ok {
				acc.Album.Year = value
			}
			return ok
		},
	},
	{
		name: "dgenre",
		apply: func(line string, acc *ReadResult) bool {
			value, ok := cutTag(line, "DGENRE")
			if ok {
				acc.Album.Genre = value
			}
			return ok
		},
	},
	{
		name: "ttitle",
		apply: func(line string, acc *ReadResult) bool {
			value, ok := cutIndexedTag(line, "TTITLE")
			if !ok {
				return false
			}
			track := album.Track{Title: value}
			if artist, title, split := splitArtistTitle(value); split {
				track.Artist, track.Title = artist, title
			}
			acc.Album.Tracks = append(acc.Album.Tracks, track)
			return true
		},
	},
}

// ParseReadLines decodes the lines of a read response. Repeated single-value
// tags keep their last value.
func ParseReadLines(lines []string) ReadResult {
	head, body := splitResponse(lines)
	result := ReadResult{Header: ParseHeader(head), Album: album.New(nil)}
	if len(lines) == 0 {
		return result
	}
	dispatch(readRules, body, &result)
	return result
}
