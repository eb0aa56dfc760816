// Package album models the track layout and metadata of an audio CD.
package album

import (
	"fmt"
	"strings"

	"platter/internal/discid"
	"platter/internal/fault"
)

// Track is one audio track. Sectors is the track length in 1/75 s units and is
// zero when the length is unknown (for example after a freedb read).
type Track struct {
	Sectors uint32 `json:"sectors"`
	Artist  string `json:"artist,omitempty"`
	Title   string `json:"title,omitempty"`
}

// Seconds returns the whole-second length of the track.
func (t Track) Seconds() uint32 {
	return t.Sectors / discid.FramesPerSecond
}

// String joins artist, title, and length with " - ", skipping empty parts.
func (t Track) String() string {
	parts := make([]string, 0, 3)
	if t.Artist != "" {
		parts = append(parts, t.Artist)
	}
	if t.Title != "" {
		parts = append(parts, t.Title)
	}
	if t.Sectors > 0 {
		parts = append(parts, FormatLength(t.Seconds()))
	}
	return strings.Join(parts, " - ")
}

// Album is an ordered list of tracks plus disc-level metadata. Track order is
// the physical order on the disc.
type Album struct {
	Tracks []Track `json:"tracks"`
	Title  string  `json:"title,omitempty"`
	Artist string  `json:"artist,omitempty"`
	Year   string  `json:"year,omitempty"`
	Genre  string  `json:"genre,omitempty"`
	// LeadIn is the first track's start sector; zero means discid.DefaultLeadIn.
	LeadIn uint32  `json:"lead_in,omitempty"`
}

// New builds an album that owns a private copy of tracks.
func New(tracks []Track) Album {
	owned := make([]Track, len(tracks))
	copy(owned, tracks)
	return Album{Tracks: owned}
}

// FromSectors builds an album from bare track lengths.
func FromSectors(sectors []uint32) Album {
	tracks := make([]Track, len(sectors))
	for i, s := range sectors {
		tracks[i] = Track{Sectors: s}
	}
	return Album{Tracks: tracks}
}

// WithMetadata returns a copy of a with the disc-level fields replaced.
func (a Album) WithMetadata(title, artist, year, genre string) Album {
	out := New(a.Tracks)
	out.Title = title
	out.Artist = artist
	out.Year = year
	out.Genre = genre
	out.LeadIn = a.LeadIn
	return out
}

// Offsets returns track start sectors plus the lead-out using the album's
// lead-in.
func (a Album) Offsets() ([]uint32, error) {
	if a.LeadIn == 0 {
		return a.OffsetsFrom(discid.DefaultLeadIn)
	}
	return a.OffsetsFrom(a.LeadIn)
}

// OffsetsFrom returns leadIn followed by the cumulative sum of every track
// length: k+1 entries for k tracks, the last one being the lead-out.
func (a Album) OffsetsFrom(leadIn uint32) ([]uint32, error) {
	if len(a.Tracks) == 0 {
		return nil, fault.Invalid("album", "offsets", "album has no tracks")
	}
	if len(a.Tracks) > discid.MaxTracks {
		return nil, fault.Invalid("album", "offsets",
			fmt.Sprintf("album has %d tracks, at most %d fit on a disc", len(a.Tracks), discid.MaxTracks))
	}
	offsets := make([]uint32, 0, len(a.Tracks)+1)
	current := leadIn
	offsets = append(offsets, current)
	for _, track := range a.Tracks {
		current += track.Sectors
		offsets = append(offsets, current)
	}
	return offsets, nil
}

// DiscID computes the freedb identifier of the album's track layout.
func (a Album) DiscID() (discid.ID, error) {
	offsets, err := a.Offsets()
	if err != nil {
		return 0, err
	}
	return discid.Compute(offsets)
}

// DiscIDHex renders DiscID as lowercase hex, prefixed with 0x when asked.
func (a Album) DiscIDHex(prefix bool) (string, error) {
	id, err := a.DiscID()
	if err != nil {
		return "", err
	}
	if prefix {
		return "0x" + id.Hex(), nil
	}
	return id.Hex(), nil
}

// TotalSeconds returns the lead-out sector divided by 75, the disc length
// field of a freedb query.
func (a Album) TotalSeconds() (uint32, error) {
	offsets, err := a.Offsets()
	if err != nil {
		return 0, err
	}
	return offsets[len(offsets)-1] / discid.FramesPerSecond, nil
}

// String renders a human readable listing of the album.
func (a Album) String() string {
	var b strings.Builder
	if a.Artist != "" {
		fmt.Fprintf(&b, "%s - %s\n", a.Artist, a.Title)
	} else {
		fmt.Fprintf(&b, "*%s\n", a.Title)
	}
	if len(a.Tracks) == 0 {
		b.WriteString("  Empty AudioCD")
		return b.String()
	}
	for i, track := range a.Tracks {
		fmt.Fprintf(&b, "%02d: %s\n", i+1, track)
	}
	return b.String()
}

// FormatLength renders seconds as mm:ss, or h:mm:ss from one hour up.
func FormatLength(seconds uint32) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h != 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
