package cdrom

import (
	"errors"
	"fmt"

	"platter/internal/album"
	"platter/internal/discid"
	"platter/internal/fault"
)

// ErrUnsupported is returned where the platform has no CD-ROM ioctls.
var ErrUnsupported = errors.New("cdrom: reading a TOC is not supported on this platform")

// Entry is one track as reported by the drive.
type Entry struct {
	Track uint8  `json:"track"`
	LBA   uint32 `json:"lba"`
	Data  bool   `json:"data,omitempty"`
}

// TOC is a disc table of contents in logical block addresses. LBA 0 is the
// first sector after the two second pregap, freedb offset 150.
type TOC struct {
	First   uint8   `json:"first"`
	Last    uint8   `json:"last"`
	Entries []Entry `json:"entries"`
	LeadOut uint32  `json:"lead_out"`
}

// Validate checks that entries are present and strictly ascending.
func (t TOC) Validate() error {
	if len(t.Entries) == 0 {
		return fault.Invalid("cdrom", "toc", "disc has no tracks")
	}
	if len(t.Entries) > discid.MaxTracks {
		return fault.Invalid("cdrom", "toc", fmt.Sprintf("%d tracks exceeds %d", len(t.Entries), discid.MaxTracks))
	}
	prev := t.Entries[0].LBA
	for _, e := range t.Entries[1:] {
		if e.LBA <= prev {
			return fault.Invalid("cdrom", "toc", fmt.Sprintf("track %d starts at %d, not after %d", e.Track, e.LBA, prev))
		}
		prev = e.LBA
	}
	if t.LeadOut <= prev {
		return fault.Invalid("cdrom", "toc", fmt.Sprintf("lead-out %d precedes last track at %d", t.LeadOut, prev))
	}
	return nil
}

// Offsets returns freedb offsets: track starts plus the lead-out, each
// shifted by the standard lead-in.
func (t TOC) Offsets() ([]uint32, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	offsets := make([]uint32, 0, len(t.Entries)+1)
	for _, e := range t.Entries {
		offsets = append(offsets, e.LBA+discid.DefaultLeadIn)
	}
	return append(offsets, t.LeadOut+discid.DefaultLeadIn), nil
}

// Album converts the TOC into track lengths. Data tracks are kept because
// they count toward the disc ID.
func (t TOC) Album() (album.Album, error) {
	offsets, err := t.Offsets()
	if err != nil {
		return album.Album{}, err
	}
	sectors := make([]uint32, len(offsets)-1)
	for i := range sectors {
		sectors[i] = offsets[i+1] - offsets[i]
	}
	a := album.FromSectors(sectors)
	if offsets[0] != discid.DefaultLeadIn {
		a.LeadIn = offsets[0]
	}
	return a, nil
}

// DiscID computes the freedb identifier straight from the TOC.
func (t TOC) DiscID() (discid.ID, error) {
	offsets, err := t.Offsets()
	if err != nil {
		return 0, err
	}
	return discid.Compute(offsets)
}
