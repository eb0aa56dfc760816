package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"platter/internal/album"
	"platter/internal/audiofile"
	"platter/internal/cdrom"
	"platter/internal/config"
	"platter/internal/fault"
)

// albumSource holds the flags that describe where track lengths come from.
// With none set, the configured drive is read.
type albumSource struct {
	sectors string
	files   string
	device  string
	leadIn  uint32
}

func (s *albumSource) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.sectors, "sectors", "", "Comma separated track lengths in sectors (1/75 s)")
	cmd.Flags().StringVar(&s.files, "files", "", "Directory of ripped FLAC or M4A tracks")
	cmd.Flags().StringVar(&s.device, "device", "", "Optical drive to read the TOC from")
	cmd.Flags().Uint32Var(&s.leadIn, "lead-in", 0, "Offset of the first track in sectors (default 150)")
}

// load resolves the album and a short description of where it came from.
func (s *albumSource) load(cfg *config.Config) (album.Album, string, error) {
	set := 0
	for _, v := range []string{s.sectors, s.files, s.device} {
		if strings.TrimSpace(v) != "" {
			set++
		}
	}
	if set > 1 {
		return album.Album{}, "", fault.Invalid("cli", "album source", "use only one of --sectors, --files, --device")
	}

	var (
		a      album.Album
		origin string
		err    error
	)
	switch {
	case strings.TrimSpace(s.sectors) != "":
		a, err = parseSectors(s.sectors)
		origin = "sectors"
	case strings.TrimSpace(s.files) != "":
		dir, perr := config.ExpandPath(strings.TrimSpace(s.files))
		if perr != nil {
			return album.Album{}, "", fault.Wrap(fault.ErrInvalidInput, "cli", "files", s.files, perr)
		}
		a, _, err = audiofile.AlbumFromDir(dir)
		origin = dir
	default:
		device := strings.TrimSpace(s.device)
		if device == "" && cfg != nil {
			device = cfg.Drive.Device
		}
		var toc cdrom.TOC
		toc, err = cdrom.ReadTOC(device)
		if err == nil {
			a, err = toc.Album()
		}
		origin = device
	}
	if err != nil {
		return album.Album{}, "", err
	}
	if s.leadIn != 0 {
		a.LeadIn = s.leadIn
	}
	return a, origin, nil
}

func parseSectors(value string) (album.Album, error) {
	parts := strings.Split(value, ",")
	sectors := make([]uint32, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			return album.Album{}, fault.Invalid("cli", "sectors", fmt.Sprintf("%q is not a sector count", part))
		}
		sectors = append(sectors, uint32(n))
	}
	if len(sectors) == 0 {
		return album.Album{}, fault.Invalid("cli", "sectors", "no track lengths given")
	}
	return album.FromSectors(sectors), nil
}
