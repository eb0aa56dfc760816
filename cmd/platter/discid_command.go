package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"platter/internal/album"
	"platter/internal/discid"
)

type discIDReport struct {
	DiscID       discid.ID   `json:"disc_id"`
	Source       string      `json:"source"`
	Tracks       int         `json:"tracks"`
	TotalSeconds uint32      `json:"total_seconds"`
	Offsets      []uint32    `json:"offsets"`
	Album        album.Album `json:"album"`
}

func newDiscIDCommand(ctx *commandContext) *cobra.Command {
	var source albumSource

	cmd := &cobra.Command{
		Use:   "discid",
		Short: "Compute the freedb disc ID of an album",
		Long: `Compute the freedb disc ID of an album.

Track lengths come from exactly one source:
  --sectors   comma separated lengths in 1/75 s sectors
  --files     a directory of ripped FLAC or M4A tracks, in file name order
  --device    the TOC of an optical drive (default: drive.device)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			a, origin, err := source.load(cfg)
			if err != nil {
				return err
			}
			report, err := buildDiscIDReport(a, origin)
			if err != nil {
				return err
			}

			if ctx.JSONMode() {
				return writeJSON(cmd, report)
			}
			out := cmd.OutOrStdout()
			heading(out, "Disc ID: %s", report.DiscID.Hex())
			fmt.Fprintf(out, "Source: %s\n", report.Source)
			fmt.Fprintf(out, "Tracks: %d | Length: %s\n\n", report.Tracks, album.FormatLength(report.TotalSeconds))
			renderAlbum(out, a)
			return nil
		},
	}
	source.bind(cmd)
	return cmd
}

func buildDiscIDReport(a album.Album, origin string) (discIDReport, error) {
	offsets, err := a.Offsets()
	if err != nil {
		return discIDReport{}, err
	}
	id, err := discid.Compute(offsets)
	if err != nil {
		return discIDReport{}, err
	}
	return discIDReport{
		DiscID:       id,
		Source:       origin,
		Tracks:       len(a.Tracks),
		TotalSeconds: offsets[len(offsets)-1] / discid.FramesPerSecond,
		Offsets:      offsets,
		Album:        a,
	}, nil
}
