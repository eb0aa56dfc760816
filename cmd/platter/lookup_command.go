package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"platter/internal/audiofile"
	"platter/internal/catalog"
	"platter/internal/config"
	"platter/internal/fault"
	"platter/internal/lookup"
)

type lookupReport struct {
	Source         string                `json:"source"`
	Identification lookup.Identification `json:"identification"`
	Saved          *catalog.Entry        `json:"saved,omitempty"`
	Tagged         []string              `json:"tagged,omitempty"`
}

func newLookupCommand(ctx *commandContext) *cobra.Command {
	var source albumSource
	var pick int
	var save bool
	var tagDir string
	var server string

	cmd := &cobra.Command{
		Use:   "lookup",
		Short: "Identify an album: query, read the chosen match, and merge",
		Long: `Identify an album: query, read the chosen match, and merge.

The freedb entry supplies names; track lengths always come from the probed
album. --tag writes the merged names into the FLAC and MP3 files of a
directory, usually the one passed to --files.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if pick < 1 {
				return fault.Invalid("cli", "pick", "--pick counts from 1")
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			a, origin, err := source.load(cfg)
			if err != nil {
				return err
			}
			svc, err := ctx.lookupService(server)
			if err != nil {
				return err
			}

			ident, err := svc.Identify(cmd.Context(), a, pick-1)
			report := lookupReport{Source: origin, Identification: ident}
			if err != nil {
				if !ctx.JSONMode() && len(ident.Matches) > 0 {
					renderMatches(cmd.OutOrStdout(), ident.Matches)
				}
				return err
			}

			if save {
				err := ctx.withCatalog(func(store *catalog.Store) error {
					entry, err := store.Save(cmd.Context(), ident.DiscID, ident.Match.Category, ident.Server, ident.Album)
					report.Saved = entry
					return err
				})
				if err != nil {
					return err
				}
			}
			if tagDir != "" {
				dir, err := config.ExpandPath(tagDir)
				if err != nil {
					return fault.Wrap(fault.ErrInvalidInput, "cli", "tag", tagDir, err)
				}
				tagged, err := audiofile.TagDir(dir, ident.Album)
				if err != nil {
					return err
				}
				report.Tagged = tagged
			}

			if ctx.JSONMode() {
				return writeJSON(cmd, report)
			}
			out := cmd.OutOrStdout()
			heading(out, "Disc ID: %s", ident.DiscID.Hex())
			fmt.Fprintf(out, "Server: %s\n", ident.Server)
			if len(ident.Matches) > 1 {
				renderMatches(out, ident.Matches)
				fmt.Fprintf(out, "Using match %d (%s)\n", pick, ident.Match.Category)
			}
			fmt.Fprintln(out)
			renderAlbum(out, ident.Album)
			if report.Saved != nil {
				fmt.Fprintf(out, "Saved to catalog as %s/%s\n", report.Saved.Category, report.Saved.DiscID.Hex())
			}
			if len(report.Tagged) > 0 {
				fmt.Fprintf(out, "Tagged %d files\n", len(report.Tagged))
			}
			return nil
		},
	}
	source.bind(cmd)
	cmd.Flags().IntVar(&pick, "pick", 1, "Which query match to read, counting from 1")
	cmd.Flags().BoolVar(&save, "save", false, "Store the result in the catalog")
	cmd.Flags().StringVar(&tagDir, "tag", "", "Write tags into the audio files in this directory")
	cmd.Flags().StringVar(&server, "server", "", "freedb endpoint (default: first configured server)")
	return cmd
}
