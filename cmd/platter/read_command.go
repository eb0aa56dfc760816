package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"platter/internal/catalog"
	"platter/internal/discid"
	"platter/internal/fault"
	"platter/internal/freedb"
)

type readReport struct {
	Command string             `json:"command"`
	URL     string             `json:"url"`
	Result  *freedb.ReadResult `json:"result,omitempty"`
	Saved   *catalog.Entry     `json:"saved,omitempty"`
}

func newReadCommand(ctx *commandContext) *cobra.Command {
	var send bool
	var save bool
	var server string

	cmd := &cobra.Command{
		Use:   "read <category> <discid>",
		Short: "Build, and optionally send, a cddb read command",
		Long: `Build, and optionally send, a cddb read command.

--save stores the decoded entry in the catalog and implies --send.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := freedb.ParseCategory(args[0])
			if err != nil {
				return err
			}
			disc, err := discid.ParseID(args[1])
			if err != nil {
				return err
			}
			svc, err := ctx.lookupService(server)
			if err != nil {
				return err
			}
			command, err := freedb.ReadCommand(category, disc, svc.Identity())
			if err != nil {
				return err
			}
			report := readReport{Command: command, URL: freedb.URL(svc.Client().Server(), command)}

			if send || save {
				result, err := svc.Read(cmd.Context(), category, disc)
				if err != nil {
					return err
				}
				if result.Empty() {
					return fault.Wrap(fault.ErrNotFound, "cli", "read", "empty entry for "+category.String()+"/"+disc.Hex(), nil)
				}
				report.Result = &result
			}
			if save {
				err := ctx.withCatalog(func(store *catalog.Store) error {
					entry, err := store.Save(cmd.Context(), disc, category, svc.Client().Server(), report.Result.Album)
					report.Saved = entry
					return err
				})
				if err != nil {
					return err
				}
			}

			if ctx.JSONMode() {
				return writeJSON(cmd, report)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, report.Command)
			if report.Result == nil {
				return nil
			}
			fmt.Fprintln(out)
			renderHeader(out, report.Result.Header)
			renderAlbum(out, report.Result.Album)
			if report.Saved != nil {
				fmt.Fprintf(out, "Saved to catalog as %s/%s\n", report.Saved.Category, report.Saved.DiscID.Hex())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&send, "send", false, "Send the command to the server and decode the response")
	cmd.Flags().BoolVar(&save, "save", false, "Store the decoded entry in the catalog")
	cmd.Flags().StringVar(&server, "server", "", "freedb endpoint (default: first configured server)")
	return cmd
}
