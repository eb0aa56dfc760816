package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"platter/internal/catalog"
	"platter/internal/fault"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect and manage saved albums",
		Long: `Inspect and manage saved albums.

The catalog holds albums saved with --save or by the watcher. Lookups never
consult it.

Commands:
  list     - List saved albums
  show     - Show one album by number (see 'list' for numbers)
  remove   - Remove one album by number
  clear    - Remove every album`,
	}

	catalogCmd.AddCommand(newCatalogListCommand(ctx))
	catalogCmd.AddCommand(newCatalogShowCommand(ctx))
	catalogCmd.AddCommand(newCatalogRemoveCommand(ctx))
	catalogCmd.AddCommand(newCatalogClearCommand(ctx))

	return catalogCmd
}

func newCatalogListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved albums, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCatalog(func(store *catalog.Store) error {
				entries, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				if ctx.JSONMode() {
					if entries == nil {
						entries = []catalog.Entry{}
					}
					return writeJSON(cmd, entries)
				}
				out := cmd.OutOrStdout()
				if len(entries) == 0 {
					fmt.Fprintln(out, "Catalog: empty")
					return nil
				}
				fmt.Fprintf(out, "Catalog: %d albums\n", len(entries))
				renderEntries(out, entries)
				return nil
			})
		},
	}
}

func newCatalogShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <number>",
		Short: "Show one saved album",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCatalog(func(store *catalog.Store) error {
				entry, err := entryByNumber(cmd, store, args[0])
				if err != nil {
					return err
				}
				if ctx.JSONMode() {
					return writeJSON(cmd, entry)
				}
				out := cmd.OutOrStdout()
				heading(out, "Disc ID: %s (%s)", entry.DiscID.Hex(), entry.Category)
				if entry.Server != "" {
					fmt.Fprintf(out, "Server: %s\n", entry.Server)
				}
				fmt.Fprintf(out, "Saved: %s\n\n", entry.UpdatedAt.Local().Format("2006-01-02 15:04"))
				renderAlbum(out, entry.Album)
				return nil
			})
		},
	}
}

func newCatalogRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <number>",
		Short: "Remove one saved album by number",
		Long: `Remove one saved album by its number from 'platter catalog list'.

Example:
  platter catalog list        # Shows numbered list of saved albums
  platter catalog remove 2    # Removes album #2 from the list`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCatalog(func(store *catalog.Store) error {
				entry, err := entryByNumber(cmd, store, args[0])
				if err != nil {
					return err
				}
				if err := store.Remove(cmd.Context(), entry.ID); err != nil {
					return err
				}
				if ctx.JSONMode() {
					return writeJSON(cmd, map[string]any{
						"removed": true,
						"entry":   args[0],
						"disc_id": entry.DiscID,
						"title":   entry.Album.Title,
					})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed catalog entry %s (%s)\n", args[0], entry.Album.Title)
				return nil
			})
		},
	}
}

func newCatalogClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every saved album",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCatalog(func(store *catalog.Store) error {
				removed, err := store.Clear(cmd.Context())
				if err != nil {
					return err
				}
				if ctx.JSONMode() {
					return writeJSON(cmd, map[string]any{"cleared": removed})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d catalog entries\n", removed)
				return nil
			})
		},
	}
}

// entryByNumber resolves the 1-based position shown by 'catalog list'.
func entryByNumber(cmd *cobra.Command, store *catalog.Store, arg string) (*catalog.Entry, error) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || n < 1 {
		return nil, fault.Invalid("cli", "catalog", fmt.Sprintf("invalid entry number: %s (must be a positive integer)", arg))
	}
	entries, err := store.List(cmd.Context())
	if err != nil {
		return nil, err
	}
	if n > len(entries) {
		return nil, fault.Wrap(fault.ErrNotFound, "cli", "catalog", fmt.Sprintf("entry %d out of range (only %d entries exist)", n, len(entries)), nil)
	}
	return &entries[n-1], nil
}
