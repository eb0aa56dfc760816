package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"platter/internal/catalog"
	"platter/internal/watch"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var server string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Identify discs as they are inserted",
		Long: `Identify discs as they are inserted.

Listens for udev media events on drive.device, falling back to polling the
drive when netlink is unavailable. Every disc is looked up with the first
match; with watch.auto_save the result is stored in the catalog. Only one
watcher may run per lock file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			svc, err := ctx.lookupService(server)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			opts := []watch.Option{watch.WithResultHandler(func(r watch.Result) {
				if ctx.JSONMode() {
					var msg string
					if r.Err != nil {
						msg = r.Err.Error()
					}
					_ = writeJSON(cmd, struct {
						watch.Result
						Error string `json:"error,omitempty"`
					}{r, msg})
					return
				}
				switch {
				case r.Err != nil:
					fmt.Fprintf(out, "%s: %v\n", r.Device, r.Err)
				case r.Identification != nil:
					a := r.Identification.Album
					fmt.Fprintf(out, "%s: %s %s - %s\n", r.Device, r.Identification.DiscID.Hex(), a.Artist, a.Title)
				}
			})}
			if cfg.Watch.AutoSave {
				store, err := catalog.Open(cfg)
				if err != nil {
					return err
				}
				defer store.Close()
				opts = append(opts, watch.WithSaver(store))
			}

			w, err := watch.New(cfg, svc, logger, opts...)
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(commandBase(cmd), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			fmt.Fprintf(out, "Watching %s (Ctrl-C to stop)\n", cfg.Drive.Device)
			return w.Run(runCtx)
		},
	}
	cmd.Flags().StringVar(&server, "server", "", "freedb endpoint (default: first configured server)")
	return cmd
}

func commandBase(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
