package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"platter/internal/fault"
	"platter/internal/freedb"
)

type queryReport struct {
	Command string              `json:"command"`
	URL     string              `json:"url"`
	Result  *freedb.QueryResult `json:"result,omitempty"`
	Matches []freedb.Match      `json:"matches,omitempty"`
}

func newQueryCommand(ctx *commandContext) *cobra.Command {
	var source albumSource
	var send bool
	var server string

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Build, and optionally send, a cddb query command",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			a, _, err := source.load(cfg)
			if err != nil {
				return err
			}
			svc, err := ctx.lookupService(server)
			if err != nil {
				return err
			}
			command, err := freedb.QueryCommand(a, svc.Identity())
			if err != nil {
				return err
			}
			report := queryReport{Command: command, URL: freedb.URL(svc.Client().Server(), command)}

			var sendErr error
			if send {
				result, err := svc.Query(cmd.Context(), a)
				if err != nil && !errors.Is(err, fault.ErrNotFound) {
					return err
				}
				report.Result = &result
				report.Matches = result.Candidates()
				sendErr = err
			}

			if ctx.JSONMode() {
				if err := writeJSON(cmd, report); err != nil {
					return err
				}
				return sendErr
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, report.Command)
			if !send {
				return nil
			}
			fmt.Fprintf(out, "\nServer: %s\n", svc.Client().Server())
			if report.Result != nil {
				renderHeader(out, report.Result.Header)
			}
			renderMatches(out, report.Matches)
			return sendErr
		},
	}
	source.bind(cmd)
	cmd.Flags().BoolVar(&send, "send", false, "Send the command to the server and decode the response")
	cmd.Flags().StringVar(&server, "server", "", "freedb endpoint (default: first configured server)")
	return cmd
}
