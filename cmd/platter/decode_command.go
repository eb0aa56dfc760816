package main

import (
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"platter/internal/fault"
	"platter/internal/freedb"
)

func newDecodeCommand(ctx *commandContext) *cobra.Command {
	var charset string

	cmd := &cobra.Command{
		Use:   "decode query|read [FILE|-]",
		Short: "Decode a captured freedb response",
		Long: `Decode a captured freedb response.

The response is read from FILE, or from stdin when FILE is omitted or "-".
Text is decoded with freedb.charset unless --charset is given.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := freedb.ParseCommandKind(args[0])
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			name := cfg.Freedb.Charset
			if strings.TrimSpace(charset) != "" {
				name = charset
			}
			decoder, err := freedb.NewDecoder(name)
			if err != nil {
				return err
			}

			path := "-"
			if len(args) == 2 {
				path = args[1]
			}
			raw, err := readInput(cmd, path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch kind {
			case freedb.Query:
				result, err := decoder.Query(raw)
				if err != nil {
					return err
				}
				if ctx.JSONMode() {
					return writeJSON(cmd, result)
				}
				renderHeader(out, result.Header)
				renderMatches(out, result.Candidates())
			default:
				result, err := decoder.Read(raw)
				if err != nil {
					return err
				}
				if ctx.JSONMode() {
					return writeJSON(cmd, result)
				}
				renderHeader(out, result.Header)
				if result.DiscID != "" {
					heading(out, "Disc ID: %s", result.DiscID)
				}
				renderAlbum(out, result.Album)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&charset, "charset", "", "Text encoding of the response")
	return cmd
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fault.Wrap(fault.ErrInvalidInput, "cli", "read stdin", "", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fault.Wrap(fault.ErrInvalidInput, "cli", "read file", path, err)
	}
	return data, nil
}
