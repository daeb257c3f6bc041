package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/m3360202/mathTest/pkg/client"
)

func newUploadCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file.docx>...",
		Short: "Upload .docx files for extraction and indexing",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(cl *client.Client) error {
				results := make([]*client.UploadResult, 0, len(args))
				var failed []error
				rows := make([][]string, 0, len(args))

				for _, path := range args {
					res, err := cl.UploadFile(cmd.Context(), path)
					if err != nil {
						failed = append(failed, fmt.Errorf("%s: %w", path, err))
						rows = append(rows, []string{path, "", "", "failed: " + err.Error()})
						continue
					}
					results = append(results, res)
					rows = append(rows, []string{
						res.Filename, res.DocumentID, strconv.Itoa(res.ContentLength), singleLine(res.ContentPreview),
					})
				}

				err := ctx.output(cmd, results, func() error {
					fmt.Fprintln(cmd.OutOrStdout(), renderTable(
						[]string{"File", "Document ID", "Length", "Preview"},
						rows,
						[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
					))
					return nil
				})
				if err != nil {
					return err
				}
				return errors.Join(failed...)
			})
		},
	}
}
