package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/m3360202/mathTest/pkg/client"
)

func newDocsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Browse stored documents",
	}
	cmd.AddCommand(newDocsListCommand(ctx))
	cmd.AddCommand(newDocsShowCommand(ctx))
	return cmd
}

func newDocsListCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored documents in upload order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return ctx.withClient(func(cl *client.Client) error {
				list, err := cl.ListDocuments(cmd.Context(), limit)
				if err != nil {
					return err
				}
				return ctx.output(cmd, list, func() error {
					out := cmd.OutOrStdout()
					if len(list.Documents) == 0 {
						fmt.Fprintln(out, "No documents stored")
						return nil
					}
					rows := make([][]string, len(list.Documents))
					for i, d := range list.Documents {
						rows[i] = []string{d.ID, d.Filename, d.UploadedAt, strconv.Itoa(d.ContentLength)}
					}
					fmt.Fprintln(out, renderTable(
						[]string{"Document ID", "File", "Uploaded", "Length"},
						rows,
						[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight},
					))
					fmt.Fprintf(out, "Showing %d of %d documents\n", len(list.Documents), list.TotalDocuments)
					return nil
				})
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum documents to list (0 for all)")
	return cmd
}

func newDocsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print a stored document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(cl *client.Client) error {
				doc, err := cl.GetDocument(cmd.Context(), args[0])
				if client.IsNotFound(err) {
					return fmt.Errorf("document %s not found", args[0])
				}
				if err != nil {
					return err
				}
				return ctx.output(cmd, doc, func() error {
					out := cmd.OutOrStdout()
					fmt.Fprintf(out, "ID: %s\n", doc.ID)
					fmt.Fprintf(out, "Metadata:\n%s\n", formatMetadata(doc.Metadata))
					fmt.Fprintln(out, doc.Content)
					return nil
				})
			})
		},
	}
}
