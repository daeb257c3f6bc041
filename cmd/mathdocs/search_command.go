package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/m3360202/mathTest/pkg/client"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Find documents similar to a query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return ctx.withClient(func(cl *client.Client) error {
				res, err := cl.Search(cmd.Context(), query, limit)
				if err != nil {
					return err
				}
				return ctx.output(cmd, res, func() error {
					out := cmd.OutOrStdout()
					if len(res.Hits) == 0 {
						fmt.Fprintf(out, "No documents match %q\n", query)
						return nil
					}
					rows := make([][]string, len(res.Hits))
					for i, hit := range res.Hits {
						name, _ := hit.Metadata["filename"].(string)
						rows[i] = []string{
							strconv.Itoa(i + 1),
							strconv.FormatFloat(hit.Score, 'f', 4, 64),
							name,
							hit.ID,
							singleLine(previewRunes(hit.Content, 80)),
						}
					}
					fmt.Fprintln(out, renderTable(
						[]string{"#", "Score", "File", "Document ID", "Content"},
						rows,
						[]columnAlignment{alignRight, alignRight, alignLeft, alignLeft, alignLeft},
					))
					return nil
				})
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum results (0 for the server default)")
	return cmd
}

func previewRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
