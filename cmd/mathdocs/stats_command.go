package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/m3360202/mathTest/pkg/client"
)

func newStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show document store statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return ctx.withClient(func(cl *client.Client) error {
				st, err := cl.Stats(cmd.Context())
				if err != nil {
					return err
				}
				return ctx.output(cmd, st, func() error {
					out := cmd.OutOrStdout()
					fmt.Fprintln(out, renderTable(
						[]string{"Metric", "Value"},
						[][]string{
							{"Documents", strconv.Itoa(st.TotalDocuments)},
							{"Total characters", strconv.Itoa(st.TotalStorage)},
							{"Average length", strconv.Itoa(st.AverageContentLength)},
						},
						[]columnAlignment{alignLeft, alignRight},
					))

					types := make([]string, 0, len(st.FileTypes))
					for ft := range st.FileTypes {
						types = append(types, ft)
					}
					sort.Strings(types)
					rows := make([][]string, len(types))
					for i, ft := range types {
						rows[i] = []string{ft, strconv.Itoa(st.FileTypes[ft])}
					}
					if len(rows) > 0 {
						fmt.Fprintln(out, renderTable([]string{"File type", "Count"}, rows,
							[]columnAlignment{alignLeft, alignRight}))
					}
					return nil
				})
			})
		},
	}
}
