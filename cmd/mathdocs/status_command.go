package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/m3360202/mathTest/pkg/client"
)

var errDegraded = errors.New("service degraded")

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check the server and its dependencies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return ctx.withClient(func(cl *client.Client) error {
				st, err := cl.Status(cmd.Context())
				if err != nil {
					return err
				}
				err = ctx.output(cmd, st, func() error {
					rows := [][]string{
						{"Main service", st.MainService},
						{"Parser service", st.ParserService},
						{"Document store", st.DocumentStore},
					}
					if st.Cache != "" {
						rows = append(rows, []string{"Extraction cache", st.Cache})
					}
					fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Component", "Status"}, rows, nil))
					return nil
				})
				if err != nil {
					return err
				}
				if !st.Healthy() {
					return errDegraded
				}
				return nil
			})
		},
	}
}
