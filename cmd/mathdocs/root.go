package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/m3360202/mathTest/internal/version"
)

const defaultServer = "http://localhost:3000"

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	rootCmd := &cobra.Command{
		Use:           "mathdocs",
		Short:         "Math document similarity search",
		Version:       version.Version + " (" + version.Commit + ", " + version.Date + ")",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	server := os.Getenv("MATHDOCS_SERVER")
	if server == "" {
		server = defaultServer
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&ctx.server, "server", server, "mathdocs server URL ($MATHDOCS_SERVER)")
	flags.StringVar(&ctx.apiKey, "api-key", os.Getenv("MATHDOCS_API_KEY"), "API key ($MATHDOCS_API_KEY)")
	flags.DurationVar(&ctx.timeout, "timeout", 60*time.Second, "Request timeout")
	flags.BoolVar(&ctx.jsonOutput, "json", false, "Print raw JSON instead of tables")

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newUploadCommand(ctx))
	rootCmd.AddCommand(newSearchCommand(ctx))
	rootCmd.AddCommand(newDocsCommand(ctx))
	rootCmd.AddCommand(newStatsCommand(ctx))
	rootCmd.AddCommand(newStatusCommand(ctx))

	return rootCmd
}
