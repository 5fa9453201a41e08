package main

import (
	"github.com/spf13/cobra"

	"nodetree/infrastructure/config"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "nodetree",
		Short:         "Hierarchical node and property store",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the HTTP API",
			Args:  cobra.NoArgs,
			RunE:  runServe,
		},
		&cobra.Command{
			Use:       "migrate [up|down|status]",
			Short:     "Apply or inspect storage migrations",
			Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
			ValidArgs: []string{"up", "down", "status"},
			RunE:      runMigrate,
		},
		newSeedCmd(),
	)
	return root
}

func loadConfig() (*config.Config, error) {
	return config.LoadConfig()
}
