package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// cfgFile is the optional config file path shared by every subcommand.
var cfgFile string

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shelf",
		Short: "Shelf API - tasks and library lending over HTTP",
		Long: `Shelf serves a task manager and a lending library over a JSON HTTP API.

List endpoints accept searchTerm, sort, page, limit and fields parameters,
plus filters such as priority=high or copies[gte]=1.

Configuration is read from config.yaml (or --config) and SHELF_* environment
variables, which take precedence.`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default ./config.yaml when present)")

	cmd.AddCommand(newServeCmd(), newMigrateCmd())
	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
