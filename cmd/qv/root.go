package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"qv/internal/engine"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var logLevelFlag string

	ctx := newCommandContext(&configFlag, &logLevelFlag)

	var queryFlag string
	var formatFlag string
	var noCacheFlag bool
	var clearCacheFlag bool

	rootCmd := &cobra.Command{
		Use:   "qv PATH",
		Short: "Query data files with DuckDB and view the result in VisiData",
		Long: `qv runs a SQL query against a local or cloud-hosted data file (or a
folder of files) through an embedded DuckDB engine, caches the result as
Parquet, and opens it in VisiData. The source is available to the query
as a view named "table".`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if clearCacheFlag {
				return clearCacheAndReport(cmd, ctx)
			}
			if len(args) == 0 {
				return fmt.Errorf("missing argument PATH (run with --help for usage)")
			}

			runner, err := newRunner(ctx)
			if err != nil {
				return err
			}
			return runner.run(cmd.Context(), args[0], runOptions{
				query:   queryFlag,
				format:  formatFlag,
				noCache: noCacheFlag,
			})
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Override log level (debug, info, warn, error)")

	rootCmd.Flags().StringVarP(&queryFlag, "query", "q", engine.DefaultQuery, "SQL to run against the source")
	rootCmd.Flags().StringVarP(&formatFlag, "file-format", "f", "", "Source file format (parquet, csv, tsv, json); required for folders")
	rootCmd.Flags().BoolVar(&noCacheFlag, "no-cache", false, "Skip the cache lookup; the fresh result still overwrites the entry")
	rootCmd.Flags().BoolVar(&clearCacheFlag, "clear-cache", false, "Delete all cached results and exit")

	rootCmd.AddCommand(newCacheCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

func clearCacheAndReport(cmd *cobra.Command, ctx *commandContext) error {
	store, err := ctx.resultStore()
	if err != nil {
		return err
	}
	removed, err := store.Clear()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from %s\n", pluralEntries(removed), store.Dir())
	return nil
}
