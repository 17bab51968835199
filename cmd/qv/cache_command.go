package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage cached query results",
	}

	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))
	cacheCmd.AddCommand(newCachePathCommand(ctx))

	return cacheCmd
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.resultStore()
			if err != nil {
				return err
			}
			stats, err := store.Stats()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Directory: %s\n", store.Dir())
			fmt.Fprintf(out, "Entries:   %s (%s)\n", pluralEntries(stats.Entries), humanBytes(stats.TotalBytes))
			if stats.Entries == 0 {
				return nil
			}

			const stampLayout = "2006-01-02 15:04"
			rows := make([][]string, 0, len(stats.Summaries))
			for _, entry := range stats.Summaries {
				digest := entry.Digest
				if len(digest) > 12 {
					digest = digest[:12]
				}
				rows = append(rows, []string{
					digest,
					humanBytes(entry.SizeBytes),
					entry.ModifiedAt.Local().Format(stampLayout),
				})
			}
			fmt.Fprintln(out, renderTable([]string{"DIGEST", "SIZE", "UPDATED"}, rows))
			return nil
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all cached query results",
		RunE: func(cmd *cobra.Command, args []string) error {
			return clearCacheAndReport(cmd, ctx)
		},
	}
}

func newCachePathCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.resultStore()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), store.Dir())
			return nil
		},
	}
}
