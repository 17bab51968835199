package main

import (
	"fmt"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"qv/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limitFlag int

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show past invocations",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openHistory(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.List(cmd.Context(), limitFlag)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No history recorded")
				return nil
			}

			const stampLayout = "2006-01-02 15:04"
			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				hit := "miss"
				if entry.CacheHit {
					hit = "hit"
				}
				rows = append(rows, []string{
					entry.RunAt.Local().Format(stampLayout),
					entry.Source,
					truncate(entry.Query, 60),
					hit,
					fmt.Sprintf("%dms", entry.DurationMS),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"WHEN", "SOURCE", "QUERY", "CACHE", "TOOK"}, rows))
			return nil
		},
	}

	historyCmd.Flags().IntVarP(&limitFlag, "limit", "n", 20, "Maximum entries to show (0 for all)")
	historyCmd.AddCommand(newHistoryClearCommand(ctx))

	return historyCmd
}

func newHistoryClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded invocations",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openHistory(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			removed, err := store.Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", pluralEntries(int(removed)))
			return nil
		},
	}
}

func openHistory(ctx *commandContext) (*history.Store, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.History.Enabled {
		return nil, fmt.Errorf("history is disabled (set history.enabled = true in config.toml)")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}
	return history.Open(cfg.History.Path)
}

// truncate shortens s to at most max display runes, never splitting a
// multibyte character.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max-1]) + "…"
}
