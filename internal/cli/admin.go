package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the store tables",
		Long: `Create the five tables of the store if they are missing.

Running init on an existing store is a no-op.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(rootOpts, cmd)
		},
	}
	return cmd
}

func runInit(opts *RootOptions, cmd *cobra.Command) error {
	st, state, err := openStore(cmd, opts, openCreate)
	if err != nil {
		return err
	}
	defer closeStore(st, cmd)

	tables := st.Tables()
	return newFormatter(opts, cmd).Result(
		map[string]any{
			"identifier":  st.Identifier(),
			"interned_id": tables.InternedID,
			"state":       state.String(),
			"tables":      tables.Names(),
		},
		[]string{fmt.Sprintf("store %s (%s) is %s", st.Identifier(), tables.InternedID, state)},
	)
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "stats",
		Short:         "Show per-partition statistics",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(rootOpts, cmd)
		},
	}
	return cmd
}

func runStats(opts *RootOptions, cmd *cobra.Command) error {
	st, _, err := openStore(cmd, opts, openExisting)
	if err != nil {
		return err
	}
	defer closeStore(st, cmd)

	stats, err := st.Statistics(cmd.Context())
	if err != nil {
		return storeError("statistics failed", err)
	}
	summary, err := st.Summary(cmd.Context())
	if err != nil {
		return storeError("statistics failed", err)
	}

	lines := []string{summary}
	for _, vc := range stats.Classes {
		lines = append(lines, fmt.Sprintf("  class     %8d  %s", vc.Count, vc.Value))
	}
	for _, vc := range stats.LiteralPredicates {
		lines = append(lines, fmt.Sprintf("  literal   %8d  %s", vc.Count, vc.Value))
	}
	for _, vc := range stats.AssertedPredicates {
		lines = append(lines, fmt.Sprintf("  resource  %8d  %s", vc.Count, vc.Value))
	}

	out := newFormatter(opts, cmd)
	cache := st.CacheStats()
	out.VerboseLog("term cache: %d hits, %d misses, %d entries", cache.Hits, cache.Misses, cache.Size)
	return out.Result(stats, lines)
}

// NewDestroyCommand creates the destroy command.
func NewDestroyCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "destroy",
		Short:         "Drop the store tables",
		Long:          "Drop all five tables of the store. Other stores in the same database are untouched.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDestroy(rootOpts, cmd)
		},
	}
	return cmd
}

func runDestroy(opts *RootOptions, cmd *cobra.Command) error {
	st, _, err := openStore(cmd, opts, openExisting)
	if err != nil {
		return err
	}
	defer closeStore(st, cmd)

	if err := st.Destroy(cmd.Context()); err != nil {
		return storeError("destroy failed", err)
	}
	return newFormatter(opts, cmd).Result(
		map[string]string{"destroyed": st.Tables().InternedID},
		[]string{fmt.Sprintf("store %s destroyed", st.Identifier())},
	)
}
