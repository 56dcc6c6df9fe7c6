package cmd

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/runger/sequoia/internal/config"
	"github.com/runger/sequoia/internal/store"
)

var runsFlags struct {
	limit int
}

var runsCmd = &cobra.Command{
	Use:     "runs",
	Short:   "list and inspect past mining runs",
	GroupID: groupCore,
	RunE:    runRunsList,
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "print the stored pattern spectrum for one run",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

var runsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "delete old run records, keeping only the most recent ones",
	RunE:  runRunsPrune,
}

func init() {
	runsCmd.Flags().IntVarP(&runsFlags.limit, "limit", "n", 20, "maximum number of runs to list")
	runsCmd.AddCommand(runsShowCmd, runsPruneCmd)
}

func openStore() (*store.Store, error) {
	paths := config.DefaultPaths()
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("sequoia: %w", err)
	}
	return store.Open(paths.DatabaseFile())
}

func runRunsList(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	runs, err := st.ListRuns(ctx, runsFlags.limit)
	if err != nil {
		return fmt.Errorf("sequoia: %w", err)
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no runs recorded")
		return nil
	}
	out := cmd.OutOrStdout()
	for _, r := range runs {
		started := time.Unix(r.StartedAtUnix, 0)
		status := "ok"
		if r.Error != "" {
			status = "error: " + r.Error
		}
		fmt.Fprintf(out, "%s  %s (%s)  %s  patterns=%s  transactions=%s  %s\n",
			r.RunID, started.Format(time.RFC3339), humanize.Time(started), r.SourcePath,
			humanize.Comma(int64(r.PatternCount)), humanize.Comma(int64(r.Transactions)), status)
	}
	return nil
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	run, err := st.GetRun(ctx, args[0])
	if err != nil {
		return fmt.Errorf("sequoia: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "run %s: target=%s zmin=%d zmax=%d smin=%d transactions=%d items=%d patterns=%d\n",
		run.RunID, run.Target, run.ZMin, run.ZMax, run.SMin, run.Transactions, run.Items, run.PatternCount)

	sigs, err := st.GetSpectrum(ctx, args[0])
	if err != nil {
		return fmt.Errorf("sequoia: %w", err)
	}
	for _, sig := range sigs {
		fmt.Fprintf(cmd.OutOrStdout(), "  length=%d support=%d count=%d\n", sig.Length, sig.Support, sig.Count)
	}
	return nil
}

func runRunsPrune(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	retain := cfg.Store.RetainRuns
	if retain <= 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "store.retain_runs is unlimited: no runs removed")
		return nil
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	removed, err := st.PruneRuns(ctx, retain)
	if err != nil {
		return fmt.Errorf("sequoia: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed %s run(s), retained up to %d\n", strconv.FormatInt(removed, 10), retain)
	return nil
}
