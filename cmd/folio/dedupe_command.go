package main

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"folio/internal/catalog"
	"folio/internal/dedupe"
)

func newDedupeCommand(ctx *commandContext) *cobra.Command {
	var (
		workers     int
		limit       int
		dryRun      bool
		skipConvert bool
		jsonOut     bool
	)

	cmd := &cobra.Command{
		Use:   "dedupe",
		Short: "Resolve identifiers claimed by more than one title",
		Long: `Resolve every ISBN that maps to more than one title.

Equivalent claimants are merged into a single surviving title; ambiguous
groups are rerouted to the placeholder title. After a clean run without a
limit the catalog is constrained to one title per ISBN.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cfg := *base
			if cmd.Flags().Changed("workers") {
				cfg.Dedupe.Workers = workers
			}
			if cmd.Flags().Changed("limit") {
				cfg.Dedupe.Limit = limit
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			var summary dedupe.Summary
			err = withStore(&cfg, func(store *catalog.Store, logger *slog.Logger) error {
				runner, err := dedupe.NewRunner(&cfg, store, dedupe.Options{DryRun: dryRun, SkipConvert: skipConvert}, logger)
				if err != nil {
					return err
				}
				summary, err = runner.Run(cmd.Context())
				return err
			})
			if err != nil {
				return fmt.Errorf("dedupe: %w", err)
			}

			if jsonOut {
				if err := writeJSON(cmd, summary); err != nil {
					return err
				}
			} else if err := printDedupeSummary(cmd.OutOrStdout(), summary); err != nil {
				return err
			}
			if summary.Errored > 0 {
				return fmt.Errorf("dedupe: %d groups failed to resolve; see the log for details", summary.Errored)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Worker pool size (0 = CPUs-1, negative = CPUs+n+1)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Resolve at most this many conflicting ISBNs")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Evaluate every group and roll back all changes")
	cmd.Flags().BoolVar(&skipConvert, "skip-convert", false, "Skip the ISBN-10/ISBN-13 conversion pass")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output the run summary as JSON")
	return cmd
}

func printDedupeSummary(out io.Writer, summary dedupe.Summary) error {
	if summary.DryRun {
		fmt.Fprintln(out, "Dry run: no changes were committed")
	}
	fmt.Fprintf(out, "Groups resolved: %d\n", summary.Resolved)
	fmt.Fprintf(out, "Groups errored: %d\n", summary.Errored)
	fmt.Fprintf(out, "ISBNs synthesized: %d\n", summary.Synthesized())
	fmt.Fprintln(out)

	rows := [][]string{
		{"Groups seen", strconv.Itoa(summary.Seen)},
		{"Merged", strconv.Itoa(summary.Merged)},
		{"Disowned", strconv.Itoa(summary.Disowned)},
		{"Already resolved", strconv.Itoa(summary.AlreadyResolved)},
		{"Inconsistent state", strconv.Itoa(summary.Inconsistent)},
		{"Malformed ISBNs", strconv.Itoa(summary.Convert.Invalid)},
		{"Workers", strconv.Itoa(summary.Workers)},
		{"Constrained", yesNo(summary.Constrained)},
		{"Duration", summary.Duration.Round(time.Millisecond).String()},
		{"Run ID", summary.RunID},
	}
	return writeTable(out, []string{"Metric", "Value"}, rows, []columnAlignment{alignLeft, alignRight})
}
