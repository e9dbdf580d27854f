package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"folio/internal/catalog"
	"folio/internal/dedupe"
	"folio/internal/isbn"
)

func newISBNCommand(ctx *commandContext) *cobra.Command {
	isbnCmd := &cobra.Command{
		Use:   "isbn",
		Short: "ISBN conversion utilities",
	}

	isbnCmd.AddCommand(newISBNTo13Command())
	isbnCmd.AddCommand(newISBNTo10Command())
	isbnCmd.AddCommand(newISBNConvertCommand(ctx))

	return isbnCmd
}

func newISBNTo13Command() *cobra.Command {
	return &cobra.Command{
		Use:         "to13 <isbn>...",
		Short:       "Convert ISBN-10 values to ISBN-13",
		Args:        cobra.MinimumNArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, arg := range args {
				code, err := isbn.To13(arg)
				if err != nil {
					return fmt.Errorf("%q: %w", arg, err)
				}
				fmt.Fprintln(out, code)
			}
			return nil
		},
	}
}

func newISBNTo10Command() *cobra.Command {
	return &cobra.Command{
		Use:         "to10 <isbn>...",
		Short:       "Convert 978-prefixed ISBN-13 values to ISBN-10",
		Args:        cobra.MinimumNArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, arg := range args {
				code, ok, err := isbn.To10(arg)
				if err != nil {
					return fmt.Errorf("%q: %w", arg, err)
				}
				if !ok {
					return fmt.Errorf("%q has no ISBN-10 form", arg)
				}
				fmt.Fprintln(out, code)
			}
			return nil
		},
	}
}

func newISBNConvertCommand(ctx *commandContext) *cobra.Command {
	var (
		dryRun  bool
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Map the alternate ISBN form of every catalog ISBN to the same title",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			var stats dedupe.ConvertStats
			err = withStore(cfg, func(store *catalog.Store, logger *slog.Logger) error {
				stats, err = dedupe.ConvertIdentifiers(cmd.Context(), store, catalog.TxOptions{DryRun: dryRun}, logger)
				return err
			})
			if err != nil {
				return fmt.Errorf("isbn convert: %w", err)
			}

			if jsonOut {
				return writeJSON(cmd, stats)
			}
			out := cmd.OutOrStdout()
			if dryRun {
				fmt.Fprintln(out, "Dry run: no changes were committed")
			}
			fmt.Fprintf(out, "Scanned %d ISBNs: %d synthesized, %d malformed, %d without an alternate form\n",
				stats.Scanned, stats.Synthesized, stats.Invalid, stats.NoAlternate)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Roll back instead of committing")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}
