package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"folio/internal/catalog"
	"folio/internal/dedupe"
	"folio/internal/logging"
	"folio/internal/preflight"
)

func newDBCommand(ctx *commandContext) *cobra.Command {
	dbCmd := &cobra.Command{
		Use:   "db",
		Short: "Catalog database utilities",
	}

	dbCmd.AddCommand(newDBInitCommand(ctx))
	dbCmd.AddCommand(newDBStatusCommand(ctx))
	dbCmd.AddCommand(newDBCheckCommand(ctx))

	return dbCmd
}

func newDBInitCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the catalog schema and the placeholder title",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return withStore(cfg, func(store *catalog.Store, logger *slog.Logger) error {
				placeholder := dedupe.Placeholder(cfg.Dedupe.PlaceholderTitleID)
				if err := store.EnsurePlaceholder(cmd.Context(), placeholder); err != nil {
					return fmt.Errorf("ensure placeholder: %w", err)
				}
				logging.NewComponentLogger(logger, "db").Debug("catalog initialized",
					logging.String("database", store.Path()),
					logging.Int64(logging.FieldTitleID, placeholder.ID),
				)
				fmt.Fprintf(cmd.OutOrStdout(), "Catalog ready at %s (placeholder title %d)\n", store.Path(), placeholder.ID)
				return nil
			})
		},
	}
}

func newDBStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show how many ISBNs still conflict",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return withStore(cfg, func(store *catalog.Store, _ *slog.Logger) error {
				remaining, err := store.CountDuplicateIdentifiers(cmd.Context())
				if err != nil {
					return err
				}
				constrained, err := store.HasUniqueIdentifierConstraint(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Database: %s\n", store.Path())
				fmt.Fprintf(out, "Conflicting ISBNs: %d\n", remaining)
				fmt.Fprintf(out, "One title per ISBN enforced: %s\n", yesNo(constrained))
				return nil
			})
		},
	}
}

func newDBCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Run the checks a dedupe run performs before touching the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return withStore(cfg, func(store *catalog.Store, _ *slog.Logger) error {
				results := preflight.RunAll(cmd.Context(), cfg, store)
				rows := make([][]string, 0, len(results))
				for _, result := range results {
					status := "ok"
					if !result.Passed {
						status = "FAIL"
					}
					rows = append(rows, []string{result.Name, status, result.Detail})
				}
				if err := writeTable(cmd.OutOrStdout(), []string{"Check", "Status", "Detail"}, rows, nil); err != nil {
					return err
				}
				if failed, ok := preflight.FirstFailure(results); ok {
					return fmt.Errorf("preflight check %q failed: %s", failed.Name, failed.Detail)
				}
				return nil
			})
		},
	}
}
