package preflight

import (
	"context"
	"path/filepath"
	"strings"

	"folio/internal/catalog"
	"folio/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every applicable preflight check for the given config.
func RunAll(ctx context.Context, cfg *config.Config, store *catalog.Store) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	// Catalog directory (always checked)
	results = append(results, CheckDirectoryAccess("Catalog directory", filepath.Dir(cfg.Database.Path)))

	// Log directory (when configured)
	if strings.TrimSpace(cfg.Logging.Dir) != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Logging.Dir))
	}

	// Metrics textfile directory (when configured)
	if strings.TrimSpace(cfg.Metrics.Textfile) != "" {
		results = append(results, CheckDirectoryAccess("Metrics directory", filepath.Dir(cfg.Metrics.Textfile)))
	}

	results = append(results, CheckCatalog(ctx, store))
	results = append(results, CheckPlaceholder(ctx, store, cfg.Dedupe.PlaceholderTitleID))

	return results
}

// FirstFailure returns the first failing result, if any.
func FirstFailure(results []Result) (Result, bool) {
	for _, result := range results {
		if !result.Passed {
			return result, true
		}
	}
	return Result{}, false
}
