package dedupe

import (
	"context"
	"errors"
	"log/slog"

	"folio/internal/catalog"
	"folio/internal/isbn"
	"folio/internal/logging"
)

// ConvertStats summarizes the identifier codec pre-pass.
type ConvertStats struct {
	Scanned     int `json:"scanned"`
	Synthesized int `json:"synthesized"`
	Invalid     int `json:"invalid"`
	NoAlternate int `json:"no_alternate"`
}

// ConvertIdentifiers maps the alternate 10/13-character form of every
// identifier to the same title, in one transaction. Malformed identifiers are
// counted and skipped.
func ConvertIdentifiers(ctx context.Context, store *catalog.Store, opts catalog.TxOptions, logger *slog.Logger) (ConvertStats, error) {
	logger = logging.WithContext(ctx, logging.NewComponentLogger(logger, "convert"))

	var stats ConvertStats
	err := store.WithTx(ctx, opts, func(tx *catalog.Tx) error {
		stats = ConvertStats{}

		mappings, err := tx.Mappings(ctx)
		if err != nil {
			return wrap(ErrStore, "convert", "load mappings", "", err)
		}
		for _, mapping := range mappings {
			stats.Scanned++
			alternate, ok, err := isbn.Alternate(mapping.ISBN)
			if err != nil {
				if errors.Is(err, isbn.ErrInvalidFormat) {
					stats.Invalid++
					logger.Debug("skipping malformed identifier",
						logging.String(logging.FieldISBN, mapping.ISBN),
						logging.Int64(logging.FieldTitleID, mapping.TitleID),
						logging.Error(err),
					)
					continue
				}
				return wrap(ErrStore, "convert", "derive alternate", mapping.ISBN, err)
			}
			if !ok {
				stats.NoAlternate++
				continue
			}
			inserted, err := tx.InsertMapping(ctx, catalog.Mapping{
				ISBN:     alternate,
				TitleID:  mapping.TitleID,
				Category: mapping.Category,
				Foreign:  mapping.Foreign,
			})
			if err != nil {
				return wrap(ErrStore, "convert", "insert alternate", alternate, err)
			}
			if inserted {
				stats.Synthesized++
			}
		}
		return nil
	})
	if err != nil {
		return ConvertStats{}, err
	}

	logger.Info("identifier conversion complete",
		logging.Int("scanned", stats.Scanned),
		logging.Int("synthesized", stats.Synthesized),
		logging.Int("invalid", stats.Invalid),
		logging.Int("no_alternate", stats.NoAlternate),
		logging.Bool("dry_run", opts.DryRun),
	)
	return stats, nil
}
