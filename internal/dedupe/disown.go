package dedupe

import (
	"context"

	"folio/internal/catalog"
)

// DisownStats describes what a disown changed.
type DisownStats struct {
	Rerouted bool  `json:"rerouted"`
	Removed  int64 `json:"removed"`
	Cleared  int64 `json:"cleared"`
}

// Disown reroutes isbn to the placeholder title: the placeholder mapping is
// added first, every other mapping of isbn is removed, and titles that use
// isbn as their canonical identifier lose it.
func Disown(ctx context.Context, tx *catalog.Tx, isbn string, placeholderID int64) (DisownStats, error) {
	var stats DisownStats

	inserted, err := tx.InsertMapping(ctx, catalog.Mapping{
		ISBN:     isbn,
		TitleID:  placeholderID,
		Category: catalog.CategoryNovel,
	})
	if err != nil {
		return stats, wrap(ErrStore, "disown", "reroute to placeholder", "", err)
	}
	stats.Rerouted = inserted

	if stats.Removed, err = tx.DeleteMappingsExcept(ctx, isbn, placeholderID); err != nil {
		return stats, wrap(ErrStore, "disown", "remove mappings", "", err)
	}
	if stats.Cleared, err = tx.ClearCanonicalISBN(ctx, isbn); err != nil {
		return stats, wrap(ErrStore, "disown", "clear canonical isbn", "", err)
	}
	return stats, nil
}
