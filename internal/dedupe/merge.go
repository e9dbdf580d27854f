package dedupe

import (
	"context"
	"strings"

	"folio/internal/catalog"
)

const (
	altTitleSeparator = "; "
	maxAltTitlesLen   = 500
)

// MergeStats counts the rows a merge added or moved onto the winner.
type MergeStats struct {
	Contents     int64 `json:"contents"`
	Identifiers  int64 `json:"identifiers"`
	Translations int64 `json:"translations"`
	Images       int64 `json:"images"`
	Covers       int64 `json:"covers"`
	AltTitles    int64 `json:"alt_titles"`
	Deleted      int64 `json:"deleted"`
}

// Merge folds every loser into winner: containment edges in both directions,
// identifier mappings, translation edges, and images move to the winner, the
// loser's title becomes an alternate title, and the loser is deleted. The
// winner is then flagged inconsistent. Every write tolerates rows that already
// exist, so a partially merged group can be merged again.
func Merge(ctx context.Context, tx *catalog.Tx, winner catalog.Claimant, losers []catalog.Claimant) (MergeStats, error) {
	var stats MergeStats
	altTitles := winner.AltTitles

	for _, loser := range losers {
		if loser.ID == winner.ID {
			continue
		}
		n, err := tx.RepointContents(ctx, winner.ID, loser.ID)
		if err != nil {
			return stats, wrap(ErrStore, "merge", "contents", "", err)
		}
		stats.Contents += n

		if n, err = tx.CopyIdentifiers(ctx, winner.ID, loser.ID); err != nil {
			return stats, wrap(ErrStore, "merge", "identifiers", "", err)
		}
		stats.Identifiers += n

		if n, err = tx.RepointTranslations(ctx, winner.ID, loser.ID); err != nil {
			return stats, wrap(ErrStore, "merge", "translations", "", err)
		}
		stats.Translations += n

		if n, err = tx.CopyExtraImages(ctx, winner.ID, loser.ID); err != nil {
			return stats, wrap(ErrStore, "merge", "images", "", err)
		}
		stats.Images += n

		if loser.CoverImage != "" && loser.CoverImage != winner.CoverImage {
			added, err := tx.AddExtraImage(ctx, winner.ID, loser.CoverImage)
			if err != nil {
				return stats, wrap(ErrStore, "merge", "cover image", "", err)
			}
			if added {
				stats.Covers++
			}
		}

		if next, ok := appendAltTitle(altTitles, winner.Title.Title, loser.Title.Title); ok {
			altTitles = next
			stats.AltTitles++
		}

		deleted, err := tx.DeleteTitle(ctx, loser.ID)
		if err != nil {
			return stats, wrap(ErrStore, "merge", "delete loser", "", err)
		}
		if deleted {
			stats.Deleted++
		}
	}

	if altTitles != winner.AltTitles {
		if err := tx.SetAltTitles(ctx, winner.ID, altTitles); err != nil {
			return stats, wrap(ErrStore, "merge", "alt titles", "", err)
		}
	}
	if err := tx.MarkInconsistent(ctx, winner.ID); err != nil {
		return stats, wrap(ErrStore, "merge", "mark inconsistent", "", err)
	}
	return stats, nil
}

// appendAltTitle adds candidate to a "; " separated list unless it repeats
// the display title or an existing entry, or the list would grow past
// maxAltTitlesLen.
func appendAltTitle(list, displayTitle, candidate string) (string, bool) {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" || strings.EqualFold(candidate, displayTitle) {
		return list, false
	}
	if list == "" {
		if len(candidate) > maxAltTitlesLen {
			return list, false
		}
		return candidate, true
	}
	for _, existing := range strings.Split(list, altTitleSeparator) {
		if strings.EqualFold(strings.TrimSpace(existing), candidate) {
			return list, false
		}
	}
	next := list + altTitleSeparator + candidate
	if len(next) > maxAltTitlesLen {
		return list, false
	}
	return next, true
}
