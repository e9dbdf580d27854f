package dedupe_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/internal/catalog"
	"folio/internal/dedupe"
	"folio/internal/testsupport"
)

func seedMergeGraph(t *testing.T, store *catalog.Store) {
	t.Helper()
	testsupport.MustSeedBook(t, store, testsupport.Book{ID: 10, Title: "Solaris", Authors: "Stanislaw Lem", Year: 1961, Pages: 300, ISBN: "0156027607", Cover: "w.jpg"})
	testsupport.MustSeedBook(t, store, testsupport.Book{ID: 11, Title: "Solaris: A Novel", Authors: "Stanislaw Lem, Joanna Kilmartin", Year: 1961, Pages: 200, ISBN: "0156027607", Cover: "l.jpg"})
	testsupport.MustSeedBook(t, store, testsupport.Book{ID: 20, Title: "Content"})
	testsupport.MustSeedBook(t, store, testsupport.Book{ID: 21, Title: "Container", Category: catalog.CategoryOmnibus})

	testsupport.MustMapISBN(t, store, "9780156027601", 11, catalog.CategoryNovel, false)
	testsupport.MustAddContent(t, store, 11, 20)
	testsupport.MustAddContent(t, store, 21, 11)
	testsupport.MustAddContent(t, store, 11, 10)
	testsupport.MustAddTranslation(t, store, 500, 11, "Solaris (de)")
	testsupport.MustAddExtraImage(t, store, 11, "l2.jpg")
	testsupport.MustAddExtraImage(t, store, 11, "w.jpg")
}

func TestMergeMovesEveryRelationshipToWinner(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithoutConversion())
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	seedMergeGraph(t, store)

	summary := run(t, cfg, store, dedupe.Options{})
	assert.Equal(t, 1, summary.Merged)
	assert.Equal(t, 0, summary.Errored)

	assert.False(t, titleExists(t, store, 11), "loser must be deleted")
	winner := testsupport.MustGetTitle(t, store, 10)
	assert.True(t, winner.Inconsistent)
	assert.Equal(t, "Solaris: A Novel", winner.AltTitles)

	contents, err := store.Contents(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{20}, contents, "self-loop must be discarded")

	containers, err := store.Containers(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{21}, containers)

	translations, err := store.TranslationsOf(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{500}, translations)

	images, err := store.ExtraImages(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"l.jpg", "l2.jpg", "w.jpg"}, images)

	assert.Equal(t, []int64{10}, owners(t, store, "0156027607"))
	assert.Equal(t, []int64{10}, owners(t, store, "9780156027601"))
}

func TestMergeIsSafeToReplay(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	seedMergeGraph(t, store)

	winner := catalog.Claimant{Title: *testsupport.MustGetTitle(t, store, 10)}
	loser := catalog.Claimant{Title: *testsupport.MustGetTitle(t, store, 11)}

	// A first attempt that copied edges but never deleted the loser.
	inTx(t, store, func(ctx context.Context, tx *catalog.Tx) error {
		if _, err := tx.RepointContents(ctx, 10, 11); err != nil {
			return err
		}
		_, err := tx.CopyIdentifiers(ctx, 10, 11)
		return err
	})

	var stats dedupe.MergeStats
	inTx(t, store, func(ctx context.Context, tx *catalog.Tx) error {
		var err error
		stats, err = dedupe.Merge(ctx, tx, winner, []catalog.Claimant{loser})
		return err
	})
	assert.Equal(t, int64(0), stats.Contents, "edges copied by the first attempt are ignored")
	assert.Equal(t, int64(0), stats.Identifiers)
	assert.Equal(t, int64(1), stats.Deleted)
	assert.Equal(t, int64(1), stats.Covers)

	contents, err := store.Contents(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{20}, contents)
}

func TestMergeSkipsDuplicateAndOversizedAltTitles(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	testsupport.MustSeedBook(t, store, testsupport.Book{ID: 1, Title: "Ubik", Authors: "Philip K. Dick"})
	testsupport.MustSeedBook(t, store, testsupport.Book{ID: 2, Title: "UBIK", Authors: "Philip K. Dick"})
	long := make([]byte, 600)
	for i := range long {
		long[i] = 'u'
	}
	testsupport.MustSeedBook(t, store, testsupport.Book{ID: 3, Title: "Ubik " + string(long), Authors: "Philip K. Dick"})

	winner := catalog.Claimant{Title: *testsupport.MustGetTitle(t, store, 1)}
	losers := []catalog.Claimant{
		{Title: *testsupport.MustGetTitle(t, store, 2)},
		{Title: *testsupport.MustGetTitle(t, store, 3)},
	}
	var stats dedupe.MergeStats
	inTx(t, store, func(ctx context.Context, tx *catalog.Tx) error {
		var err error
		stats, err = dedupe.Merge(ctx, tx, winner, losers)
		return err
	})

	assert.Equal(t, int64(0), stats.AltTitles)
	assert.Equal(t, int64(2), stats.Deleted)
	assert.Empty(t, testsupport.MustGetTitle(t, store, 1).AltTitles)
}
