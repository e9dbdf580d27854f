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

func TestDisownLeavesOnlyThePlaceholder(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	require.NoError(t, store.EnsurePlaceholder(ctx, dedupe.Placeholder(placeholderID)))

	const shared = "0441569579"
	testsupport.MustSeedBook(t, store, testsupport.Book{ID: 1, Title: "Neuromancer", ISBN: shared})
	testsupport.MustSeedBook(t, store, testsupport.Book{ID: 2, Title: "Count Zero", ISBN: shared})
	testsupport.MustSeedBook(t, store, testsupport.Book{ID: 3, Title: "Mona Lisa Overdrive"})
	testsupport.MustMapISBN(t, store, shared, 3, catalog.CategoryNovel, false)

	var stats dedupe.DisownStats
	inTx(t, store, func(ctx context.Context, tx *catalog.Tx) error {
		var err error
		stats, err = dedupe.Disown(ctx, tx, shared, placeholderID)
		return err
	})
	assert.True(t, stats.Rerouted)
	assert.Equal(t, int64(3), stats.Removed)
	assert.Equal(t, int64(2), stats.Cleared)

	assert.Equal(t, []int64{placeholderID}, owners(t, store, shared))
	canonical, err := store.TitlesWithCanonicalISBN(ctx, shared)
	require.NoError(t, err)
	assert.Empty(t, canonical)
	assert.True(t, titleExists(t, store, 1), "disown never deletes titles")

	// Disowning again is a no-op.
	inTx(t, store, func(ctx context.Context, tx *catalog.Tx) error {
		var err error
		stats, err = dedupe.Disown(ctx, tx, shared, placeholderID)
		return err
	})
	assert.False(t, stats.Rerouted)
	assert.Equal(t, int64(0), stats.Removed)
	assert.Equal(t, []int64{placeholderID}, owners(t, store, shared))
}
