package dedupe_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/internal/catalog"
	"folio/internal/dedupe"
	"folio/internal/equivalence"
	"folio/internal/logging"
	"folio/internal/testsupport"
)

func TestResolverReportsGroupState(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	resolver := dedupe.NewResolver(store, equivalence.DefaultPolicy(), placeholderID, false, logging.NewNop())

	_, err := resolver.Resolve(ctx, "0000000000")
	require.ErrorIs(t, err, dedupe.ErrInconsistentState)

	testsupport.MustSeedBook(t, store, testsupport.Book{ID: 1, Title: "Ubik", Authors: "Philip K. Dick", ISBN: "0679736646"})
	_, err = resolver.Resolve(ctx, "0679736646")
	require.ErrorIs(t, err, dedupe.ErrAlreadyResolved)
}

func TestResolverReturnsMergeOutcome(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	seedCyberiad(t, store)
	resolver := dedupe.NewResolver(store, equivalence.DefaultPolicy(), placeholderID, false, logging.NewNop())

	outcome, err := resolver.Resolve(context.Background(), cyberiadISBN)
	require.NoError(t, err)
	assert.Equal(t, equivalence.ActionMerge, outcome.Action)
	assert.Equal(t, equivalence.ReasonEquivalent, outcome.Reason)
	assert.Equal(t, int64(2), outcome.WinnerID)
	assert.Equal(t, []int64{1}, outcome.LoserIDs)
	assert.Equal(t, 2, outcome.Claimants)
	assert.Equal(t, int64(1), outcome.Merge.Deleted)
}

func TestResolverDisownsPlaceholderCollision(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	require.NoError(t, store.EnsurePlaceholder(ctx, dedupe.Placeholder(placeholderID)))

	const shared = "0441013597"
	testsupport.MustMapISBN(t, store, shared, placeholderID, catalog.CategoryNovel, false)
	testsupport.MustSeedBook(t, store, testsupport.Book{ID: 1, Title: "Dune", Authors: "Frank Herbert", ISBN: shared})
	resolver := dedupe.NewResolver(store, equivalence.DefaultPolicy(), placeholderID, false, logging.NewNop())

	outcome, err := resolver.Resolve(ctx, shared)
	require.NoError(t, err)
	assert.Equal(t, equivalence.ActionDisown, outcome.Action)
	assert.Equal(t, []int64{placeholderID}, owners(t, store, shared))
	assert.True(t, titleExists(t, store, placeholderID))
}

func TestSelectorIsSingleUse(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	seedCyberiad(t, store)

	selector := dedupe.NewSelector(store, placeholderID, 0)
	var groups []string
	for isbn, err := range selector.Groups(ctx) {
		require.NoError(t, err)
		groups = append(groups, isbn)
	}
	assert.Equal(t, []string{cyberiadISBN}, groups)
	assert.True(t, titleExists(t, store, placeholderID), "groups prepare the placeholder lazily")

	for _, err := range selector.Groups(ctx) {
		require.ErrorIs(t, err, dedupe.ErrSelectorConsumed)
	}
}
