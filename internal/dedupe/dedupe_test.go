package dedupe_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"folio/internal/catalog"
	"folio/internal/config"
	"folio/internal/dedupe"
	"folio/internal/logging"
)

const placeholderID = 73

func newRunner(t *testing.T, cfg *config.Config, store *catalog.Store, opts dedupe.Options) *dedupe.Runner {
	t.Helper()
	runner, err := dedupe.NewRunner(cfg, store, opts, logging.NewNop())
	require.NoError(t, err)
	return runner
}

func run(t *testing.T, cfg *config.Config, store *catalog.Store, opts dedupe.Options) dedupe.Summary {
	t.Helper()
	summary, err := newRunner(t, cfg, store, opts).Run(context.Background())
	require.NoError(t, err)
	return summary
}

func inTx(t *testing.T, store *catalog.Store, fn func(ctx context.Context, tx *catalog.Tx) error) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.WithTx(ctx, catalog.TxOptions{}, func(tx *catalog.Tx) error {
		return fn(ctx, tx)
	}))
}

func owners(t *testing.T, store *catalog.Store, isbn string) []int64 {
	t.Helper()
	ids, err := store.IdentifierOwners(context.Background(), isbn)
	require.NoError(t, err)
	return ids
}

func titleExists(t *testing.T, store *catalog.Store, id int64) bool {
	t.Helper()
	title, err := store.GetTitle(context.Background(), id)
	require.NoError(t, err)
	return title != nil
}
