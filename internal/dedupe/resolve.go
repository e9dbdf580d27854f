package dedupe

import (
	"context"
	"fmt"
	"log/slog"

	"folio/internal/catalog"
	"folio/internal/equivalence"
	"folio/internal/logging"
)

// Outcome is the result of resolving one identifier group.
type Outcome struct {
	ISBN      string
	Action    equivalence.Action
	Reason    equivalence.Reason
	WinnerID  int64
	LoserIDs  []int64
	Claimants int
	Merge     MergeStats
	Disown    DisownStats
}

// Resolver resolves one group per call inside its own transaction.
type Resolver struct {
	store         *catalog.Store
	policy        equivalence.Policy
	placeholderID int64
	dryRun        bool
	logger        *slog.Logger
}

// NewResolver builds a Resolver. In dry-run mode every transaction rolls back.
func NewResolver(store *catalog.Store, policy equivalence.Policy, placeholderID int64, dryRun bool, logger *slog.Logger) *Resolver {
	return &Resolver{
		store:         store,
		policy:        policy,
		placeholderID: placeholderID,
		dryRun:        dryRun,
		logger:        logging.NewComponentLogger(logger, "resolver"),
	}
}

// Resolve loads the claimants of isbn, classifies them, and merges or
// disowns within a single transaction. ErrAlreadyResolved is returned when at
// most one claimant is left and ErrInconsistentState when none are.
func (r *Resolver) Resolve(ctx context.Context, isbn string) (Outcome, error) {
	ctx = logging.WithISBN(ctx, isbn)
	var outcome Outcome
	err := r.store.WithTx(ctx, catalog.TxOptions{DryRun: r.dryRun}, func(tx *catalog.Tx) error {
		outcome = Outcome{ISBN: isbn}

		claimants, err := tx.Claimants(ctx, isbn)
		if err != nil {
			return wrap(ErrStore, "resolve", "load claimants", isbn, err)
		}
		outcome.Claimants = len(claimants)
		switch len(claimants) {
		case 0:
			return wrap(ErrInconsistentState, "resolve", "load claimants", fmt.Sprintf("%s has no claimants", isbn), nil)
		case 1:
			return wrap(ErrAlreadyResolved, "resolve", "load claimants", fmt.Sprintf("%s has one claimant", isbn), nil)
		}

		decision, err := equivalence.Classify(r.policy, claimants)
		if err != nil {
			return wrap(ErrStore, "resolve", "classify", isbn, err)
		}
		outcome.Action = decision.Action
		outcome.Reason = decision.Reason

		if decision.Action == equivalence.ActionMerge {
			outcome.WinnerID = decision.Winner.ID
			for _, loser := range decision.Losers {
				outcome.LoserIDs = append(outcome.LoserIDs, loser.ID)
			}
			outcome.Merge, err = Merge(ctx, tx, decision.Winner, decision.Losers)
			return err
		}
		outcome.Disown, err = Disown(ctx, tx, isbn, r.placeholderID)
		return err
	})
	if err != nil {
		return outcome, err
	}

	attrs := append(
		logging.DecisionAttrs("isbn_resolution", outcome.Action.String(), string(outcome.Reason)),
		logging.Int("claimants", outcome.Claimants),
		logging.Bool("dry_run", r.dryRun),
	)
	if outcome.Action == equivalence.ActionMerge {
		attrs = append(attrs,
			logging.Int64("winner_id", outcome.WinnerID),
			logging.Any("loser_ids", outcome.LoserIDs),
			logging.Int64("contents", outcome.Merge.Contents),
			logging.Int64("identifiers", outcome.Merge.Identifiers),
			logging.Int64("translations", outcome.Merge.Translations),
			logging.Int64("images", outcome.Merge.Images+outcome.Merge.Covers),
		)
	} else {
		attrs = append(attrs,
			logging.Int64("mappings_removed", outcome.Disown.Removed),
			logging.Int64("canonical_cleared", outcome.Disown.Cleared),
		)
	}
	logging.WithContext(ctx, r.logger).Info("group resolved", logging.Args(attrs...)...)
	return outcome, nil
}
