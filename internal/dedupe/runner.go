package dedupe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"folio/internal/catalog"
	"folio/internal/config"
	"folio/internal/equivalence"
	"folio/internal/logging"
	"folio/internal/preflight"
)

// Options adjusts a single run without touching the configuration.
type Options struct {
	DryRun      bool
	SkipConvert bool
}

// Summary reports the outcome of a run.
type Summary struct {
	RunID string `json:"run_id"`
	Tally
	Convert     ConvertStats  `json:"convert"`
	Workers     int           `json:"workers"`
	DryRun      bool          `json:"dry_run"`
	Constrained bool          `json:"constrained"`
	StartedAt   time.Time     `json:"started_at"`
	FinishedAt  time.Time     `json:"finished_at"`
	Duration    time.Duration `json:"duration_ns"`
}

// Synthesized is the number of identifiers the codec pre-pass added.
func (s Summary) Synthesized() int {
	return s.Convert.Synthesized
}

// Runner executes a full dedupe batch against one catalog.
type Runner struct {
	cfg     *config.Config
	store   *catalog.Store
	policy  equivalence.Policy
	opts    Options
	metrics *Metrics
	logger  *slog.Logger
	now     func() time.Time
}

// NewRunner validates the classifier policy and prepares a runner.
func NewRunner(cfg *config.Config, store *catalog.Store, opts Options, logger *slog.Logger) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("dedupe runner: config is nil")
	}
	if store == nil {
		return nil, errors.New("dedupe runner: store is nil")
	}
	policy, err := equivalence.ParsePolicy(cfg.Policy.DisownPairs, cfg.Policy.ExactTitlePairs)
	if err != nil {
		return nil, fmt.Errorf("dedupe runner: %w", err)
	}
	return &Runner{
		cfg:     cfg,
		store:   store,
		policy:  policy,
		opts:    opts,
		metrics: NewMetrics(),
		logger:  logging.NewComponentLogger(logger, "dedupe"),
		now:     time.Now,
	}, nil
}

// Metrics returns the collectors updated at the end of each run.
func (r *Runner) Metrics() *Metrics {
	return r.metrics
}

// Run performs one batch: lock, pre-flight, codec pre-pass, group
// resolution, then the unique identifier constraint when the run was clean.
// Errors are returned only for pre-flight failures, a failing group
// sequence, or cancellation.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	summary := Summary{
		RunID:     uuid.NewString(),
		DryRun:    r.opts.DryRun,
		StartedAt: r.now(),
	}
	ctx = logging.WithRunID(ctx, summary.RunID)
	logger := logging.WithContext(ctx, r.logger)

	lock := flock.New(r.cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return summary, wrap(ErrPreflight, "lock", "acquire", r.cfg.LockPath(), err)
	}
	if !locked {
		return summary, wrap(ErrRunInProgress, "lock", "acquire", r.cfg.LockPath(), nil)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("failed to release dedupe lock", logging.Error(err))
		}
	}()

	if failed, ok := preflight.FirstFailure(preflight.RunAll(ctx, r.cfg, r.store)); ok {
		return summary, wrap(ErrPreflight, "preflight", failed.Name, failed.Detail, nil)
	}
	selector := NewSelector(r.store, r.cfg.Dedupe.PlaceholderTitleID, r.cfg.Dedupe.Limit)
	if err := selector.Prepare(ctx); err != nil {
		return summary, err
	}

	logger.Info("dedupe run starting",
		logging.String("database", r.store.Path()),
		logging.Bool("dry_run", r.opts.DryRun),
		logging.Int("limit", r.cfg.Dedupe.Limit),
	)

	txOpts := catalog.TxOptions{DryRun: r.opts.DryRun}
	if r.cfg.Dedupe.ConvertISBNs && !r.opts.SkipConvert {
		stats, err := ConvertIdentifiers(ctx, r.store, txOpts, r.logger)
		if err != nil {
			if ctx.Err() != nil {
				return r.finish(summary), ctx.Err()
			}
			logging.WarnWithContext(logger, "identifier conversion failed", "convert_failed",
				logging.String(logging.FieldImpact, "alternate identifier forms were not added"),
				logging.Error(err),
			)
		}
		summary.Convert = stats
	}

	resolver := NewResolver(r.store, r.policy, r.cfg.Dedupe.PlaceholderTitleID, r.opts.DryRun, r.logger)
	coordinator := NewCoordinator(r.cfg.Dedupe.Workers, resolver, r.logger)
	summary.Workers = coordinator.Workers()

	tally, runErr := coordinator.Run(ctx, selector.Groups(ctx))
	summary.Tally = tally
	if runErr != nil {
		summary = r.finish(summary)
		return summary, runErr
	}

	summary.Constrained = r.constrain(ctx, logger, summary)
	summary = r.finish(summary)

	logger.Info("dedupe run complete",
		logging.Int("groups_seen", summary.Seen),
		logging.Int("resolved", summary.Resolved),
		logging.Int("merged", summary.Merged),
		logging.Int("disowned", summary.Disowned),
		logging.Int("errored", summary.Errored),
		logging.Int("synthesized", summary.Convert.Synthesized),
		logging.Bool("constrained", summary.Constrained),
		logging.Duration("duration", summary.Duration),
	)
	return summary, nil
}

// constrain installs the unique identifier index when the run was clean and
// reports whether the index exists afterwards.
func (r *Runner) constrain(ctx context.Context, logger *slog.Logger, summary Summary) bool {
	if !r.cfg.Dedupe.Constrain || r.opts.DryRun {
		return false
	}
	if summary.Errored > 0 {
		logging.WarnWithContext(logger, "leaving isbns unconstrained", "constraint_skipped",
			logging.Int("errored", summary.Errored),
			logging.String(logging.FieldImpact, "identifiers may still map to several titles"),
			logging.String(logging.FieldErrorHint, "rerun dedupe once the failing groups are fixed"),
		)
		return false
	}
	remaining, err := r.store.CountDuplicateIdentifiers(ctx)
	if err != nil {
		logging.WarnWithContext(logger, "could not count remaining duplicates", "constraint_skipped", logging.Error(err))
		return false
	}
	if remaining > 0 {
		logging.WarnWithContext(logger, "leaving isbns unconstrained", "constraint_skipped",
			logging.Int("remaining", remaining),
			logging.String(logging.FieldImpact, "identifiers may still map to several titles"),
			logging.String(logging.FieldErrorHint, "rerun dedupe without a limit"),
		)
		return false
	}
	if err := r.store.AddUniqueIdentifierConstraint(ctx); err != nil {
		logging.WarnWithContext(logger, "failed to constrain isbns", "constraint_failed", logging.Error(err))
		return false
	}
	logger.Info("isbns constrained to one title per identifier")
	return true
}

func (r *Runner) finish(summary Summary) Summary {
	summary.FinishedAt = r.now()
	summary.Duration = summary.FinishedAt.Sub(summary.StartedAt)
	r.metrics.Observe(summary)
	if path := strings.TrimSpace(r.cfg.Metrics.Textfile); path != "" && !summary.DryRun {
		if err := r.metrics.WriteTextfile(path); err != nil {
			logging.WarnWithContext(r.logger, "metrics export failed", "metrics_failed",
				logging.String("path", path),
				logging.Error(err),
			)
		}
	}
	return summary
}
