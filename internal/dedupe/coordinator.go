package dedupe

import (
	"context"
	"errors"
	"iter"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"folio/internal/equivalence"
	"folio/internal/logging"
)

// Tally counts group outcomes. Each worker owns one; they are summed after
// the pool stops.
type Tally struct {
	Seen            int `json:"groups_seen"`
	Resolved        int `json:"resolved"`
	Merged          int `json:"merged"`
	Disowned        int `json:"disowned"`
	AlreadyResolved int `json:"already_resolved"`
	Errored         int `json:"errored"`
	Inconsistent    int `json:"inconsistent_state"`
}

// Add accumulates other into t.
func (t *Tally) Add(other Tally) {
	t.Seen += other.Seen
	t.Resolved += other.Resolved
	t.Merged += other.Merged
	t.Disowned += other.Disowned
	t.AlreadyResolved += other.AlreadyResolved
	t.Errored += other.Errored
	t.Inconsistent += other.Inconsistent
}

// GroupResolver resolves a single identifier group.
type GroupResolver interface {
	Resolve(ctx context.Context, isbn string) (Outcome, error)
}

// WorkerCount turns the configured worker setting into a pool size: 0 means
// all CPUs but one, a negative n means NumCPU+n+1, anything else is literal.
// The result is at least 1.
func WorkerCount(configured int) int {
	cpus := runtime.NumCPU()
	var n int
	switch {
	case configured > 0:
		n = configured
	case configured == 0:
		n = cpus - 1
	default:
		n = cpus + configured + 1
	}
	return max(n, 1)
}

// Coordinator runs a fixed pool of workers over a group sequence.
type Coordinator struct {
	workers  int
	resolver GroupResolver
	logger   *slog.Logger
}

// NewCoordinator builds a pool of workers sized by WorkerCount(workers).
func NewCoordinator(workers int, resolver GroupResolver, logger *slog.Logger) *Coordinator {
	return &Coordinator{
		workers:  WorkerCount(workers),
		resolver: resolver,
		logger:   logging.NewComponentLogger(logger, "coordinator"),
	}
}

// Workers returns the pool size.
func (c *Coordinator) Workers() int {
	return c.workers
}

// Run dispatches every group to the pool and returns the merged tally.
// Per-group failures are logged and counted, never returned. The error is
// non-nil only when the sequence itself fails or ctx is cancelled; the tally
// then covers the groups processed so far.
func (c *Coordinator) Run(ctx context.Context, groups iter.Seq2[string, error]) (Tally, error) {
	g, gctx := errgroup.WithContext(ctx)
	jobs := make(chan string)
	tallies := make([]Tally, c.workers)

	g.Go(func() error {
		defer close(jobs)
		for isbn, err := range groups {
			if err != nil {
				return err
			}
			select {
			case jobs <- isbn:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	for i := range c.workers {
		g.Go(func() error {
			logger := c.logger.With(logging.Int(logging.FieldWorker, i))
			for isbn := range jobs {
				if gctx.Err() != nil {
					return nil
				}
				c.handle(logging.WithISBN(gctx, isbn), logger, isbn, &tallies[i])
			}
			return nil
		})
	}

	err := g.Wait()

	var total Tally
	for _, t := range tallies {
		total.Add(t)
	}
	if err == nil {
		err = ctx.Err()
	}
	return total, err
}

func (c *Coordinator) handle(ctx context.Context, logger *slog.Logger, isbn string, tally *Tally) {
	tally.Seen++
	outcome, err := c.resolver.Resolve(ctx, isbn)
	logger = logging.WithContext(ctx, logger)
	switch {
	case err == nil:
		tally.Resolved++
		if outcome.Action == equivalence.ActionMerge {
			tally.Merged++
		} else {
			tally.Disowned++
		}
	case errors.Is(err, ErrAlreadyResolved):
		tally.Resolved++
		tally.AlreadyResolved++
		logger.Debug("group already resolved", logging.Error(err))
	case errors.Is(err, ErrInconsistentState):
		tally.Errored++
		tally.Inconsistent++
		logging.ErrorWithContext(logger, "group vanished between selection and locking", "inconsistent_state",
			logging.Alert("concurrent_writer"),
			logging.String(logging.FieldErrorHint, "another process is writing isbns during the dedupe run"),
			logging.Error(err),
		)
	case ctx.Err() != nil:
		tally.Errored++
		logger.Warn("group abandoned on cancellation", logging.Error(err))
	default:
		tally.Errored++
		logging.ErrorWithContext(logger, "group resolution failed", "group_failed",
			logging.String(logging.FieldErrorHint, "the group rolled back and will be retried on the next run"),
			logging.Error(err),
		)
	}
}
