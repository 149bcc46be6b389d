package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MrSnakeDoc/horizon/internal/aggregator"
	"github.com/MrSnakeDoc/horizon/internal/domain"
	"github.com/MrSnakeDoc/horizon/internal/index"
	"github.com/MrSnakeDoc/horizon/internal/logger"
	"github.com/MrSnakeDoc/horizon/internal/store"
)

// DefaultRefreshInterval matches how often the dashboard polled upstream.
const DefaultRefreshInterval = 5 * time.Minute

// Collector fetches every platform once.
type Collector interface {
	Collect(ctx context.Context) []aggregator.Result
}

// RefreshSummary counts platform outcomes of one refresh.
type RefreshSummary struct {
	RunID     string
	Succeeded int
	Failed    int
}

// ContestRefresher periodically collects contests into the index and
// snapshots successful platforms to the store.
type ContestRefresher struct {
	collector Collector
	store     store.Store // optional
	index     *index.MemoryIndex
	logger    logger.Logger
	worker    *worker
	started   atomic.Bool
	mu        sync.Mutex // one refresh at a time
}

func NewContestRefresher(
	collector Collector,
	st store.Store,
	idx *index.MemoryIndex,
	log logger.Logger,
	interval time.Duration,
	manualTrigger <-chan struct{},
) *ContestRefresher {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return &ContestRefresher{
		collector: collector,
		store:     st,
		index:     idx,
		logger:    log,
		worker:    newWorker("contest refresh", interval, manualTrigger, log),
	}
}

// Start refreshes once, then keeps refreshing in the background. A failed
// initial refresh is not fatal: snapshots or later ticks fill the index.
func (cr *ContestRefresher) Start(ctx context.Context) error {
	cr.Refresh(ctx)
	cr.started.Store(true)
	cr.worker.run(ctx, func(ctx context.Context) error {
		cr.Refresh(ctx)
		return nil
	})
	return nil
}

func (cr *ContestRefresher) Stop() {
	cr.worker.stop(cr.started.Load())
}

// Refresh collects every platform and applies the results. A failed
// platform is marked and keeps its previous contests.
func (cr *ContestRefresher) Refresh(ctx context.Context) RefreshSummary {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	results := cr.collector.Collect(ctx)
	summary := RefreshSummary{}

	for _, res := range results {
		summary.RunID = res.RunID
		if res.Err != nil {
			cr.index.MarkFailed(res.Platform, res.Err, res.FetchedAt)
			summary.Failed++
			continue
		}

		cr.index.ReplacePlatform(res.Platform, res.Contests, res.FetchedAt, res.RunID)
		cr.index.SetExpired(res.Platform, res.Expired)
		summary.Succeeded++

		// Update store (best effort)
		if cr.store != nil {
			snap := domain.PlatformSnapshot{
				Platform:  res.Platform,
				Contests:  res.Contests,
				FetchedAt: res.FetchedAt,
				RunID:     res.RunID,
			}
			if err := cr.store.SaveSnapshot(ctx, snap); err != nil {
				cr.logger.Warn("failed to save snapshot",
					logger.String("platform", res.Platform.Slug()),
					logger.Error(err))
				// Don't fail - memory index is the primary source
			}
		}
	}

	cr.logger.Info("contests refreshed",
		logger.String("run_id", summary.RunID),
		logger.Int("succeeded", summary.Succeeded),
		logger.Int("failed", summary.Failed))
	return summary
}
