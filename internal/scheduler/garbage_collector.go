package scheduler

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MrSnakeDoc/horizon/internal/bookmarks"
	"github.com/MrSnakeDoc/horizon/internal/index"
	"github.com/MrSnakeDoc/horizon/internal/logger"
)

// DefaultOrphanTTL is a suggested TTL for deployments that enable
// collection. The collector is off unless HORIZON_ORPHAN_TTL is set.
const DefaultOrphanTTL = 30 * 24 * time.Hour // 30 days

// GarbageCollector removes bookmarks that have been orphaned for longer
// than the TTL.
//
// A bookmark only counts as orphan when its platform has been fetched
// successfully and no longer lists the contest at all. Contests hidden
// by the past window are still listed upstream and never count. Age is
// measured from the first pass that saw the orphan, not from the
// bookmark's creation, and restarts begin the count again.
type GarbageCollector struct {
	bookmarks *bookmarks.Service
	index     *index.MemoryIndex
	logger    logger.Logger
	ttl       time.Duration
	worker    *worker
	started   atomic.Bool
	now       func() time.Time

	mu          sync.Mutex
	orphanSince map[string]time.Time
}

func NewGarbageCollector(
	svc *bookmarks.Service,
	idx *index.MemoryIndex,
	log logger.Logger,
	interval time.Duration,
	ttl time.Duration,
) *GarbageCollector {
	return &GarbageCollector{
		bookmarks: svc,
		index:     idx,
		logger:    log,
		ttl:       ttl,
		worker:    newWorker("garbage collection", interval, nil, log),
		now:       time.Now,

		orphanSince: make(map[string]time.Time),
	}
}

// Start runs a first pass and then collects periodically. A zero TTL
// disables the collector.
func (gc *GarbageCollector) Start(ctx context.Context) error {
	if gc.ttl <= 0 {
		gc.logger.Info("orphan bookmark collection disabled")
		return nil
	}

	if _, err := gc.Collect(ctx); err != nil {
		gc.logger.Warn("initial garbage collection failed", logger.Error(err))
	}

	gc.started.Store(true)
	gc.worker.run(ctx, func(ctx context.Context) error {
		_, err := gc.Collect(ctx)
		return err
	})
	return nil
}

func (gc *GarbageCollector) Stop() {
	gc.worker.stop(gc.started.Load())
}

// Collect returns the number of bookmarks removed.
func (gc *GarbageCollector) Collect(ctx context.Context) (int, error) {
	healthy := gc.healthyPlatforms()
	if len(healthy) == 0 {
		gc.logger.Debug("no healthy platform yet, skipping garbage collection")
		return 0, nil
	}

	orphans, err := gc.bookmarks.Orphans(ctx)
	if err != nil {
		return 0, err
	}

	gc.mu.Lock()
	defer gc.mu.Unlock()

	now := gc.now()
	seen := make(map[string]struct{}, len(orphans))
	deleted := 0
	for _, b := range orphans {
		slug, _, _ := strings.Cut(b.ContestID, ":")
		if _, ok := healthy[slug]; !ok {
			continue
		}
		if gc.index.IsExpired(b.ContestID) {
			continue
		}

		seen[b.ContestID] = struct{}{}
		since, tracked := gc.orphanSince[b.ContestID]
		if !tracked {
			gc.orphanSince[b.ContestID] = now
			continue
		}
		if now.Sub(since) < gc.ttl {
			continue
		}

		if err := gc.bookmarks.Remove(ctx, b.ContestID); err != nil {
			gc.logger.Warn("failed to delete orphan bookmark",
				logger.String("contest_id", b.ContestID),
				logger.Error(err))
			continue
		}
		gc.logger.Info("garbage collected orphan bookmark",
			logger.String("contest_id", b.ContestID),
			logger.String("orphaned_for", now.Sub(since).String()))
		delete(seen, b.ContestID)
		deleted++
	}

	// back upstream, removed or deleted: forget
	for id := range gc.orphanSince {
		if _, ok := seen[id]; !ok {
			delete(gc.orphanSince, id)
		}
	}

	if deleted > 0 {
		gc.logger.Info("garbage collection completed", logger.Int("bookmarks_deleted", deleted))
	} else {
		gc.logger.Debug("no bookmarks to garbage collect", logger.Int("tracked_orphans", len(gc.orphanSince)))
	}
	return deleted, nil
}

func (gc *GarbageCollector) healthyPlatforms() map[string]struct{} {
	out := make(map[string]struct{})
	for _, st := range gc.index.States() {
		if !st.FetchedAt.IsZero() && st.LastError == "" {
			out[st.Platform.Slug()] = struct{}{}
		}
	}
	return out
}
