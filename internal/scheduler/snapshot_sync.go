package scheduler

import (
	"context"

	"github.com/MrSnakeDoc/horizon/internal/index"
	"github.com/MrSnakeDoc/horizon/internal/logger"
	"github.com/MrSnakeDoc/horizon/internal/store"
)

// SnapshotSyncer loads persisted platform snapshots into the index on
// startup so the last good data is served before the first refresh.
type SnapshotSyncer struct {
	store  store.Store
	index  *index.MemoryIndex
	logger logger.Logger
}

func NewSnapshotSyncer(st store.Store, idx *index.MemoryIndex, log logger.Logger) *SnapshotSyncer {
	return &SnapshotSyncer{store: st, index: idx, logger: log}
}

// Sync returns the number of platforms loaded.
func (ss *SnapshotSyncer) Sync(ctx context.Context) (int, error) {
	ss.logger.Info("syncing contest snapshots into memory",
		logger.String("store", ss.store.Backend()))

	snaps, err := ss.store.LoadSnapshots(ctx)
	if err != nil {
		return 0, err
	}
	if len(snaps) == 0 {
		ss.logger.Info("no snapshots found in store")
		return 0, nil
	}

	loaded := 0
	for _, snap := range snaps {
		if ss.index.LoadSnapshot(snap) {
			loaded++
			ss.logger.Debug("snapshot loaded",
				logger.String("platform", snap.Platform.Slug()),
				logger.Int("contests", len(snap.Contests)),
				logger.Time("fetched_at", snap.FetchedAt))
		}
	}

	ss.logger.Info("synced snapshots from store", logger.Int("platforms", loaded))
	return loaded, nil
}
