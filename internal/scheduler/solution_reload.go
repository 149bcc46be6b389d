package scheduler

import (
	"context"
	"fmt"
	"maps"
	"sync/atomic"
	"time"

	"github.com/MrSnakeDoc/horizon/internal/index"
	"github.com/MrSnakeDoc/horizon/internal/logger"
	"github.com/MrSnakeDoc/horizon/internal/sources/manual"
	"github.com/MrSnakeDoc/horizon/internal/store"
)

// SolutionReloader rebuilds the index's solution links from the optional
// YAML file and the store. Store entries win over file entries.
type SolutionReloader struct {
	loader  *manual.Loader // nil when no file is configured
	store   store.Store
	index   *index.MemoryIndex
	logger  logger.Logger
	worker  *worker
	started atomic.Bool
}

func NewSolutionReloader(
	solutionsFile string,
	st store.Store,
	idx *index.MemoryIndex,
	log logger.Logger,
	interval time.Duration,
	manualTrigger <-chan struct{},
) *SolutionReloader {
	var loader *manual.Loader
	if solutionsFile != "" {
		loader = manual.NewLoader(solutionsFile)
	}
	return &SolutionReloader{
		loader: loader,
		store:  st,
		index:  idx,
		logger: log,
		worker: newWorker("solution reload", interval, manualTrigger, log),
	}
}

// Start loads immediately; a broken solutions file fails startup.
func (sr *SolutionReloader) Start(ctx context.Context) error {
	if err := sr.Reload(ctx); err != nil {
		return fmt.Errorf("initial reload failed: %w", err)
	}
	sr.started.Store(true)
	sr.worker.run(ctx, sr.Reload)
	return nil
}

func (sr *SolutionReloader) Stop() {
	sr.worker.stop(sr.started.Load())
}

func (sr *SolutionReloader) Reload(ctx context.Context) error {
	links := make(map[string]string)

	if sr.loader != nil {
		file, err := sr.loader.Load()
		if err != nil {
			return fmt.Errorf("failed to load solutions: %w", err)
		}
		fromFile, skipped := manual.MapSolutions(file)
		for _, err := range skipped {
			sr.logger.Warn("skipping solution entry",
				logger.String("file", sr.loader.Path()),
				logger.Error(err))
		}
		maps.Copy(links, fromFile)
	}

	if sr.store != nil {
		stored, err := sr.store.ListSolutions(ctx)
		if err != nil {
			sr.logger.Warn("failed to read solutions from store", logger.Error(err))
			// Keep going with the file entries
		} else {
			maps.Copy(links, stored)
		}
	}

	sr.index.UpdateSolutions(links)
	sr.logger.Info("solutions reloaded", logger.Int("count", len(links)))
	return nil
}
