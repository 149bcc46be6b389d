// Package aggregator fans out to every configured source and normalizes
// what comes back, one Result per platform.
package aggregator

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/MrSnakeDoc/horizon/internal/domain"
	"github.com/MrSnakeDoc/horizon/internal/logger"
	"github.com/MrSnakeDoc/horizon/internal/sources"
)

// Result is the outcome of one source within a collection run.
// Contests is nil when Err is set.
type Result struct {
	Platform  domain.Platform
	Contests  []domain.Contest
	Err       error
	FetchedAt time.Time
	RunID     string
	Skipped   int      // raw records rejected by normalization
	Expired   []string // ids dropped by the past window, still listed upstream
}

type Options struct {
	Timeout    time.Duration // per source, 0 = no extra timeout
	PastWindow time.Duration // past contests that ended before now-PastWindow are dropped, 0 = keep all
}

type Aggregator struct {
	sources []sources.Source
	opts    Options
	log     logger.Logger
	now     func() time.Time
}

func New(srcs []sources.Source, opts Options, log logger.Logger) *Aggregator {
	return &Aggregator{
		sources: srcs,
		opts:    opts,
		log:     log,
		now:     time.Now,
	}
}

// Platforms lists the platforms this aggregator collects, in source order.
func (a *Aggregator) Platforms() []domain.Platform {
	out := make([]domain.Platform, len(a.sources))
	for i, s := range a.sources {
		out[i] = s.Platform()
	}
	return out
}

// Collect runs every source concurrently. A failing source only affects
// its own Result; the others are collected in full. Results follow the
// order of the sources.
func (a *Aggregator) Collect(ctx context.Context) []Result {
	runID := uuid.NewString()
	log := a.log.With(logger.String("run_id", runID))
	results := make([]Result, len(a.sources))

	eg, egCtx := errgroup.WithContext(ctx)
	for i, src := range a.sources {
		eg.Go(func() error {
			results[i] = a.collectOne(egCtx, src, runID)
			return nil
		})
	}
	_ = eg.Wait()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			log.Warn("platform fetch failed",
				logger.String("platform", r.Platform.Slug()),
				logger.Error(r.Err))
			continue
		}
		log.Debug("platform fetched",
			logger.String("platform", r.Platform.Slug()),
			logger.Int("contests", len(r.Contests)),
			logger.Int("skipped", r.Skipped))
	}
	log.Info("collection finished",
		logger.Int("sources", len(results)),
		logger.Int("failed", failed))

	return results
}

func (a *Aggregator) collectOne(ctx context.Context, src sources.Source, runID string) Result {
	res := Result{Platform: src.Platform(), RunID: runID}

	if a.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.opts.Timeout)
		defer cancel()
	}

	raws, err := src.Fetch(ctx)
	now := a.now()
	res.FetchedAt = now
	if err != nil {
		res.Err = err
		return res
	}

	res.Contests, res.Expired, res.Skipped = a.normalize(src.Platform(), raws, now)
	return res
}

func (a *Aggregator) normalize(p domain.Platform, raws []domain.RawContest, now time.Time) ([]domain.Contest, []string, int) {
	contests := make([]domain.Contest, 0, len(raws))
	var expired []string
	seen := make(map[string]struct{}, len(raws))
	skipped := 0

	for _, raw := range raws {
		c, err := domain.Normalize(raw, now)
		if err != nil {
			skipped++
			a.log.Debug("invalid contest dropped",
				logger.String("platform", p.Slug()),
				logger.Error(fmt.Errorf("normalize: %w", err)))
			continue
		}
		if c.Platform != p {
			skipped++
			continue
		}
		if a.tooOld(c, now) {
			expired = append(expired, c.ID)
			continue
		}
		if _, dup := seen[c.ID]; dup {
			continue
		}
		seen[c.ID] = struct{}{}
		contests = append(contests, c)
	}
	return contests, expired, skipped
}

func (a *Aggregator) tooOld(c domain.Contest, now time.Time) bool {
	if a.opts.PastWindow <= 0 || c.Status != domain.StatusPast {
		return false
	}
	return c.EndTime.Before(now.Add(-a.opts.PastWindow))
}
