package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/horizon/internal/aggregator"
	"github.com/MrSnakeDoc/horizon/internal/bookmarks"
	"github.com/MrSnakeDoc/horizon/internal/domain"
	"github.com/MrSnakeDoc/horizon/internal/index"
	"github.com/MrSnakeDoc/horizon/internal/logger"
	"github.com/MrSnakeDoc/horizon/internal/sources"
	"github.com/MrSnakeDoc/horizon/internal/store/memory"
)

const day = 24 * time.Hour

func TestGarbageCollector_Collect(t *testing.T) {
	ctx := context.Background()
	log := logger.New("error", false)

	idx := index.NewMemoryIndex()
	idx.ReplacePlatform(domain.Codeforces, []domain.Contest{mustContest(t, domain.Codeforces, "live")}, now, "")
	idx.ReplacePlatform(domain.LeetCode, nil, now, "")
	idx.MarkFailed(domain.LeetCode, errors.New("down"), now)

	st := memory.New()
	seed := map[string]time.Time{
		"codeforces:live":        now.Add(-90 * day), // still indexed
		"codeforces:gone":        now.Add(-1 * day),  // orphan, collected
		"leetcode:gone":          now.Add(-90 * day), // platform failing
		"codechef:never-fetched": now.Add(-90 * day), // platform unknown
	}
	for id, at := range seed {
		_, err := st.ToggleBookmark(ctx, id, at)
		require.NoError(t, err)
	}

	svc := bookmarks.NewService(st, idx, log)
	gc := NewGarbageCollector(svc, idx, log, time.Hour, DefaultOrphanTTL)

	// first sighting only starts the clock, whatever the bookmark's age
	gc.now = func() time.Time { return now }
	deleted, err := gc.Collect(ctx)
	require.NoError(t, err)
	assert.Zero(t, deleted)

	gc.now = func() time.Time { return now.Add(DefaultOrphanTTL - time.Hour) }
	deleted, err = gc.Collect(ctx)
	require.NoError(t, err)
	assert.Zero(t, deleted)

	gc.now = func() time.Time { return now.Add(DefaultOrphanTTL) }
	deleted, err = gc.Collect(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	for id := range seed {
		marked, err := st.IsBookmarked(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, id != "codeforces:gone", marked, id)
	}
}

func TestGarbageCollectorResetsWhenContestReturns(t *testing.T) {
	ctx := context.Background()
	log := logger.NewNop()
	flaky := mustContest(t, domain.Codeforces, "flaky")

	idx := index.NewMemoryIndex()
	idx.ReplacePlatform(domain.Codeforces, nil, now, "")

	st := memory.New()
	_, err := st.ToggleBookmark(ctx, flaky.ID, now)
	require.NoError(t, err)

	gc := NewGarbageCollector(bookmarks.NewService(st, idx, log), idx, log, time.Hour, 10*day)

	gc.now = func() time.Time { return now }
	_, err = gc.Collect(ctx)
	require.NoError(t, err)

	// listed again for a while, then gone again
	idx.ReplacePlatform(domain.Codeforces, []domain.Contest{flaky}, now.Add(day), "")
	gc.now = func() time.Time { return now.Add(day) }
	_, err = gc.Collect(ctx)
	require.NoError(t, err)

	idx.ReplacePlatform(domain.Codeforces, nil, now.Add(9*day), "")
	gc.now = func() time.Time { return now.Add(9 * day) }
	_, err = gc.Collect(ctx)
	require.NoError(t, err)

	gc.now = func() time.Time { return now.Add(11 * day) }
	deleted, err := gc.Collect(ctx)
	require.NoError(t, err)
	assert.Zero(t, deleted, "orphan age restarts when the contest reappears")

	marked, err := st.IsBookmarked(ctx, flaky.ID)
	require.NoError(t, err)
	assert.True(t, marked)
}

// listingSource always returns the same contests, like a platform that
// keeps its whole history.
type listingSource struct {
	platform domain.Platform
	raws     []domain.RawContest
}

func (s *listingSource) Platform() domain.Platform { return s.platform }

func (s *listingSource) Fetch(context.Context) ([]domain.RawContest, error) {
	return s.raws, nil
}

func TestGarbageCollectorKeepsContestsOutsidePastWindow(t *testing.T) {
	ctx := context.Background()
	log := logger.NewNop()
	wall := time.Now()

	src := &listingSource{platform: domain.Codeforces, raws: []domain.RawContest{
		{Platform: domain.Codeforces, Code: "1174", Name: "Codeforces Round 1174", Start: wall.Add(-31*day - 2*time.Hour), Duration: 2 * time.Hour},
		{Platform: domain.Codeforces, Code: "2050", Name: "Codeforces Round 2050", Start: wall.Add(day), Duration: 2 * time.Hour},
	}}
	agg := aggregator.New([]sources.Source{src}, aggregator.Options{PastWindow: 30 * day}, log)

	idx := index.NewMemoryIndex()
	st := memory.New()
	_, err := st.ToggleBookmark(ctx, "codeforces:1174", wall.Add(-40*day))
	require.NoError(t, err)

	refresher := NewContestRefresher(agg, st, idx, log, time.Hour, nil)
	summary := refresher.Refresh(ctx)
	require.Equal(t, 1, summary.Succeeded)
	require.False(t, idx.Has("codeforces:1174"), "hidden by the past window")
	require.True(t, idx.IsExpired("codeforces:1174"))

	gc := NewGarbageCollector(bookmarks.NewService(st, idx, log), idx, log, time.Hour, DefaultOrphanTTL)
	for _, at := range []time.Time{wall, wall.Add(2 * DefaultOrphanTTL)} {
		gc.now = func() time.Time { return at }
		deleted, err := gc.Collect(ctx)
		require.NoError(t, err)
		assert.Zero(t, deleted)
	}

	marked, err := st.IsBookmarked(ctx, "codeforces:1174")
	require.NoError(t, err)
	assert.True(t, marked)
}

func TestGarbageCollectorSkipsWithoutData(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	_, err := st.ToggleBookmark(ctx, "codeforces:1", now.Add(-365*day))
	require.NoError(t, err)

	idx := index.NewMemoryIndex()
	gc := NewGarbageCollector(bookmarks.NewService(st, idx, logger.NewNop()), idx, logger.NewNop(), time.Hour, time.Hour)

	deleted, err := gc.Collect(ctx)
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestGarbageCollectorDisabled(t *testing.T) {
	idx := index.NewMemoryIndex()
	gc := NewGarbageCollector(bookmarks.NewService(memory.New(), idx, logger.NewNop()), idx, logger.NewNop(), time.Hour, 0)

	require.NoError(t, gc.Start(context.Background()))
	gc.Stop()
}

func TestGarbageCollectorStartStop(t *testing.T) {
	idx := index.NewMemoryIndex()
	gc := NewGarbageCollector(bookmarks.NewService(memory.New(), idx, logger.NewNop()), idx, logger.NewNop(), time.Hour, time.Hour)

	require.NoError(t, gc.Start(context.Background()))
	gc.Stop()
}
