package bookmarks

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/horizon/internal/domain"
	"github.com/MrSnakeDoc/horizon/internal/index"
	"github.com/MrSnakeDoc/horizon/internal/logger"
	"github.com/MrSnakeDoc/horizon/internal/store/memory"
)

var now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*Service, *memory.Store, *index.MemoryIndex) {
	t.Helper()
	idx := index.NewMemoryIndex()

	var contests []domain.Contest
	for _, raw := range []domain.RawContest{
		{Platform: domain.Codeforces, Code: "1174", Name: "Codeforces Round 838", Start: now.Add(-30 * time.Minute), Duration: 2 * time.Hour},
		{Platform: domain.Codeforces, Code: "1175", Name: "Educational Round 130", Start: now.Add(-24 * time.Hour), Duration: 2 * time.Hour},
	} {
		c, err := domain.Normalize(raw, now)
		require.NoError(t, err)
		contests = append(contests, c)
	}
	idx.ReplacePlatform(domain.Codeforces, contests, now, "run")

	st := memory.New()
	svc := NewService(st, idx, logger.NewNop())
	svc.now = func() time.Time { return now }
	return svc, st, idx
}

func TestToggleTwiceRestoresMembership(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	before, err := svc.IsBookmarked(ctx, "codeforces:1174")
	require.NoError(t, err)

	_, err = svc.Toggle(ctx, "codeforces:1174")
	require.NoError(t, err)
	_, err = svc.Toggle(ctx, "codeforces:1174")
	require.NoError(t, err)

	after, err := svc.IsBookmarked(ctx, "codeforces:1174")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestToggleRejectsUnknownContest(t *testing.T) {
	svc, _, _ := setup(t)

	_, err := svc.Toggle(context.Background(), "codeforces:9999")
	assert.ErrorIs(t, err, ErrUnknownContest)

	_, err = svc.Toggle(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrEmptyID)
}

func TestToggleCanClearOrphan(t *testing.T) {
	svc, st, _ := setup(t)
	ctx := context.Background()

	_, err := st.ToggleBookmark(ctx, "leetcode:weekly-contest-1", now)
	require.NoError(t, err)

	on, err := svc.Toggle(ctx, "leetcode:weekly-contest-1")
	require.NoError(t, err)
	assert.False(t, on)
}

func TestAnnotate(t *testing.T) {
	svc, _, idx := setup(t)
	ctx := context.Background()

	_, err := svc.Toggle(ctx, "codeforces:1175")
	require.NoError(t, err)

	views, err := svc.Annotate(ctx, idx.Contests(now))
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "codeforces:1174", views[0].ID)
	assert.False(t, views[0].IsBookmarked)
	assert.True(t, views[1].IsBookmarked)
}

func TestResolveReportsOrphans(t *testing.T) {
	svc, st, _ := setup(t)
	ctx := context.Background()

	_, err := svc.Toggle(ctx, "codeforces:1174")
	require.NoError(t, err)
	_, err = st.ToggleBookmark(ctx, "codechef:GONE", now.Add(-time.Hour))
	require.NoError(t, err)

	res, err := svc.Resolve(ctx)
	require.NoError(t, err)

	require.Len(t, res.Contests, 1)
	assert.Equal(t, "codeforces:1174", res.Contests[0].ID)
	assert.True(t, res.Contests[0].IsBookmarked)

	require.Len(t, res.Orphans, 1)
	assert.Equal(t, "codechef:GONE", res.Orphans[0].ContestID)

	orphans, err := svc.Orphans(ctx)
	require.NoError(t, err)
	assert.Equal(t, res.Orphans, orphans)
}
