package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/horizon/internal/domain"
	"github.com/MrSnakeDoc/horizon/internal/store"
	"github.com/MrSnakeDoc/horizon/internal/store/storetest"
)

var _ store.Store = (*Store)(nil)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStore(client), mr
}

func TestConformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		s, _ := newTestStore(t)
		return s
	})
}

func TestToggleWritesHash(t *testing.T) {
	s, mr := newTestStore(t)
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	on, err := s.ToggleBookmark(context.Background(), "codeforces:1174", at)
	require.NoError(t, err)
	require.True(t, on)

	assert.Equal(t, at.Format(time.RFC3339Nano), mr.HGet(KeyBookmarks, "codeforces:1174"))
}

func TestSnapshotTTLAndExpiry(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	snap := domain.PlatformSnapshot{Platform: domain.LeetCode, FetchedAt: time.Now().UTC(), RunID: "r"}
	require.NoError(t, s.SaveSnapshot(ctx, snap))
	assert.Equal(t, DefaultSnapshotTTL, mr.TTL(SnapshotKey(domain.LeetCode)))

	mr.FastForward(DefaultSnapshotTTL + time.Second)

	snaps, err := s.LoadSnapshots(ctx)
	require.NoError(t, err)
	assert.Empty(t, snaps)

	members, err := mr.Members(KeyAllSnapshots)
	if err == nil {
		assert.Empty(t, members, "expired snapshot should be pruned from the set")
	}
}

func TestLoadSnapshotsPrunesUnknownPlatforms(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveSnapshot(ctx, domain.PlatformSnapshot{Platform: domain.CodeChef, FetchedAt: time.Now().UTC(), RunID: "r"}))
	_, err := mr.SetAdd(KeyAllSnapshots, "atcoder", "")
	require.NoError(t, err)
	require.NoError(t, mr.Set(KeyPrefixSnapshot+"atcoder", `{"platform":"atcoder"}`))

	snaps, err := s.LoadSnapshots(ctx)
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, domain.CodeChef, snaps[0].Platform)

	members, err := mr.Members(KeyAllSnapshots)
	require.NoError(t, err)
	assert.Equal(t, []string{"codechef"}, members)
}

func TestExtractPlatform(t *testing.T) {
	p, err := ExtractPlatform(SnapshotKey(domain.CodeChef))
	require.NoError(t, err)
	assert.Equal(t, domain.CodeChef, p)

	_, err = ExtractPlatform("horizon:snapshot:")
	assert.Error(t, err)
	_, err = ExtractPlatform("horizon:bookmarks")
	assert.Error(t, err)
}
