// Package storetest is a conformance suite run against every store backend.
package storetest

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/horizon/internal/domain"
	"github.com/MrSnakeDoc/horizon/internal/store"
)

// Run executes the suite. newStore must return an empty store.
func Run(t *testing.T, newStore func(t *testing.T) store.Store) {
	t.Run("toggle twice restores membership", func(t *testing.T) {
		testToggleInvolution(t, newStore(t))
	})
	t.Run("bookmarks list and remove", func(t *testing.T) {
		testBookmarks(t, newStore(t))
	})
	t.Run("concurrent toggles stay consistent", func(t *testing.T) {
		testConcurrentToggle(t, newStore(t))
	})
	t.Run("solutions", func(t *testing.T) {
		testSolutions(t, newStore(t))
	})
	t.Run("snapshots", func(t *testing.T) {
		testSnapshots(t, newStore(t))
	})
	t.Run("ping", func(t *testing.T) {
		require.NoError(t, newStore(t).Ping(context.Background()))
	})
}

var at = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func testToggleInvolution(t *testing.T, s store.Store) {
	ctx := context.Background()
	const id = "codeforces:1174"

	on, err := s.ToggleBookmark(ctx, id, at)
	require.NoError(t, err)
	assert.True(t, on)

	marked, err := s.IsBookmarked(ctx, id)
	require.NoError(t, err)
	assert.True(t, marked)

	off, err := s.ToggleBookmark(ctx, id, at)
	require.NoError(t, err)
	assert.False(t, off)

	marked, err = s.IsBookmarked(ctx, id)
	require.NoError(t, err)
	assert.False(t, marked)
}

func testBookmarks(t *testing.T, s store.Store) {
	ctx := context.Background()

	for i, id := range []string{"codechef:START47", "leetcode:weekly-contest-305", "codeforces:2050"} {
		_, err := s.ToggleBookmark(ctx, id, at.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
	}

	list, err := s.ListBookmarks(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	sort.Slice(list, func(i, j int) bool { return list[i].ContestID < list[j].ContestID })
	assert.Equal(t, "codechef:START47", list[0].ContestID)
	assert.True(t, list[0].CreatedAt.Equal(at), "createdAt = %v", list[0].CreatedAt)

	require.NoError(t, s.RemoveBookmark(ctx, "codechef:START47"))
	require.NoError(t, s.RemoveBookmark(ctx, "never-bookmarked"))

	list, err = s.ListBookmarks(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func testConcurrentToggle(t *testing.T, s store.Store) {
	ctx := context.Background()
	const id = "codeforces:1175"
	const n = 20

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.ToggleBookmark(ctx, id, at)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// An even number of toggles leaves the bookmark absent.
	marked, err := s.IsBookmarked(ctx, id)
	require.NoError(t, err)
	assert.False(t, marked)
}

func testSolutions(t *testing.T, s store.Store) {
	ctx := context.Background()

	require.NoError(t, s.SetSolution(ctx, "codeforces:1175", "https://youtu.be/a"))
	require.NoError(t, s.SetSolution(ctx, "leetcode:weekly-contest-304", "https://youtu.be/b"))
	require.NoError(t, s.SetSolution(ctx, "codeforces:1175", "https://youtu.be/c"))

	links, err := s.ListSolutions(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"codeforces:1175":             "https://youtu.be/c",
		"leetcode:weekly-contest-304": "https://youtu.be/b",
	}, links)

	require.NoError(t, s.DeleteSolution(ctx, "codeforces:1175"))
	links, err = s.ListSolutions(ctx)
	require.NoError(t, err)
	assert.Len(t, links, 1)
}

func testSnapshots(t *testing.T, s store.Store) {
	ctx := context.Background()

	empty, err := s.LoadSnapshots(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	c, err := domain.Normalize(domain.RawContest{
		Platform: domain.CodeChef, Code: "START47", Name: "Starters 47",
		Start: at.Add(48 * time.Hour), Duration: 2 * time.Hour,
	}, at)
	require.NoError(t, err)

	first := domain.PlatformSnapshot{Platform: domain.CodeChef, Contests: []domain.Contest{c}, FetchedAt: at, RunID: "run-1"}
	require.NoError(t, s.SaveSnapshot(ctx, first))

	second := first
	second.FetchedAt = at.Add(5 * time.Minute)
	second.RunID = "run-2"
	require.NoError(t, s.SaveSnapshot(ctx, second))

	cf := domain.PlatformSnapshot{Platform: domain.Codeforces, FetchedAt: at, RunID: "run-2"}
	require.NoError(t, s.SaveSnapshot(ctx, cf))

	snaps, err := s.LoadSnapshots(ctx)
	require.NoError(t, err)
	require.Len(t, snaps, 2)

	var chef domain.PlatformSnapshot
	for _, snap := range snaps {
		if snap.Platform == domain.CodeChef {
			chef = snap
		}
	}
	assert.Equal(t, "run-2", chef.RunID)
	require.Len(t, chef.Contests, 1)
	assert.Equal(t, "codechef:START47", chef.Contests[0].ID)
	assert.True(t, chef.Contests[0].StartTime.Equal(c.StartTime))
}
