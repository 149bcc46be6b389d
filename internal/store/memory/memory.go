// Package memory is a process-local store, used by tests and when
// HORIZON_STORE=memory.
package memory

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/MrSnakeDoc/horizon/internal/domain"
)

type Store struct {
	mu        sync.Mutex
	bookmarks map[string]time.Time
	solutions map[string]string
	snapshots map[domain.Platform]domain.PlatformSnapshot
}

func New() *Store {
	return &Store{
		bookmarks: make(map[string]time.Time),
		solutions: make(map[string]string),
		snapshots: make(map[domain.Platform]domain.PlatformSnapshot),
	}
}

func (s *Store) Backend() string { return "memory" }

func (s *Store) ListBookmarks(_ context.Context) ([]domain.Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Bookmark, 0, len(s.bookmarks))
	for id, created := range s.bookmarks {
		out = append(out, domain.Bookmark{ContestID: id, CreatedAt: created})
	}
	return out, nil
}

func (s *Store) IsBookmarked(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.bookmarks[id]
	return ok, nil
}

func (s *Store) ToggleBookmark(_ context.Context, id string, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bookmarks[id]; ok {
		delete(s.bookmarks, id)
		return false, nil
	}
	s.bookmarks[id] = at.UTC()
	return true, nil
}

func (s *Store) RemoveBookmark(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.bookmarks, id)
	return nil
}

func (s *Store) SetSolution(_ context.Context, id, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.solutions[id] = url
	return nil
}

func (s *Store) DeleteSolution(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.solutions, id)
	return nil
}

func (s *Store) ListSolutions(_ context.Context) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return maps.Clone(s.solutions), nil
}

func (s *Store) SaveSnapshot(_ context.Context, snap domain.PlatformSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap.Contests = append([]domain.Contest(nil), snap.Contests...)
	s.snapshots[snap.Platform] = snap
	return nil
}

func (s *Store) LoadSnapshots(_ context.Context) ([]domain.PlatformSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.PlatformSnapshot, 0, len(s.snapshots))
	for _, snap := range s.snapshots {
		snap.Contests = append([]domain.Contest(nil), snap.Contests...)
		out = append(out, snap)
	}
	return out, nil
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }
