// Package bookmarks joins the bookmark set kept in a store with the
// contests currently indexed.
package bookmarks

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/MrSnakeDoc/horizon/internal/domain"
	"github.com/MrSnakeDoc/horizon/internal/index"
	"github.com/MrSnakeDoc/horizon/internal/logger"
	"github.com/MrSnakeDoc/horizon/internal/store"
)

var (
	ErrEmptyID        = errors.New("contest id is empty")
	ErrUnknownContest = errors.New("contest is not indexed")
)

// Resolved is the bookmark set split by whether the contest is still known.
// Orphans are reported as-is, never turned into placeholder contests.
type Resolved struct {
	Contests []domain.ContestView `json:"contests"`
	Orphans  []domain.Bookmark    `json:"orphans"`
}

type Service struct {
	store store.Store
	index *index.MemoryIndex
	log   logger.Logger
	now   func() time.Time
}

func NewService(st store.Store, idx *index.MemoryIndex, log logger.Logger) *Service {
	return &Service{store: st, index: idx, log: log, now: time.Now}
}

func (s *Service) IsBookmarked(ctx context.Context, id string) (bool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return false, ErrEmptyID
	}
	return s.store.IsBookmarked(ctx, id)
}

// Toggle flips the bookmark on id and returns the new state. Adding
// requires the contest to be indexed; removing always works so orphans
// can be cleared.
func (s *Service) Toggle(ctx context.Context, id string) (bool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return false, ErrEmptyID
	}

	if !s.index.Has(id) {
		marked, err := s.store.IsBookmarked(ctx, id)
		if err != nil {
			return false, err
		}
		if !marked {
			return false, fmt.Errorf("%s: %w", id, ErrUnknownContest)
		}
	}

	on, err := s.store.ToggleBookmark(ctx, id, s.now())
	if err != nil {
		return false, err
	}
	s.log.Debug("bookmark toggled", logger.String("contest_id", id), logger.Bool("bookmarked", on))
	return on, nil
}

// Annotate pairs each contest with its bookmark flag, keeping order.
func (s *Service) Annotate(ctx context.Context, contests []domain.Contest) ([]domain.ContestView, error) {
	marked, err := s.bookmarkSet(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]domain.ContestView, len(contests))
	for i, c := range contests {
		_, ok := marked[c.ID]
		views[i] = domain.ContestView{Contest: c, IsBookmarked: ok}
	}
	return views, nil
}

// Resolve returns bookmarked contests in display order, plus orphans
// sorted by creation time.
func (s *Service) Resolve(ctx context.Context) (Resolved, error) {
	list, err := s.store.ListBookmarks(ctx)
	if err != nil {
		return Resolved{}, fmt.Errorf("list bookmarks: %w", err)
	}

	byID := make(map[string]domain.Bookmark, len(list))
	for _, b := range list {
		byID[b.ContestID] = b
	}

	res := Resolved{Contests: []domain.ContestView{}, Orphans: []domain.Bookmark{}}
	for _, c := range s.index.Contests(s.now()) {
		if _, ok := byID[c.ID]; ok {
			res.Contests = append(res.Contests, domain.ContestView{Contest: c, IsBookmarked: true})
			delete(byID, c.ID)
		}
	}
	for _, b := range byID {
		res.Orphans = append(res.Orphans, b)
	}
	sort.Slice(res.Orphans, func(i, j int) bool {
		if res.Orphans[i].CreatedAt.Equal(res.Orphans[j].CreatedAt) {
			return res.Orphans[i].ContestID < res.Orphans[j].ContestID
		}
		return res.Orphans[i].CreatedAt.Before(res.Orphans[j].CreatedAt)
	})
	return res, nil
}

// Orphans lists bookmarks whose contest is not indexed.
func (s *Service) Orphans(ctx context.Context) ([]domain.Bookmark, error) {
	res, err := s.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	return res.Orphans, nil
}

// Remove drops a bookmark unconditionally.
func (s *Service) Remove(ctx context.Context, id string) error {
	return s.store.RemoveBookmark(ctx, id)
}

func (s *Service) bookmarkSet(ctx context.Context) (map[string]struct{}, error) {
	list, err := s.store.ListBookmarks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	set := make(map[string]struct{}, len(list))
	for _, b := range list {
		set[b.ContestID] = struct{}{}
	}
	return set, nil
}
