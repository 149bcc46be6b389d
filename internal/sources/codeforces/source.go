// Package codeforces reads contests from the public Codeforces API.
package codeforces

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/horizon/internal/domain"
	"github.com/MrSnakeDoc/horizon/internal/sources"
)

type Source struct {
	url     string
	fetcher *sources.Fetcher
}

// New builds a source for a contest.list endpoint
// (ex: https://codeforces.com/api/contest.list?gym=false).
func New(url string, fetcher *sources.Fetcher) *Source {
	return &Source{url: url, fetcher: fetcher}
}

func (s *Source) Platform() domain.Platform { return domain.Codeforces }

func (s *Source) Fetch(ctx context.Context) ([]domain.RawContest, error) {
	var resp listResponse
	if err := s.fetcher.GetJSON(ctx, s.url, &resp); err != nil {
		return nil, fmt.Errorf("codeforces: %w", err)
	}
	if resp.Status != "OK" {
		return nil, fmt.Errorf("codeforces: api status %q: %s", resp.Status, resp.Comment)
	}
	return mapContests(resp.Result), nil
}
