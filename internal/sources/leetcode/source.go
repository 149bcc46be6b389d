// Package leetcode reads contests from the LeetCode GraphQL endpoint.
package leetcode

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/horizon/internal/domain"
	"github.com/MrSnakeDoc/horizon/internal/sources"
)

type Source struct {
	url     string
	fetcher *sources.Fetcher
}

func New(url string, fetcher *sources.Fetcher) *Source {
	return &Source{url: url, fetcher: fetcher}
}

func (s *Source) Platform() domain.Platform { return domain.LeetCode }

func (s *Source) Fetch(ctx context.Context) ([]domain.RawContest, error) {
	var resp graphQLResponse
	if err := s.fetcher.PostJSON(ctx, s.url, graphQLRequest{Query: contestsQuery}, &resp); err != nil {
		return nil, fmt.Errorf("leetcode: %w", err)
	}
	if len(resp.Errors) > 0 {
		msgs := make([]string, 0, len(resp.Errors))
		for _, e := range resp.Errors {
			msgs = append(msgs, e.Message)
		}
		return nil, fmt.Errorf("leetcode: %w", errors.New(strings.Join(msgs, "; ")))
	}
	return mapContests(resp.Data.AllContests), nil
}
