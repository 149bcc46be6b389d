// Package codechef reads contests from the CodeChef contest list API.
package codechef

import (
	"context"
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/horizon/internal/domain"
	"github.com/MrSnakeDoc/horizon/internal/logger"
	"github.com/MrSnakeDoc/horizon/internal/sources"
)

type Source struct {
	url     string
	fetcher *sources.Fetcher
	log     logger.Logger
}

func New(url string, fetcher *sources.Fetcher, log logger.Logger) *Source {
	return &Source{url: url, fetcher: fetcher, log: log}
}

func (s *Source) Platform() domain.Platform { return domain.CodeChef }

func (s *Source) Fetch(ctx context.Context) ([]domain.RawContest, error) {
	var resp listResponse
	if err := s.fetcher.GetJSON(ctx, s.url, &resp); err != nil {
		return nil, fmt.Errorf("codechef: %w", err)
	}
	if resp.Status != "" && !strings.EqualFold(resp.Status, "success") {
		return nil, fmt.Errorf("codechef: api status %q: %s", resp.Status, resp.Message)
	}

	contests, skipped := mapContests(resp)
	for _, err := range skipped {
		s.log.Debug("skipping codechef contest", logger.Error(err))
	}
	return contests, nil
}
