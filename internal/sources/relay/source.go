// Package relay reads contests from a backend that proxies the platforms
// and serves them under <base>/<platform-slug>.
package relay

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/horizon/internal/domain"
	"github.com/MrSnakeDoc/horizon/internal/logger"
	"github.com/MrSnakeDoc/horizon/internal/sources"
)

type Source struct {
	platform domain.Platform
	url      string
	fetcher  *sources.Fetcher
	log      logger.Logger
}

// New builds a relay source for one platform. base has no trailing slash.
func New(base string, p domain.Platform, fetcher *sources.Fetcher, log logger.Logger) *Source {
	return &Source{
		platform: p,
		url:      base + "/" + p.Slug(),
		fetcher:  fetcher,
		log:      log,
	}
}

func (s *Source) Platform() domain.Platform { return s.platform }

func (s *Source) Fetch(ctx context.Context) ([]domain.RawContest, error) {
	var resp relayResponse
	if err := s.fetcher.GetJSON(ctx, s.url, &resp); err != nil {
		return nil, fmt.Errorf("relay %s: %w", s.platform.Slug(), err)
	}

	contests, skipped := mapContests(s.platform, resp)
	for _, err := range skipped {
		s.log.Debug("skipping relay contest",
			logger.String("platform", s.platform.Slug()),
			logger.Error(err))
	}
	return contests, nil
}
