package app

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/horizon/internal/aggregator"
	"github.com/MrSnakeDoc/horizon/internal/config"
	"github.com/MrSnakeDoc/horizon/internal/domain"
	"github.com/MrSnakeDoc/horizon/internal/logger"
	"github.com/MrSnakeDoc/horizon/internal/redis"
	"github.com/MrSnakeDoc/horizon/internal/sources"
	"github.com/MrSnakeDoc/horizon/internal/sources/codechef"
	"github.com/MrSnakeDoc/horizon/internal/sources/codeforces"
	"github.com/MrSnakeDoc/horizon/internal/sources/leetcode"
	"github.com/MrSnakeDoc/horizon/internal/sources/relay"
	"github.com/MrSnakeDoc/horizon/internal/store"
	"github.com/MrSnakeDoc/horizon/internal/store/memory"
	redisstore "github.com/MrSnakeDoc/horizon/internal/store/redis"
	"github.com/MrSnakeDoc/horizon/internal/store/sqlite"
)

// OpenStore opens the backend named by cfg.Store. Redis is retried with
// backoff until the connect budget runs out.
func OpenStore(ctx context.Context, cfg *config.Config, log logger.Logger) (store.Store, error) {
	switch cfg.Store {
	case config.StoreRedis:
		log.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		client, err := redis.Connect(ctx, redis.OptionsFromConfig(cfg), log)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		return redisstore.NewStore(client), nil
	case config.StoreSQLite:
		st, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", cfg.SQLitePath, err)
		}
		return st, nil
	case config.StoreMemory:
		log.Warn("memory store selected, bookmarks and solutions are lost on restart")
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}

// EnabledPlatforms resolves cfg.Platforms, keeping display order and
// dropping duplicates.
func EnabledPlatforms(cfg *config.Config) ([]domain.Platform, error) {
	wanted := make(map[domain.Platform]struct{}, len(cfg.Platforms))
	for _, name := range cfg.Platforms {
		p, err := domain.ParsePlatform(name)
		if err != nil {
			return nil, fmt.Errorf("HORIZON_PLATFORMS: %w", err)
		}
		wanted[p] = struct{}{}
	}

	out := make([]domain.Platform, 0, len(wanted))
	for _, p := range domain.Platforms {
		if _, ok := wanted[p]; ok {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("HORIZON_PLATFORMS: no platform enabled")
	}
	return out, nil
}

// BuildSources returns one source per enabled platform. With a relay URL
// every platform is read from the relay instead of its native API.
func BuildSources(cfg *config.Config, platforms []domain.Platform, log logger.Logger) []sources.Source {
	fetcher := sources.NewFetcher(sources.FetcherOptions{
		Timeout:   cfg.FetchTimeout,
		Retries:   cfg.FetchRetries,
		RetryWait: cfg.FetchRetryWait,
		UserAgent: cfg.UserAgent,
	}, log)

	out := make([]sources.Source, 0, len(platforms))
	for _, p := range platforms {
		if cfg.RelayURL != "" {
			out = append(out, relay.New(cfg.RelayURL, p, fetcher, log))
			continue
		}
		switch p {
		case domain.Codeforces:
			out = append(out, codeforces.New(cfg.CodeforcesURL, fetcher))
		case domain.LeetCode:
			out = append(out, leetcode.New(cfg.LeetCodeURL, fetcher))
		case domain.CodeChef:
			out = append(out, codechef.New(cfg.CodeChefURL, fetcher, log))
		}
	}
	return out
}

func BuildAggregator(cfg *config.Config, log logger.Logger) (*aggregator.Aggregator, error) {
	platforms, err := EnabledPlatforms(cfg)
	if err != nil {
		return nil, err
	}
	srcs := BuildSources(cfg, platforms, log)
	return aggregator.New(srcs, aggregator.Options{
		Timeout:    cfg.FetchTimeout,
		PastWindow: cfg.PastWindow,
	}, log), nil
}
