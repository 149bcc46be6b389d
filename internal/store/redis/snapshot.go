package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/horizon/internal/domain"
	"github.com/redis/go-redis/v9"
)

// SaveSnapshot stores the snapshot and registers its platform in the
// snapshot set, in one pipeline.
func (s *Store) SaveSnapshot(ctx context.Context, snap domain.PlatformSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, SnapshotKey(snap.Platform), data, s.snapshotTTL)
	pipe.SAdd(ctx, KeyAllSnapshots, snap.Platform.Slug())
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// LoadSnapshots returns every snapshot still present. Expired entries are
// pruned from the snapshot set.
func (s *Store) LoadSnapshots(ctx context.Context) ([]domain.PlatformSnapshot, error) {
	slugs, err := s.client.SMembers(ctx, KeyAllSnapshots).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot platforms: %w", err)
	}
	if len(slugs) == 0 {
		return []domain.PlatformSnapshot{}, nil
	}

	pipe := s.client.Pipeline()
	cmds := make(map[string]*redis.StringCmd, len(slugs))
	platforms := make(map[string]domain.Platform, len(slugs))
	for _, slug := range slugs {
		p, err := ExtractPlatform(KeyPrefixSnapshot + slug)
		if err != nil {
			// unknown platform or foreign member
			_ = s.client.SRem(ctx, KeyAllSnapshots, slug).Err()
			continue
		}
		platforms[slug] = p
		cmds[slug] = pipe.Get(ctx, SnapshotKey(p))
	}
	if len(cmds) == 0 {
		return []domain.PlatformSnapshot{}, nil
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to load snapshots: %w", err)
	}

	snaps := make([]domain.PlatformSnapshot, 0, len(slugs))
	for slug, cmd := range cmds {
		data, err := cmd.Bytes()
		if errors.Is(err, redis.Nil) {
			_ = s.client.SRem(ctx, KeyAllSnapshots, slug).Err()
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get snapshot %s: %w", slug, err)
		}

		var snap domain.PlatformSnapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			// Skip snapshots that couldn't be decoded
			continue
		}
		if snap.Platform != platforms[slug] {
			continue
		}
		snaps = append(snaps, snap)
	}
	return snaps, nil
}
