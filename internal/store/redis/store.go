// Package redis is the Redis-backed store.
package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultSnapshotTTL bounds how long a platform snapshot survives without
// being refreshed.
const DefaultSnapshotTTL = 7 * 24 * time.Hour

// Store handles Redis operations for bookmarks, solutions and snapshots.
type Store struct {
	client      *redis.Client
	snapshotTTL time.Duration
}

func NewStore(client *redis.Client) *Store {
	return &Store{
		client:      client,
		snapshotTTL: DefaultSnapshotTTL,
	}
}

func (s *Store) Backend() string { return "redis" }

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Close() error {
	return s.client.Close()
}
