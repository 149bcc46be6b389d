package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/horizon/internal/domain"
	"github.com/redis/go-redis/v9"
)

// toggleScript flips one hash field in a single round trip so concurrent
// toggles never interleave between the check and the write.
//
// KEYS[1] bookmarks hash, ARGV[1] contest ID, ARGV[2] creation time.
// Returns 1 when the bookmark now exists, 0 otherwise.
var toggleScript = redis.NewScript(`
if redis.call('HEXISTS', KEYS[1], ARGV[1]) == 1 then
	redis.call('HDEL', KEYS[1], ARGV[1])
	return 0
end
redis.call('HSET', KEYS[1], ARGV[1], ARGV[2])
return 1
`)

func (s *Store) ToggleBookmark(ctx context.Context, id string, at time.Time) (bool, error) {
	n, err := toggleScript.Run(ctx, s.client, []string{KeyBookmarks}, id, at.UTC().Format(time.RFC3339Nano)).Int()
	if err != nil {
		return false, fmt.Errorf("failed to toggle bookmark: %w", err)
	}
	return n == 1, nil
}

func (s *Store) IsBookmarked(ctx context.Context, id string) (bool, error) {
	ok, err := s.client.HExists(ctx, KeyBookmarks, id).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check bookmark: %w", err)
	}
	return ok, nil
}

func (s *Store) ListBookmarks(ctx context.Context) ([]domain.Bookmark, error) {
	all, err := s.client.HGetAll(ctx, KeyBookmarks).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}

	bookmarks := make([]domain.Bookmark, 0, len(all))
	for id, raw := range all {
		// An unparseable time still yields the bookmark, with a zero time.
		created, _ := time.Parse(time.RFC3339Nano, raw)
		bookmarks = append(bookmarks, domain.Bookmark{ContestID: id, CreatedAt: created})
	}
	return bookmarks, nil
}

func (s *Store) RemoveBookmark(ctx context.Context, id string) error {
	if err := s.client.HDel(ctx, KeyBookmarks, id).Err(); err != nil {
		return fmt.Errorf("failed to remove bookmark: %w", err)
	}
	return nil
}
