package redis

import (
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/horizon/internal/domain"
)

const (
	// KeyBookmarks is a hash of contest ID -> creation time (RFC3339Nano).
	KeyBookmarks = "horizon:bookmarks"
	// KeySolutions is a hash of contest ID -> solution URL.
	KeySolutions = "horizon:solutions"
	// KeyPrefixSnapshot prefixes one JSON snapshot per platform.
	KeyPrefixSnapshot = "horizon:snapshot:"
	// KeyAllSnapshots is the set of platform slugs with a stored snapshot.
	KeyAllSnapshots = "horizon:snapshots:all"
)

// SnapshotKey returns the Redis key for a platform snapshot.
func SnapshotKey(p domain.Platform) string {
	return KeyPrefixSnapshot + p.Slug()
}

// ExtractPlatform extracts the platform from a snapshot key.
func ExtractPlatform(key string) (domain.Platform, error) {
	slug, ok := strings.CutPrefix(key, KeyPrefixSnapshot)
	if !ok || slug == "" {
		return "", fmt.Errorf("invalid snapshot key: %s", key)
	}
	return domain.ParsePlatform(slug)
}
