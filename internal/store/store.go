// Package store defines the persistence capability behind bookmarks,
// solution links and platform snapshots.
package store

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/horizon/internal/domain"
)

// Store is implemented by the redis, sqlite and memory backends.
// ToggleBookmark is atomic within a backend.
type Store interface {
	ListBookmarks(ctx context.Context) ([]domain.Bookmark, error)
	IsBookmarked(ctx context.Context, id string) (bool, error)
	// ToggleBookmark flips membership of id and reports the new state.
	// at becomes the creation time when the bookmark is added.
	ToggleBookmark(ctx context.Context, id string, at time.Time) (bool, error)
	RemoveBookmark(ctx context.Context, id string) error

	SetSolution(ctx context.Context, id, url string) error
	DeleteSolution(ctx context.Context, id string) error
	ListSolutions(ctx context.Context) (map[string]string, error)

	SaveSnapshot(ctx context.Context, snap domain.PlatformSnapshot) error
	LoadSnapshots(ctx context.Context) ([]domain.PlatformSnapshot, error)

	Ping(ctx context.Context) error
	Close() error
	// Backend names the implementation ("redis", "sqlite", "memory").
	Backend() string
}
