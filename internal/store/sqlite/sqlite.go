// Package sqlite is the embedded store, backed by a single SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/MrSnakeDoc/horizon/internal/domain"
)

const currentSchemaVersion = 2

type Store struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) the database at path and migrates it.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One writer keeps toggles serialized.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}

	s := &Store{db: db, path: path}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Path() string { return s.path }

func (s *Store) Backend() string { return "sqlite" }

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	var version int
	if err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		// Table doesn't exist or is empty, start fresh
		version = 0
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}
	if version < 2 {
		if err := s.migrateV2(); err != nil {
			return err
		}
	}
	return nil
}

// migrateV1 creates bookmarks and solutions.
func (s *Store) migrateV1() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS bookmarks (
			contest_id TEXT PRIMARY KEY NOT NULL,
			created_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS solutions (
			contest_id TEXT PRIMARY KEY NOT NULL,
			url TEXT NOT NULL
		);

		INSERT OR REPLACE INTO schema_version (version) VALUES (1);
	`)
	return err
}

// migrateV2 adds platform snapshots.
func (s *Store) migrateV2() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS snapshots (
			platform TEXT PRIMARY KEY NOT NULL,
			fetched_at TEXT NOT NULL,
			run_id TEXT NOT NULL DEFAULT '',
			contests TEXT NOT NULL DEFAULT '[]'
		);

		UPDATE schema_version SET version = 2;
	`)
	return err
}

// ─────────────────────────────────────────────────────────────────
// Bookmarks
// ─────────────────────────────────────────────────────────────────

func (s *Store) ToggleBookmark(ctx context.Context, id string, at time.Time) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin toggle: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `DELETE FROM bookmarks WHERE contest_id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("toggle bookmark: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("toggle bookmark: %w", err)
	}

	if removed == 0 {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO bookmarks (contest_id, created_at) VALUES (?, ?)`,
			id, at.UTC().Format(time.RFC3339Nano)); err != nil {
			return false, fmt.Errorf("toggle bookmark: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit toggle: %w", err)
	}
	return removed == 0, nil
}

func (s *Store) IsBookmarked(ctx context.Context, id string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM bookmarks WHERE contest_id = ?`, id).Scan(&one)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("check bookmark: %w", err)
	}
	return true, nil
}

func (s *Store) ListBookmarks(ctx context.Context) ([]domain.Bookmark, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT contest_id, created_at FROM bookmarks ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	defer rows.Close()

	out := []domain.Bookmark{}
	for rows.Next() {
		var b domain.Bookmark
		var createdAt string
		if err := rows.Scan(&b.ContestID, &createdAt); err != nil {
			return nil, fmt.Errorf("scan bookmark: %w", err)
		}
		b.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *Store) RemoveBookmark(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM bookmarks WHERE contest_id = ?`, id); err != nil {
		return fmt.Errorf("remove bookmark: %w", err)
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────
// Solutions
// ─────────────────────────────────────────────────────────────────

func (s *Store) SetSolution(ctx context.Context, id, url string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO solutions (contest_id, url) VALUES (?, ?)
		ON CONFLICT(contest_id) DO UPDATE SET url = excluded.url
	`, id, url)
	if err != nil {
		return fmt.Errorf("set solution: %w", err)
	}
	return nil
}

func (s *Store) DeleteSolution(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM solutions WHERE contest_id = ?`, id); err != nil {
		return fmt.Errorf("delete solution: %w", err)
	}
	return nil
}

func (s *Store) ListSolutions(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT contest_id, url FROM solutions`)
	if err != nil {
		return nil, fmt.Errorf("list solutions: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var id, url string
		if err := rows.Scan(&id, &url); err != nil {
			return nil, fmt.Errorf("scan solution: %w", err)
		}
		out[id] = url
	}
	return out, rows.Err()
}

// ─────────────────────────────────────────────────────────────────
// Snapshots
// ─────────────────────────────────────────────────────────────────

func (s *Store) SaveSnapshot(ctx context.Context, snap domain.PlatformSnapshot) error {
	contests, err := json.Marshal(snap.Contests)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (platform, fetched_at, run_id, contests) VALUES (?, ?, ?, ?)
		ON CONFLICT(platform) DO UPDATE SET
			fetched_at = excluded.fetched_at,
			run_id = excluded.run_id,
			contests = excluded.contests
	`, snap.Platform.Slug(), snap.FetchedAt.UTC().Format(time.RFC3339Nano), snap.RunID, string(contests))
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (s *Store) LoadSnapshots(ctx context.Context) ([]domain.PlatformSnapshot, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT platform, fetched_at, run_id, contests FROM snapshots`)
	if err != nil {
		return nil, fmt.Errorf("load snapshots: %w", err)
	}
	defer rows.Close()

	out := []domain.PlatformSnapshot{}
	for rows.Next() {
		var slug, fetchedAt, runID, contests string
		if err := rows.Scan(&slug, &fetchedAt, &runID, &contests); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}

		p, err := domain.ParsePlatform(slug)
		if err != nil {
			continue
		}
		snap := domain.PlatformSnapshot{Platform: p, RunID: runID}
		snap.FetchedAt, _ = time.Parse(time.RFC3339Nano, fetchedAt)
		if err := json.Unmarshal([]byte(contests), &snap.Contests); err != nil {
			continue
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}
