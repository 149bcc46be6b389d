package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/horizon/internal/app"
	"github.com/MrSnakeDoc/horizon/internal/bookmarks"
	"github.com/MrSnakeDoc/horizon/internal/config"
	"github.com/MrSnakeDoc/horizon/internal/index"
	"github.com/MrSnakeDoc/horizon/internal/logger"
	"github.com/MrSnakeDoc/horizon/internal/scheduler"
	"github.com/MrSnakeDoc/horizon/internal/utils"
)

var bookmarksCmd = &cobra.Command{
	Use:   "bookmarks",
	Short: "Inspect and change bookmarks in the configured store",
	Long: `Operate on the bookmark set of the configured store (HORIZON_STORE).

Contests are resolved against the last persisted snapshots, so run the
service (or let it refresh once) before bookmarking new contests.`,
}

var bookmarksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List bookmarked contests and orphan bookmarks",
	Args:  cobra.NoArgs,
	RunE:  runBookmarksList,
}

var bookmarksToggleCmd = &cobra.Command{
	Use:     "toggle <contest-id>",
	Short:   "Add or remove a bookmark",
	Example: "  horizon bookmarks toggle codeforces:2050",
	Args:    cobra.ExactArgs(1),
	RunE:    runBookmarksToggle,
}

func init() {
	bookmarksCmd.AddCommand(bookmarksListCmd, bookmarksToggleCmd)
}

// withService opens the store, restores snapshots into a fresh index and
// hands a bookmark service to fn.
func withService(cmd *cobra.Command, fn func(*bookmarks.Service) error) error {
	cfg := config.Load()
	log := cliLogger(cfg)

	st, err := app.OpenStore(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer utils.CloseLogged(st, log, "store")

	idx := index.NewMemoryIndex()
	if _, err := scheduler.NewSnapshotSyncer(st, idx, log).Sync(cmd.Context()); err != nil {
		log.Warn("could not restore snapshots", logger.Error(err))
	}
	return fn(bookmarks.NewService(st, idx, log))
}

func runBookmarksList(cmd *cobra.Command, _ []string) error {
	return withService(cmd, func(svc *bookmarks.Service) error {
		res, err := svc.Resolve(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(res.Contests) == 0 && len(res.Orphans) == 0 {
			fmt.Fprintln(out, "No bookmarks.")
			return nil
		}

		now := time.Now()
		if len(res.Contests) > 0 {
			fmt.Fprintln(out, renderViews(res.Contests, now))
		}
		if len(res.Orphans) > 0 {
			fmt.Fprintf(out, "\n%d bookmark(s) no longer match a known contest:\n", len(res.Orphans))
			fmt.Fprintln(out, renderOrphans(res.Orphans, now))
		}
		return nil
	})
}

func runBookmarksToggle(cmd *cobra.Command, args []string) error {
	return withService(cmd, func(svc *bookmarks.Service) error {
		on, err := svc.Toggle(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		state := "removed"
		if on {
			state = "added"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ bookmark %s: %s\n", state, args[0])
		return nil
	})
}
