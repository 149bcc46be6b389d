package handlers

import (
	"errors"
	"net/http"

	"github.com/MrSnakeDoc/horizon/internal/bookmarks"
	"github.com/MrSnakeDoc/horizon/internal/httpserver/deps"
	"github.com/MrSnakeDoc/horizon/internal/logger"
)

type bookmarkState struct {
	ID         string `json:"id"`
	Bookmarked bool   `json:"bookmarked"`
}

func ListBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := d.Bookmarks.Resolve(r.Context())
		if err != nil {
			d.Logger.Error("resolve bookmarks failed", logger.Error(err))
			writeError(w, http.StatusServiceUnavailable, "bookmark store unavailable")
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func GetBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := contestID(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid contest id")
			return
		}

		on, err := d.Bookmarks.IsBookmarked(r.Context(), id)
		if err != nil {
			d.Logger.Error("bookmark lookup failed", logger.String("contest_id", id), logger.Error(err))
			writeError(w, http.StatusServiceUnavailable, "bookmark store unavailable")
			return
		}
		writeJSON(w, http.StatusOK, bookmarkState{ID: id, Bookmarked: on})
	}
}

func ToggleBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := contestID(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid contest id")
			return
		}

		on, err := d.Bookmarks.Toggle(r.Context(), id)
		switch {
		case errors.Is(err, bookmarks.ErrUnknownContest):
			writeError(w, http.StatusNotFound, "contest not found")
			return
		case errors.Is(err, bookmarks.ErrEmptyID):
			writeError(w, http.StatusBadRequest, "invalid contest id")
			return
		case err != nil:
			d.Logger.Error("toggle bookmark failed", logger.String("contest_id", id), logger.Error(err))
			writeError(w, http.StatusServiceUnavailable, "bookmark store unavailable")
			return
		}

		d.Logger.Info("bookmark toggled", logger.String("contest_id", id), logger.Bool("bookmarked", on))
		writeJSON(w, http.StatusOK, bookmarkState{ID: id, Bookmarked: on})
	}
}
