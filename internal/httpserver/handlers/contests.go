package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/MrSnakeDoc/horizon/internal/domain"
	"github.com/MrSnakeDoc/horizon/internal/httpserver/deps"
	"github.com/MrSnakeDoc/horizon/internal/logger"
)

const (
	defaultSuggestLimit = 10
	maxSuggestLimit     = 50
)

type contestsResponse struct {
	Contests  []domain.ContestView `json:"contests"`
	Count     int                  `json:"count"`
	Errors    map[string]string    `json:"errors"`
	FetchedAt *time.Time           `json:"fetchedAt"`
}

type suggestResponse struct {
	Query       string              `json:"query"`
	Suggestions []domain.Suggestion `json:"suggestions"`
}

// Contests lists indexed contests. Repeated or comma separated platform
// and status parameters are OR-ed within an axis, axes are AND-ed.
func Contests(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		fs, err := domain.NewFilterState(q["platform"], q["status"], q.Get("q"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		onlyBookmarked := false
		if raw := strings.TrimSpace(q.Get("bookmarked")); raw != "" {
			onlyBookmarked, err = strconv.ParseBool(raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, "bookmarked must be a boolean")
				return
			}
		}

		contests := domain.Filter(d.Index.Contests(d.Now()), fs)
		views, err := d.Bookmarks.Annotate(r.Context(), contests)
		if err != nil {
			if onlyBookmarked {
				writeError(w, http.StatusServiceUnavailable, "bookmark store unavailable")
				return
			}
			// listing still works without bookmark flags
			d.Logger.Warn("annotate contests failed", logger.Error(err))
			views = make([]domain.ContestView, len(contests))
			for i, c := range contests {
				views[i] = domain.ContestView{Contest: c}
			}
		}

		if onlyBookmarked {
			kept := views[:0]
			for _, v := range views {
				if v.IsBookmarked {
					kept = append(kept, v)
				}
			}
			views = kept
		}

		resp := contestsResponse{
			Contests: views,
			Count:    len(views),
			Errors:   d.Index.Errors(),
		}
		if last := d.Index.LastFetch(); !last.IsZero() {
			resp.FetchedAt = &last
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func Suggest(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := strings.TrimSpace(r.URL.Query().Get("q"))
		if query == "" {
			writeError(w, http.StatusBadRequest, "q is required")
			return
		}

		limit := defaultSuggestLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				writeError(w, http.StatusBadRequest, "limit must be a positive integer")
				return
			}
			limit = min(n, maxSuggestLimit)
		}

		suggestions := domain.Suggest(query, d.Index.Contests(d.Now()), limit)
		if suggestions == nil {
			suggestions = []domain.Suggestion{}
		}
		writeJSON(w, http.StatusOK, suggestResponse{Query: query, Suggestions: suggestions})
	}
}

func Contest(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := contestID(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid contest id")
			return
		}

		c, found := d.Index.Contest(id, d.Now())
		if !found {
			writeError(w, http.StatusNotFound, "contest not found")
			return
		}

		marked, err := d.Bookmarks.IsBookmarked(r.Context(), id)
		if err != nil {
			d.Logger.Warn("bookmark lookup failed", logger.String("contest_id", id), logger.Error(err))
		}
		writeJSON(w, http.StatusOK, domain.ContestView{Contest: c, IsBookmarked: marked})
	}
}
