package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/horizon/internal/httpserver/deps"
)

type healthzResponse struct {
	Status        string  `json:"status"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	Version       string  `json:"version,omitempty"`
	Commit        string  `json:"commit,omitempty"`
	BuildDate     string  `json:"build_date,omitempty"`
	GoVersion     string  `json:"go_version,omitempty"`
}

func Healthz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, healthzResponse{
			Status:        "ok",
			Version:       d.Version,
			Commit:        d.Commit,
			BuildDate:     d.BuildDate,
			GoVersion:     d.GoVersion,
			UptimeSeconds: d.Now().Sub(d.StartTime).Seconds(),
		})
	}
}

type readyzResponse struct {
	Ready bool `json:"ready"`
}

// Readyz reports ready once any platform has contests, from a fetch or a
// persisted snapshot.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !d.Index.HasData() {
			writeJSON(w, http.StatusServiceUnavailable, readyzResponse{Ready: false})
			return
		}
		writeJSON(w, http.StatusOK, readyzResponse{Ready: true})
	}
}

type platformStatus struct {
	OK          bool   `json:"ok"`
	Contests    int    `json:"contests"`
	FetchedAt   string `json:"fetched_at,omitempty"`
	LastAttempt string `json:"last_attempt,omitempty"`
	RunID       string `json:"run_id,omitempty"`
	Error       string `json:"error,omitempty"`
}

type storeStatus struct {
	OK      bool   `json:"ok"`
	Backend string `json:"backend"`
	Impact  string `json:"impact,omitempty"`
	Error   string `json:"error,omitempty"`
}

type solutionsStatus struct {
	Loaded     int    `json:"loaded"`
	LastReload string `json:"last_reload"`
}

type infraResponse struct {
	Mode      string                    `json:"mode"`
	Platforms map[string]platformStatus `json:"platforms"`
	Store     storeStatus               `json:"store"`
	Solutions solutionsStatus           `json:"solutions"`
}

// Infra reports platform and store health. Mode is "ok" when everything
// works, "degraded" when some platform failed or the store is down while
// contests are still served, "critical" when no platform has data.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		platforms := make(map[string]platformStatus, len(d.Platforms))
		for _, p := range d.Platforms {
			platforms[p.Slug()] = platformStatus{Error: "never fetched"}
		}
		for _, s := range d.Index.States() {
			platforms[s.Platform.Slug()] = platformStatus{
				OK:          s.LastError == "" && !s.FetchedAt.IsZero(),
				Contests:    s.Count,
				FetchedAt:   formatTime(s.FetchedAt),
				LastAttempt: formatTime(s.LastAttempt),
				RunID:       s.RunID,
				Error:       s.LastError,
			}
		}

		st := checkStore(r.Context(), d)
		lastReload := formatTime(d.Index.GetLastSolutionReload())
		if lastReload == "" {
			lastReload = "never"
		}

		writeJSON(w, http.StatusOK, infraResponse{
			Mode:      determineMode(d.Index.HasData(), platforms, st),
			Platforms: platforms,
			Store:     st,
			Solutions: solutionsStatus{Loaded: d.Index.SolutionCount(), LastReload: lastReload},
		})
	}
}

func determineMode(hasData bool, platforms map[string]platformStatus, st storeStatus) string {
	if !hasData {
		return "critical"
	}
	if !st.OK {
		return "degraded"
	}
	for _, p := range platforms {
		if !p.OK {
			return "degraded"
		}
	}
	return "ok"
}

func checkStore(ctx context.Context, d deps.Deps) storeStatus {
	if d.Store == nil {
		return storeStatus{Backend: "none", Impact: "bookmarks-disabled", Error: "store not initialized"}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := d.Store.Ping(ctx); err != nil {
		return storeStatus{Backend: d.Store.Backend(), Impact: "bookmarks-unavailable", Error: err.Error()}
	}
	return storeStatus{OK: true, Backend: d.Store.Backend()}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
