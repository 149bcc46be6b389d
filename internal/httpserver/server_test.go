package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/horizon/internal/bookmarks"
	"github.com/MrSnakeDoc/horizon/internal/config"
	"github.com/MrSnakeDoc/horizon/internal/domain"
	"github.com/MrSnakeDoc/horizon/internal/httpserver/deps"
	"github.com/MrSnakeDoc/horizon/internal/index"
	"github.com/MrSnakeDoc/horizon/internal/logger"
	"github.com/MrSnakeDoc/horizon/internal/store/memory"
)

var now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	handler http.Handler
	deps    deps.Deps
	cfg     *config.Config
}

func newFixture(t *testing.T, mutate func(*config.Config, *deps.Deps)) *fixture {
	t.Helper()
	log := logger.NewNop()

	idx := index.NewMemoryIndex()
	st := memory.New()

	var contests []domain.Contest
	for _, raw := range []domain.RawContest{
		{Platform: domain.Codeforces, Code: "2050", Name: "Codeforces Round 990", Start: now.Add(24 * time.Hour), Duration: 2 * time.Hour},
		{Platform: domain.Codeforces, Code: "2051", Name: "Educational Round 170", Start: now.Add(-time.Hour), Duration: 2 * time.Hour},
	} {
		c, err := domain.Normalize(raw, now)
		require.NoError(t, err)
		contests = append(contests, c)
	}
	idx.ReplacePlatform(domain.Codeforces, contests, now, "run-1")
	idx.MarkFailed(domain.LeetCode, errors.New("leetcode: status 503"), now)

	cfg := &config.Config{
		ListenPort:     ":0",
		RequestTimeout: 2 * time.Second,
		CORSOrigins:    []string{"*"},
	}
	d := deps.Deps{
		Logger:          log,
		StartTime:       now.Add(-time.Minute),
		Version:         "test",
		TimeNow:         func() time.Time { return now },
		Platforms:       domain.Platforms,
		Index:           idx,
		Bookmarks:       bookmarks.NewService(st, idx, log),
		Store:           st,
		Validate:        validator.New(),
		RefreshTrigger:  make(chan struct{}, 1),
		SolutionTrigger: make(chan struct{}, 1),
	}
	if mutate != nil {
		mutate(cfg, &d)
	}

	return &fixture{handler: NewRouter(cfg, log, d), deps: d, cfg: cfg}
}

func (f *fixture) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type listBody struct {
	Contests  []domain.ContestView `json:"contests"`
	Count     int                  `json:"count"`
	Errors    map[string]string    `json:"errors"`
	FetchedAt *time.Time           `json:"fetchedAt"`
}

type stateBody struct {
	ID         string `json:"id"`
	Bookmarked bool   `json:"bookmarked"`
}

func TestListContests(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodGet, "/api/contests", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := decode[listBody](t, rec)
	assert.Equal(t, 2, body.Count)
	require.Len(t, body.Contests, 2)
	assert.Equal(t, "codeforces:2051", body.Contests[0].ID, "ongoing first")
	assert.Equal(t, domain.StatusOngoing, body.Contests[0].Status)
	assert.Contains(t, body.Errors, "leetcode")
	require.NotNil(t, body.FetchedAt)
	assert.True(t, body.FetchedAt.Equal(now))
}

func TestListContestsFilters(t *testing.T) {
	f := newFixture(t, nil)

	tests := []struct {
		name      string
		target    string
		wantCode  int
		wantCount int
	}{
		{"status", "/api/contests?status=upcoming", http.StatusOK, 1},
		{"query", "/api/contests?q=educational", http.StatusOK, 1},
		{"platform without contests", "/api/contests?platform=codechef", http.StatusOK, 0},
		{"unknown platform", "/api/contests?platform=atcoder", http.StatusBadRequest, 0},
		{"unknown status", "/api/contests?status=soon", http.StatusBadRequest, 0},
		{"bad bookmarked flag", "/api/contests?bookmarked=maybe", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, http.MethodGet, tt.target, "")
			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			if tt.wantCode != http.StatusOK {
				assert.NotEmpty(t, decode[map[string]string](t, rec)["error"])
				return
			}
			assert.Equal(t, tt.wantCount, decode[listBody](t, rec).Count)
		})
	}
}

func TestBookmarkToggleRoundTrip(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodPost, "/api/bookmarks/codeforces:2050/toggle", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, stateBody{ID: "codeforces:2050", Bookmarked: true}, decode[stateBody](t, rec))

	rec = f.do(t, http.MethodGet, "/api/contests?bookmarked=true", "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[listBody](t, rec)
	require.Equal(t, 1, list.Count)
	assert.True(t, list.Contests[0].IsBookmarked)

	rec = f.do(t, http.MethodGet, "/api/bookmarks/codeforces%3A2050", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[stateBody](t, rec).Bookmarked)

	rec = f.do(t, http.MethodPost, "/api/bookmarks/codeforces:2050/toggle", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[stateBody](t, rec).Bookmarked)

	rec = f.do(t, http.MethodGet, "/api/bookmarks", "")
	require.Equal(t, http.StatusOK, rec.Code)
	resolved := decode[bookmarks.Resolved](t, rec)
	assert.Empty(t, resolved.Contests)
	assert.Empty(t, resolved.Orphans)
}

func TestToggleUnknownContest(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodPost, "/api/bookmarks/atcoder:abc300/toggle", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetContest(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodGet, "/api/contests/codeforces%3A2050", "")
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[domain.ContestView](t, rec)
	assert.Equal(t, "Codeforces Round 990", view.Name)
	assert.False(t, view.IsBookmarked)

	rec = f.do(t, http.MethodGet, "/api/contests/codeforces:9999", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestContestIDsWithReservedCharacters(t *testing.T) {
	var ids []string
	f := newFixture(t, func(_ *config.Config, d *deps.Deps) {
		var contests []domain.Contest
		for _, name := range []string{"100% Round", "Div. 1/2 Round", "Round 50%25"} {
			c, err := domain.Normalize(domain.RawContest{Platform: domain.CodeChef, Name: name, Start: now.Add(time.Hour), Duration: time.Hour}, now)
			require.NoError(t, err)
			contests = append(contests, c)
			ids = append(ids, c.ID)
		}
		d.Index.ReplacePlatform(domain.CodeChef, contests, now, "run-1")
	})
	require.Equal(t, "codechef:100% Round-2025-03-01T13:00:00Z", ids[0])

	for _, id := range ids {
		t.Run(id, func(t *testing.T) {
			escaped := url.PathEscape(id)

			rec := f.do(t, http.MethodGet, "/api/contests/"+escaped, "")
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, id, decode[domain.ContestView](t, rec).ID)

			rec = f.do(t, http.MethodPost, "/api/bookmarks/"+escaped+"/toggle", "")
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, stateBody{ID: id, Bookmarked: true}, decode[stateBody](t, rec))

			rec = f.do(t, http.MethodGet, "/api/bookmarks/"+escaped, "")
			require.Equal(t, http.StatusOK, rec.Code)
			assert.True(t, decode[stateBody](t, rec).Bookmarked)
		})
	}
}

func TestSolutionLifecycle(t *testing.T) {
	f := newFixture(t, nil)
	const target = "/api/contests/codeforces:2050/solution"

	rec := f.do(t, http.MethodPut, target, `{"url":"ftp://example.com/x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPut, target, `{"link":"https://example.com"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "unknown fields are rejected")

	rec = f.do(t, http.MethodPut, "/api/contests/codeforces:9999/solution", `{"url":"https://example.com/editorial"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodPut, target, `{"url":"https://codeforces.com/blog/entry/1"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	view := decode[domain.ContestView](t, f.do(t, http.MethodGet, "/api/contests/codeforces:2050", ""))
	assert.Equal(t, "https://codeforces.com/blog/entry/1", view.SolutionURL)

	stored, err := f.deps.Store.ListSolutions(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "https://codeforces.com/blog/entry/1", stored["codeforces:2050"])

	rec = f.do(t, http.MethodDelete, target, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	view = decode[domain.ContestView](t, f.do(t, http.MethodGet, "/api/contests/codeforces:2050", ""))
	assert.Empty(t, view.SolutionURL)
}

func TestSuggest(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodGet, "/api/contests/suggest?q=edu&limit=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[struct {
		Suggestions []domain.Suggestion `json:"suggestions"`
	}](t, rec)
	require.Len(t, body.Suggestions, 1)
	assert.Equal(t, "codeforces:2051", body.Suggestions[0].Contest.ID)

	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodGet, "/api/contests/suggest", "").Code)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodGet, "/api/contests/suggest?q=x&limit=0", "").Code)
}

func TestReadyz(t *testing.T) {
	f := newFixture(t, nil)
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/readyz", "").Code)

	empty := newFixture(t, func(_ *config.Config, d *deps.Deps) {
		d.Index = index.NewMemoryIndex()
	})
	assert.Equal(t, http.StatusServiceUnavailable, empty.do(t, http.MethodGet, "/readyz", "").Code)
}

func TestHealthz(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.InDelta(t, 60, body["uptime_seconds"], 0.001)
}

func TestReloadTriggers(t *testing.T) {
	f := newFixture(t, nil)

	assert.Equal(t, http.StatusAccepted, f.do(t, http.MethodPost, "/reload", "").Code)
	assert.Len(t, f.deps.RefreshTrigger, 1)
	assert.Len(t, f.deps.SolutionTrigger, 1)

	assert.Equal(t, http.StatusTooManyRequests, f.do(t, http.MethodPost, "/reload", "").Code)
}

func TestAdminRoutesRestricted(t *testing.T) {
	f := newFixture(t, func(_ *config.Config, d *deps.Deps) {
		d.AllowedCIDRS = []string{"10.0.0.0/8"}
		d.AllowedHosts = []string{"*.example.com"}
	})

	// httptest requests come from 192.0.2.1
	assert.Equal(t, http.StatusForbidden, f.do(t, http.MethodPost, "/reload", "").Code)
	assert.Equal(t, http.StatusForbidden, f.do(t, http.MethodGet, "/infra", "").Code)
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/healthz", "").Code)

	req := httptest.NewRequest(http.MethodGet, "/infra", nil)
	req.RemoteAddr = "10.1.2.3:4567"
	req.Host = "horizon.example.com:8080"
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req.Host = "example.org"
	rec = httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestInfraReportsDegradedPlatform(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodGet, "/infra", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Mode      string `json:"mode"`
		Platforms map[string]struct {
			OK       bool   `json:"ok"`
			Contests int    `json:"contests"`
			Error    string `json:"error"`
		} `json:"platforms"`
		Store struct {
			OK      bool   `json:"ok"`
			Backend string `json:"backend"`
		} `json:"store"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, "degraded", body.Mode)
	assert.True(t, body.Platforms["codeforces"].OK)
	assert.Equal(t, 2, body.Platforms["codeforces"].Contests)
	assert.False(t, body.Platforms["leetcode"].OK)
	assert.Equal(t, "never fetched", body.Platforms["codechef"].Error)
	assert.True(t, body.Store.OK)
	assert.Equal(t, "memory", body.Store.Backend)
}

func TestRateLimit(t *testing.T) {
	f := newFixture(t, func(cfg *config.Config, _ *deps.Deps) {
		cfg.RateLimitPerMin = 2
	})

	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/healthz", "").Code)
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/healthz", "").Code)

	rec := f.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
}

func TestUnknownRouteIsJSON(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not found", decode[map[string]string](t, rec)["error"])
}
