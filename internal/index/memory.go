package index

import (
	"maps"
	"sync"
	"time"

	"github.com/MrSnakeDoc/horizon/internal/domain"
)

// PlatformState is what the index knows about one platform.
type PlatformState struct {
	Platform    domain.Platform `json:"platform"`
	Count       int             `json:"count"`
	FetchedAt   time.Time       `json:"fetchedAt"`   // last successful fetch
	LastAttempt time.Time       `json:"lastAttempt"` // last fetch, successful or not
	LastError   string          `json:"lastError,omitempty"`
	RunID       string          `json:"runId,omitempty"`
}

type platformEntry struct {
	contests []domain.Contest
	expired  map[string]struct{} // listed upstream but outside the past window
	state    PlatformState
}

// MemoryIndex is the read model served to clients. It is the primary
// source for reads; stores only feed it at startup.
type MemoryIndex struct {
	mu                 sync.RWMutex
	platforms          map[domain.Platform]*platformEntry
	solutions          map[string]string // contest ID -> solution URL
	lastSolutionReload time.Time
}

func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		platforms: make(map[domain.Platform]*platformEntry),
		solutions: make(map[string]string),
	}
}

func (idx *MemoryIndex) entry(p domain.Platform) *platformEntry {
	e, ok := idx.platforms[p]
	if !ok {
		e = &platformEntry{state: PlatformState{Platform: p}}
		idx.platforms[p] = e
	}
	return e
}

// ReplacePlatform swaps in a fresh contest list for p and clears its error.
func (idx *MemoryIndex) ReplacePlatform(p domain.Platform, contests []domain.Contest, fetchedAt time.Time, runID string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	e := idx.entry(p)
	e.contests = append([]domain.Contest(nil), contests...)
	e.state.Count = len(contests)
	e.state.FetchedAt = fetchedAt
	e.state.LastAttempt = fetchedAt
	e.state.LastError = ""
	e.state.RunID = runID
}

// SetExpired replaces the ids p still lists upstream but no longer serves
// because they ended before the past window.
func (idx *MemoryIndex) SetExpired(p domain.Platform, ids []string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	e := idx.entry(p)
	e.expired = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		e.expired[id] = struct{}{}
	}
}

// IsExpired reports whether id was dropped by the past window on the
// last successful fetch of its platform.
func (idx *MemoryIndex) IsExpired(id string) bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	for _, e := range idx.platforms {
		if _, ok := e.expired[id]; ok {
			return true
		}
	}
	return false
}

// MarkFailed records a failed fetch. Previously fetched contests for p
// stay in place and keep being served.
func (idx *MemoryIndex) MarkFailed(p domain.Platform, err error, at time.Time) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	e := idx.entry(p)
	e.state.LastAttempt = at
	if err != nil {
		e.state.LastError = err.Error()
	}
}

// LoadSnapshot seeds a platform from persisted data. It is ignored when
// the index already holds a fetch at least as recent.
func (idx *MemoryIndex) LoadSnapshot(snap domain.PlatformSnapshot) bool {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	e := idx.entry(snap.Platform)
	if !e.state.FetchedAt.IsZero() && !snap.FetchedAt.After(e.state.FetchedAt) {
		return false
	}
	e.contests = append([]domain.Contest(nil), snap.Contests...)
	e.state.Count = len(snap.Contests)
	e.state.FetchedAt = snap.FetchedAt
	e.state.RunID = snap.RunID
	return true
}

// Contests returns every known contest, de-duplicated by ID, with status
// re-resolved at now and solution links applied, in display order.
func (idx *MemoryIndex) Contests(now time.Time) []domain.Contest {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	total := 0
	for _, e := range idx.platforms {
		total += len(e.contests)
	}

	out := make([]domain.Contest, 0, total)
	seen := make(map[string]struct{}, total)
	for _, p := range idx.platformOrder() {
		for _, c := range idx.platforms[p].contests {
			if _, dup := seen[c.ID]; dup {
				continue
			}
			seen[c.ID] = struct{}{}
			out = append(out, idx.present(c, now))
		}
	}
	domain.SortContests(out)
	return out
}

// Contest looks up a single contest by ID.
func (idx *MemoryIndex) Contest(id string, now time.Time) (domain.Contest, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	for _, p := range idx.platformOrder() {
		for _, c := range idx.platforms[p].contests {
			if c.ID == id {
				return idx.present(c, now), true
			}
		}
	}
	return domain.Contest{}, false
}

// Has reports whether a contest with this ID is currently indexed.
func (idx *MemoryIndex) Has(id string) bool {
	_, ok := idx.Contest(id, time.Time{})
	return ok
}

func (idx *MemoryIndex) present(c domain.Contest, now time.Time) domain.Contest {
	c = c.WithStatusAt(now)
	if link, ok := idx.solutions[c.ID]; ok {
		c.SolutionURL = link
	}
	return c
}

// platformOrder lists known platforms, supported ones first in display order.
func (idx *MemoryIndex) platformOrder() []domain.Platform {
	order := make([]domain.Platform, 0, len(idx.platforms))
	for _, p := range domain.Platforms {
		if _, ok := idx.platforms[p]; ok {
			order = append(order, p)
		}
	}
	return order
}

// Errors maps platform slugs to their last fetch error.
func (idx *MemoryIndex) Errors() map[string]string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	out := make(map[string]string)
	for p, e := range idx.platforms {
		if e.state.LastError != "" {
			out[p.Slug()] = e.state.LastError
		}
	}
	return out
}

// States reports per-platform bookkeeping in display order.
func (idx *MemoryIndex) States() []PlatformState {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	out := make([]PlatformState, 0, len(idx.platforms))
	for _, p := range idx.platformOrder() {
		out = append(out, idx.platforms[p].state)
	}
	return out
}

// HasData reports whether any platform has been loaded at least once.
func (idx *MemoryIndex) HasData() bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	for _, e := range idx.platforms {
		if !e.state.FetchedAt.IsZero() {
			return true
		}
	}
	return false
}

// LastFetch returns the most recent successful fetch across platforms.
func (idx *MemoryIndex) LastFetch() time.Time {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	var last time.Time
	for _, e := range idx.platforms {
		if e.state.FetchedAt.After(last) {
			last = e.state.FetchedAt
		}
	}
	return last
}

// ─────────────────────────────────────────────────────────────────
// Solution links
// ─────────────────────────────────────────────────────────────────

// UpdateSolutions replaces all solution links.
func (idx *MemoryIndex) UpdateSolutions(links map[string]string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.solutions = maps.Clone(links)
	if idx.solutions == nil {
		idx.solutions = make(map[string]string)
	}
	idx.lastSolutionReload = time.Now()
}

func (idx *MemoryIndex) SetSolution(id, link string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.solutions[id] = link
}

func (idx *MemoryIndex) DeleteSolution(id string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	delete(idx.solutions, id)
}

func (idx *MemoryIndex) SolutionCount() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.solutions)
}

func (idx *MemoryIndex) GetLastSolutionReload() time.Time {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.lastSolutionReload
}
