package domain

import (
	"sort"
	"strings"
)

// FilterState is the set of restrictions applied to a contest listing.
// Every axis is optional; an empty axis does not restrict anything.
type FilterState struct {
	Platforms []Platform
	Statuses  []Status
	Query     string
}

// NewFilterState parses raw filter values. Each value may itself be a
// comma separated list ("codeforces,leetcode").
func NewFilterState(platforms, statuses []string, query string) (FilterState, error) {
	fs := FilterState{Query: strings.TrimSpace(query)}

	for _, raw := range splitValues(platforms) {
		p, err := ParsePlatform(raw)
		if err != nil {
			return FilterState{}, err
		}
		fs.Platforms = appendUnique(fs.Platforms, p)
	}

	for _, raw := range splitValues(statuses) {
		s, err := ParseStatus(raw)
		if err != nil {
			return FilterState{}, err
		}
		fs.Statuses = appendUnique(fs.Statuses, s)
	}

	return fs, nil
}

// IsEmpty reports whether fs restricts nothing.
func (fs FilterState) IsEmpty() bool {
	return len(fs.Platforms) == 0 && len(fs.Statuses) == 0 && strings.TrimSpace(fs.Query) == ""
}

// Match reports whether c satisfies every axis of fs.
func (fs FilterState) Match(c Contest) bool {
	if len(fs.Platforms) > 0 && !contains(fs.Platforms, c.Platform) {
		return false
	}
	if len(fs.Statuses) > 0 && !contains(fs.Statuses, c.Status) {
		return false
	}
	if q := strings.TrimSpace(fs.Query); q != "" {
		if !strings.Contains(strings.ToLower(c.Name), strings.ToLower(q)) {
			return false
		}
	}
	return true
}

// Filter returns the contests matching fs, preserving order.
// An empty filter returns the input unchanged.
func Filter(contests []Contest, fs FilterState) []Contest {
	if fs.IsEmpty() {
		return contests
	}

	out := make([]Contest, 0, len(contests))
	for _, c := range contests {
		if fs.Match(c) {
			out = append(out, c)
		}
	}
	return out
}

// SortContests orders contests the way listings show them: ongoing first,
// then upcoming soonest first, then past most recent first. Ties break on ID.
func SortContests(contests []Contest) {
	rank := map[Status]int{StatusOngoing: 0, StatusUpcoming: 1, StatusPast: 2}

	sort.SliceStable(contests, func(i, j int) bool {
		a, b := contests[i], contests[j]
		if rank[a.Status] != rank[b.Status] {
			return rank[a.Status] < rank[b.Status]
		}
		if !a.StartTime.Equal(b.StartTime) {
			if a.Status == StatusPast {
				return a.StartTime.After(b.StartTime)
			}
			return a.StartTime.Before(b.StartTime)
		}
		return a.ID < b.ID
	})
}

func splitValues(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func contains[T comparable](set []T, v T) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func appendUnique[T comparable](set []T, v T) []T {
	if contains(set, v) {
		return set
	}
	return append(set, v)
}
