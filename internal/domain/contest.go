package domain

import (
	"fmt"
	"strings"
	"time"
)

// Platform is the external site hosting a contest.
type Platform string

const (
	Codeforces Platform = "Codeforces"
	CodeChef   Platform = "CodeChef"
	LeetCode   Platform = "LeetCode"
)

// Platforms lists every supported platform in display order.
var Platforms = []Platform{Codeforces, LeetCode, CodeChef}

// ParsePlatform accepts a platform name or slug in any case.
func ParsePlatform(s string) (Platform, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "codeforces", "cf":
		return Codeforces, nil
	case "codechef", "cc":
		return CodeChef, nil
	case "leetcode", "lc":
		return LeetCode, nil
	default:
		return "", fmt.Errorf("unknown platform: %q", s)
	}
}

// Slug is the lowercase form used in ids, URLs and storage keys.
func (p Platform) Slug() string {
	return strings.ToLower(string(p))
}

// Valid reports whether p is one of the supported platforms.
func (p Platform) Valid() bool {
	for _, known := range Platforms {
		if p == known {
			return true
		}
	}
	return false
}

// Status is the lifecycle phase of a contest relative to a point in time.
type Status string

const (
	StatusUpcoming Status = "upcoming"
	StatusOngoing  Status = "ongoing"
	StatusPast     Status = "past"
)

// ParseStatus accepts a status name in any case.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "upcoming", "future":
		return StatusUpcoming, nil
	case "ongoing", "present", "running":
		return StatusOngoing, nil
	case "past", "finished":
		return StatusPast, nil
	default:
		return "", fmt.Errorf("unknown status: %q", s)
	}
}

// Contest is the canonical record of one external contest instance.
//
// Records are rebuilt on every fetch. Bookmark membership is never stored
// here, see ContestView.
type Contest struct {
	// ID is derived from the platform and the native code (or name and
	// start time when the platform has no stable code).
	// Example: codeforces:1174
	ID string `json:"id"`

	Platform Platform `json:"platform"`
	Name     string   `json:"name"`
	URL      string   `json:"url"`

	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`

	// Duration in seconds.
	Duration int64 `json:"duration"`

	// Status is resolved against the clock, not taken from upstream.
	Status Status `json:"status"`

	SolutionURL string `json:"solutionUrl,omitempty"`

	// NativeCode is the platform identifier the ID was derived from, if any.
	NativeCode string `json:"nativeCode,omitempty"`
}

// ContestView is a contest as presented to a client.
type ContestView struct {
	Contest
	IsBookmarked bool `json:"isBookmarked"`
}

// Bookmark is a user-local marking of a contest id.
type Bookmark struct {
	ContestID string    `json:"contestId"`
	CreatedAt time.Time `json:"createdAt"`
}

// PlatformSnapshot is the last successful fetch of one platform.
type PlatformSnapshot struct {
	Platform  Platform  `json:"platform"`
	Contests  []Contest `json:"contests"`
	FetchedAt time.Time `json:"fetchedAt"`
	RunID     string    `json:"runId,omitempty"`
}
