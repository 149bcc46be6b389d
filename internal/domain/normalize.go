package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrMissingName  = errors.New("contest has no name")
	ErrMissingStart = errors.New("contest has no start time")
	ErrInvalidRange = errors.New("contest ends before it starts")
)

// RawContest is a contest as read from an upstream API, before normalization.
// Sources fill what their platform provides and leave the rest zero.
type RawContest struct {
	Platform Platform
	Code     string // platform-native identifier, may be empty
	Name     string
	URL      string
	Start    time.Time
	End      time.Time
	Duration time.Duration
}

// ContestID derives the stable identity of a contest.
//
//	codeforces:1174
//	leetcode:weekly-contest-305
//	codechef:Starters 47-2025-01-08T14:30:00Z (no native code)
func ContestID(p Platform, code, name string, start time.Time) string {
	key := strings.TrimSpace(code)
	if key == "" {
		key = strings.TrimSpace(name) + "-" + start.UTC().Format(time.RFC3339)
	}
	return p.Slug() + ":" + key
}

// Normalize validates a raw contest and turns it into a canonical record
// with a stable ID and a status resolved at now.
func Normalize(raw RawContest, now time.Time) (Contest, error) {
	platform, err := ParsePlatform(string(raw.Platform))
	if err != nil {
		return Contest{}, err
	}

	name := strings.TrimSpace(raw.Name)
	if name == "" {
		return Contest{}, ErrMissingName
	}
	if raw.Start.IsZero() {
		return Contest{}, fmt.Errorf("%s: %w", name, ErrMissingStart)
	}

	start := raw.Start.UTC()
	end := raw.End.UTC()
	switch {
	case raw.End.IsZero() && raw.Duration > 0:
		end = start.Add(raw.Duration)
	case raw.End.IsZero():
		end = start
	}
	if end.Before(start) {
		return Contest{}, fmt.Errorf("%s: %w", name, ErrInvalidRange)
	}

	code := strings.TrimSpace(raw.Code)
	url := strings.TrimSpace(raw.URL)
	if url == "" {
		url = DefaultURL(platform, code)
	}

	return Contest{
		ID:         ContestID(platform, code, name, start),
		Platform:   platform,
		Name:       name,
		URL:        url,
		StartTime:  start,
		EndTime:    end,
		Duration:   int64(end.Sub(start) / time.Second),
		Status:     ResolveStatus(start, end, now),
		NativeCode: code,
	}, nil
}

// Raw converts a normalized contest back into raw input.
// Normalize(c.Raw(), now) yields the same ID as c.
func (c Contest) Raw() RawContest {
	return RawContest{
		Platform: c.Platform,
		Code:     c.NativeCode,
		Name:     c.Name,
		URL:      c.URL,
		Start:    c.StartTime,
		End:      c.EndTime,
		Duration: time.Duration(c.Duration) * time.Second,
	}
}

// DefaultURL builds the contest page URL from a native code.
// Returns the platform home page when code is empty.
func DefaultURL(p Platform, code string) string {
	switch p {
	case Codeforces:
		if code == "" {
			return "https://codeforces.com/contests"
		}
		return "https://codeforces.com/contests/" + code
	case CodeChef:
		if code == "" {
			return "https://www.codechef.com/contests"
		}
		return "https://www.codechef.com/" + code
	case LeetCode:
		if code == "" {
			return "https://leetcode.com/contest/"
		}
		return "https://leetcode.com/contest/" + code
	default:
		return ""
	}
}
