package domain

import (
	"testing"
	"time"
)

func TestResolveStatus(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		start    time.Time
		end      time.Time
		expected Status
	}{
		{
			name:     "starts in the future",
			start:    now.Add(time.Hour),
			end:      now.Add(3 * time.Hour),
			expected: StatusUpcoming,
		},
		{
			name:     "started in the past, ends in the future",
			start:    now.Add(-30 * time.Minute),
			end:      now.Add(90 * time.Minute),
			expected: StatusOngoing,
		},
		{
			name:     "ended in the past",
			start:    now.Add(-3 * time.Hour),
			end:      now.Add(-time.Hour),
			expected: StatusPast,
		},
		{
			name:     "starts exactly now",
			start:    now,
			end:      now.Add(time.Hour),
			expected: StatusOngoing,
		},
		{
			name:     "ends exactly now",
			start:    now.Add(-time.Hour),
			end:      now,
			expected: StatusPast,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveStatus(tt.start, tt.end, now); got != tt.expected {
				t.Errorf("ResolveStatus() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestWithStatusAtRefreshesStaleStatus(t *testing.T) {
	start := time.Date(2025, 3, 1, 14, 35, 0, 0, time.UTC)
	c := Contest{
		ID:        "codeforces:1174",
		StartTime: start,
		EndTime:   start.Add(2 * time.Hour),
		Status:    StatusUpcoming,
	}

	later := c.WithStatusAt(start.Add(time.Hour))
	if later.Status != StatusOngoing {
		t.Errorf("status = %v, want %v", later.Status, StatusOngoing)
	}
	if c.Status != StatusUpcoming {
		t.Error("WithStatusAt() must not mutate the receiver")
	}
}
