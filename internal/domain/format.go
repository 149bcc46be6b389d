package domain

import (
	"fmt"
	"time"
)

// FormatDuration renders a duration in seconds as "2h 30m", "2h" or "45m".
func FormatDuration(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60

	switch {
	case hours > 0 && minutes > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh", hours)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}

// FormatRelative renders t relative to now: "in 1d 2h", "in 3h 5m",
// "in 7m", "2d 1h ago", "3h 5m ago", "7m ago".
func FormatRelative(t, now time.Time) string {
	diff := int64(t.Sub(now) / time.Second)
	abs := diff
	if abs < 0 {
		abs = -abs
	}

	days := abs / 86400
	hours := (abs % 86400) / 3600
	minutes := (abs % 3600) / 60

	var span string
	switch {
	case days > 0:
		span = fmt.Sprintf("%dd %dh", days, hours)
	case hours > 0:
		span = fmt.Sprintf("%dh %dm", hours, minutes)
	default:
		span = fmt.Sprintf("%dm", minutes)
	}

	if diff > 0 {
		return "in " + span
	}
	return span + " ago"
}
