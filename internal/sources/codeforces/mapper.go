package codeforces

import (
	"strconv"
	"time"

	"github.com/MrSnakeDoc/horizon/internal/domain"
)

// toRaw maps one contest.list entry. Entries without a start time
// (not yet scheduled) are skipped.
func toRaw(c contestDTO) (domain.RawContest, bool) {
	if c.StartTimeSeconds == nil || *c.StartTimeSeconds <= 0 {
		return domain.RawContest{}, false
	}
	code := strconv.FormatInt(c.ID, 10)
	return domain.RawContest{
		Platform: domain.Codeforces,
		Code:     code,
		Name:     c.Name,
		URL:      domain.DefaultURL(domain.Codeforces, code),
		Start:    time.Unix(*c.StartTimeSeconds, 0).UTC(),
		Duration: time.Duration(c.DurationSeconds) * time.Second,
	}, true
}

func mapContests(list []contestDTO) []domain.RawContest {
	out := make([]domain.RawContest, 0, len(list))
	for _, c := range list {
		if raw, ok := toRaw(c); ok {
			out = append(out, raw)
		}
	}
	return out
}
