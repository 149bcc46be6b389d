package leetcode

import (
	"time"

	"github.com/MrSnakeDoc/horizon/internal/domain"
)

func mapContests(list []contestDTO) []domain.RawContest {
	out := make([]domain.RawContest, 0, len(list))
	for _, c := range list {
		if c.StartTime <= 0 {
			continue
		}
		out = append(out, domain.RawContest{
			Platform: domain.LeetCode,
			Code:     c.TitleSlug,
			Name:     c.Title,
			URL:      domain.DefaultURL(domain.LeetCode, c.TitleSlug),
			Start:    time.Unix(c.StartTime, 0).UTC(),
			Duration: time.Duration(c.Duration) * time.Second,
		})
	}
	return out
}
