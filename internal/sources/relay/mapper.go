package relay

import (
	"fmt"
	"strconv"
	"time"

	"github.com/MrSnakeDoc/horizon/internal/domain"
	"github.com/MrSnakeDoc/horizon/internal/sources"
)

func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return time.Duration(n * float64(time.Second)), nil
	}
	return time.ParseDuration(s)
}

func toRaw(p domain.Platform, c contestDTO) (domain.RawContest, error) {
	name := firstNonEmpty(c.Name, c.ContestName)
	startText := firstNonEmpty(string(c.StartTime), string(c.Time))

	start, err := sources.ParseTime(startText, time.UTC)
	if err != nil {
		return domain.RawContest{}, fmt.Errorf("%q start: %w", name, err)
	}

	raw := domain.RawContest{
		Platform: p,
		Code:     firstNonEmpty(string(c.Code), string(c.ID)),
		Name:     name,
		URL:      firstNonEmpty(c.URL, c.ContestLink),
		Start:    start,
	}
	if end := string(c.EndTime); end != "" {
		if raw.End, err = sources.ParseTime(end, time.UTC); err != nil {
			return domain.RawContest{}, fmt.Errorf("%q end: %w", name, err)
		}
	}
	if raw.Duration, err = parseDuration(string(c.Duration)); err != nil {
		return domain.RawContest{}, fmt.Errorf("%q duration: %w", name, err)
	}
	return raw, nil
}

func mapContests(p domain.Platform, resp relayResponse) (out []domain.RawContest, skipped []error) {
	for _, group := range [][]contestDTO{resp.OngoingContests, resp.UpcomingContests, resp.PastContests} {
		for _, c := range group {
			raw, err := toRaw(p, c)
			if err != nil {
				skipped = append(skipped, err)
				continue
			}
			out = append(out, raw)
		}
	}
	return out, skipped
}
