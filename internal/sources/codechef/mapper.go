package codechef

import (
	"fmt"
	"time"

	"github.com/MrSnakeDoc/horizon/internal/domain"
	"github.com/MrSnakeDoc/horizon/internal/sources"
)

// CodeChef publishes naive timestamps in Indian Standard Time.
var ist = time.FixedZone("IST", 5*3600+1800)

func parseDate(iso, plain string) (time.Time, error) {
	if iso != "" {
		if t, err := sources.ParseTime(iso, ist); err == nil {
			return t, nil
		}
	}
	return sources.ParseTime(plain, ist)
}

func toRaw(c contestDTO) (domain.RawContest, error) {
	start, err := parseDate(c.StartDateISO, c.StartDate)
	if err != nil {
		return domain.RawContest{}, fmt.Errorf("%s start: %w", c.Code, err)
	}
	raw := domain.RawContest{
		Platform: domain.CodeChef,
		Code:     c.Code,
		Name:     c.Name,
		URL:      domain.DefaultURL(domain.CodeChef, c.Code),
		Start:    start,
	}
	if c.EndDateISO != "" || c.EndDate != "" {
		end, err := parseDate(c.EndDateISO, c.EndDate)
		if err != nil {
			return domain.RawContest{}, fmt.Errorf("%s end: %w", c.Code, err)
		}
		raw.End = end
	}
	return raw, nil
}

// mapContests flattens every partition. The partitions are not trusted for
// status, which is recomputed from timestamps. Unparseable entries are
// returned as skipped.
func mapContests(resp listResponse) (out []domain.RawContest, skipped []error) {
	groups := [][]contestDTO{resp.OngoingContests, resp.PresentContests, resp.FutureContests, resp.PastContests}
	for _, group := range groups {
		for _, c := range group {
			raw, err := toRaw(c)
			if err != nil {
				skipped = append(skipped, err)
				continue
			}
			out = append(out, raw)
		}
	}
	return out, skipped
}
