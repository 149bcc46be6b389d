package manual

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidURL reports whether s is an absolute http(s) URL.
func ValidURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// MapSolutions turns the file into a contest id -> URL map. Entries
// without a contest id or with a non-http URL are reported and skipped.
// A later entry for the same contest wins.
func MapSolutions(file SolutionsFile) (map[string]string, []error) {
	out := make(map[string]string, len(file.Solutions))
	var skipped []error

	for i, entry := range file.Solutions {
		id := strings.TrimSpace(entry.Contest)
		link := strings.TrimSpace(entry.URL)
		switch {
		case id == "":
			skipped = append(skipped, fmt.Errorf("entry %d: missing contest id", i))
		case !ValidURL(link):
			skipped = append(skipped, fmt.Errorf("entry %d (%s): invalid url %q", i, id, link))
		default:
			out[id] = link
		}
	}
	return out, skipped
}
