package domain

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// Suggestion is a contest matched by a fuzzy name query.
type Suggestion struct {
	Contest        Contest `json:"contest"`
	Score          int     `json:"score"`
	MatchedIndexes []int   `json:"matchedIndexes"`
}

// contestNames implements fuzzy.Source over contest names.
type contestNames []Contest

func (cn contestNames) String(i int) string { return cn[i].Name }
func (cn contestNames) Len() int            { return len(cn) }

// Suggest ranks contests by fuzzy match of query against their names,
// best first. limit <= 0 means no limit.
func Suggest(query string, contests []Contest, limit int) []Suggestion {
	query = strings.TrimSpace(query)
	if query == "" || len(contests) == 0 {
		return nil
	}

	matches := fuzzy.FindFrom(query, contestNames(contests))
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	out := make([]Suggestion, len(matches))
	for i, m := range matches {
		out[i] = Suggestion{
			Contest:        contests[m.Index],
			Score:          m.Score,
			MatchedIndexes: m.MatchedIndexes,
		}
	}
	return out
}
