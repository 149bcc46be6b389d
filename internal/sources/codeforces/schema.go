package codeforces

// listResponse is the envelope of contest.list.
type listResponse struct {
	Status  string       `json:"status"`
	Comment string       `json:"comment,omitempty"`
	Result  []contestDTO `json:"result"`
}

type contestDTO struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	Type             string `json:"type"`
	Phase            string `json:"phase"`
	DurationSeconds  int64  `json:"durationSeconds"`
	StartTimeSeconds *int64 `json:"startTimeSeconds,omitempty"`
}
