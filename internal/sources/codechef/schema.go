package codechef

// listResponse covers both the official list endpoint and the community
// mirror, which name the running contests differently.
type listResponse struct {
	Status          string       `json:"status,omitempty"`
	Message         string       `json:"message,omitempty"`
	OngoingContests []contestDTO `json:"ongoing_contests"`
	PresentContests []contestDTO `json:"present_contests"`
	FutureContests  []contestDTO `json:"future_contests"`
	PastContests    []contestDTO `json:"past_contests"`
}

type contestDTO struct {
	Code         string `json:"contest_code"`
	Name         string `json:"contest_name"`
	StartDate    string `json:"contest_start_date"`
	EndDate      string `json:"contest_end_date"`
	StartDateISO string `json:"contest_start_date_iso,omitempty"`
	EndDateISO   string `json:"contest_end_date_iso,omitempty"`
}
