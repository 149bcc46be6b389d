package leetcode

const contestsQuery = `{ allContests { title titleSlug startTime duration } }`

type graphQLRequest struct {
	Query string `json:"query"`
}

type graphQLResponse struct {
	Data struct {
		AllContests []contestDTO `json:"allContests"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors,omitempty"`
}

type contestDTO struct {
	Title     string `json:"title"`
	TitleSlug string `json:"titleSlug"`
	StartTime int64  `json:"startTime"` // unix seconds
	Duration  int64  `json:"duration"`  // seconds
}
