package manual

// SolutionsFile is the top-level structure of the solutions YAML file.
//
//	solutions:
//	  - contest: codeforces:1174
//	    url: https://www.youtube.com/watch?v=...
type SolutionsFile struct {
	Solutions []SolutionEntry `yaml:"solutions"`
}

// SolutionEntry links one contest id to a solution URL.
type SolutionEntry struct {
	Contest string `yaml:"contest"`
	URL     string `yaml:"url"`
}
